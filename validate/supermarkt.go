package validate

import (
	"cinema_storefront/constants"
	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
)

// Product checks the shape only; the Pfand option is checked against the
// backend's list in the handler.
func Product() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.Product
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.FILL_ALL_FIELDS, err)
		}

		c.Locals("productInput", input)
		return c.Next()
	}
}

func PfandScan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.PfandScanInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}

		c.Locals("scanInput", input)
		return c.Next()
	}
}

func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CheckoutInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}

		c.Locals("checkoutInput", input)
		return c.Next()
	}
}
