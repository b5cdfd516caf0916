package validate

import (
	"cinema_storefront/constants"
	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
)

func AddCartItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AddToCartInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}

		c.Locals("addInput", input)
		return c.Next()
	}
}

// CartItem reads :showtimeId and :seatId.
func CartItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		showtimeId, err := paramId(c, "showtimeId")
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INPUT_IS_NOT_NUMBER, err)
		}
		seatId, err := paramId(c, "seatId")
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INPUT_IS_NOT_NUMBER, err)
		}

		c.Locals("cartItem", model.CartItemKey{ShowtimeId: showtimeId, SeatId: seatId})
		return c.Next()
	}
}

func UpdateDiscount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.DiscountInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
		}

		c.Locals("discountInput", input)
		return c.Next()
	}
}
