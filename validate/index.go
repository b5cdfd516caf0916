package validate

import (
	"errors"
	"strconv"

	"cinema_storefront/constants"
	"cinema_storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.Atoi(params)
		if err != nil || valueKey <= 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		c.Locals("inputId", valueKey)
		return c.Next()
	}
}

func paramId(c *fiber.Ctx, key string) (int, error) {
	value, err := strconv.Atoi(c.Params(key))
	if err != nil || value <= 0 {
		return 0, errors.New("params invalid")
	}
	return value, nil
}
