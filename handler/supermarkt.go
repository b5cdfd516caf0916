package handler

import (
	"context"
	"errors"

	"cinema_storefront/constants"
	"cinema_storefront/gateway"
	"cinema_storefront/helper"
	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
)

func GetProducts(c *fiber.Ctx) error {
	token := bearerToken(c)
	items, err := Backend.FetchProducts(c.UserContext(), token)
	if err != nil {
		return remoteError(c, err, "Fehler beim Laden der Produkte.")
	}

	state := helper.SortState{Column: c.Query("sort"), Direction: helper.ParseDirection(c.Query("order"))}
	var options []model.PfandOption
	if state.Column == "pfand_id" {
		options, err = Backend.FetchPfandOptions(c.UserContext(), token)
		if err != nil {
			return remoteError(c, err, "Fehler beim Laden der Pfand-Optionen.")
		}
	}
	helper.SortProducts(items, state, options)
	return utils.SuccessResponse(c, fiber.StatusOK, items)
}

func GetProductByBarcode(c *fiber.Ctx) error {
	product, err := Backend.FetchProductByBarcode(c.UserContext(), bearerToken(c), c.Params("barcode"))
	if err != nil {
		return remoteError(c, err, constants.ITEM_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, product)
}

type productWriter func(ctx context.Context, token string, p model.Product) (*model.Product, error)

func CreateProduct(c *fiber.Ctx) error {
	input := c.Locals("productInput").(model.Product)
	return saveProduct(c, input, fiber.StatusCreated, Backend.AddProduct)
}

func UpdateProduct(c *fiber.Ctx) error {
	input := c.Locals("productInput").(model.Product)
	input.ItemId = c.Locals("inputId").(int)
	return saveProduct(c, input, fiber.StatusOK, Backend.UpdateProduct)
}

func saveProduct(c *fiber.Ctx, input model.Product, status int, write productWriter) error {
	token := bearerToken(c)
	options, err := Backend.FetchPfandOptions(c.UserContext(), token)
	if err != nil {
		return remoteError(c, err, "Fehler beim Laden der Pfand-Optionen.")
	}
	if err := helper.ValidateProduct(input, options); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
	}

	saved, err := write(c.UserContext(), token, input)
	if err != nil {
		return remoteError(c, err, "Fehler beim Speichern des Produkts.")
	}
	return utils.SuccessResponse(c, status, saved)
}

func GetPfandOptions(c *fiber.Ctx) error {
	options, err := Backend.FetchPfandOptions(c.UserContext(), bearerToken(c))
	if err != nil {
		return remoteError(c, err, "Fehler beim Laden der Pfand-Optionen.")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, options)
}

// ScanPfand adds the deposit of the scanned barcode to the client's list
// and returns the new list with its receipt.
func ScanPfand(c *fiber.Ctx) error {
	input := c.Locals("scanInput").(model.PfandScanInput)

	product, err := Backend.FetchProductByBarcode(c.UserContext(), bearerToken(c), input.Barcode)
	if err != nil {
		var remote *gateway.RemoteError
		if errors.As(err, &remote) && remote.Status == fiber.StatusNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ITEM_NOT_FOUND, err)
		}
		return remoteError(c, err, constants.ITEM_NOT_FOUND)
	}

	item, err := helper.PfandItemOf(product)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, err.Error(), err)
	}

	items := helper.AddOrUpdatePfandItem(input.Items, item)
	return utils.SuccessResponse(c, fiber.StatusOK, model.PfandScanResult{
		Items: items,
		Total: helper.CalculateTotalPfand(items),
		Bon:   helper.FormatBon(items, Clock().Now()),
	})
}

func CheckoutTotals(c *fiber.Ctx) error {
	input := c.Locals("checkoutInput").(model.CheckoutInput)
	return utils.SuccessResponse(c, fiber.StatusOK, helper.ComputeTotals(input.Items, input.Discount))
}
