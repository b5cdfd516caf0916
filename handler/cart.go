package handler

import (
	"cinema_storefront/constants"
	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
)

func GetCart(c *fiber.Ctx) error {
	sess := currentSession(c)
	snap, err := sess.Cart.Reload(c.UserContext())
	if err != nil && !isSuperseded(err) {
		return remoteError(c, err, constants.CART_LOAD_FAILED)
	}
	if isSuperseded(err) {
		snap = sess.Cart.Snapshot()
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cartView(sess, snap))
}

func AddCartItem(c *fiber.Ctx) error {
	input := c.Locals("addInput").(model.AddToCartInput)
	sess := currentSession(c)

	snap, err := sess.Cart.Add(c.UserContext(), input.Seat(), input.ShowtimeId)
	if err != nil {
		return remoteError(c, err, constants.CART_ADD_FAILED)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, cartView(sess, snap))
}

func RemoveCartItem(c *fiber.Ctx) error {
	key := c.Locals("cartItem").(model.CartItemKey)
	sess := currentSession(c)

	snap, err := sess.Cart.Remove(c.UserContext(), key.SeatId, key.ShowtimeId)
	if err != nil {
		return remoteError(c, err, constants.CART_REMOVE_FAILED)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cartView(sess, snap))
}

func ClearCart(c *fiber.Ctx) error {
	sess := currentSession(c)

	snap, err := sess.Cart.Clear(c.UserContext())
	if err != nil {
		return remoteError(c, err, constants.CART_CLEAR_FAILED)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cartView(sess, snap))
}

func UpdateCartDiscount(c *fiber.Ctx) error {
	key := c.Locals("cartItem").(model.CartItemKey)
	input := c.Locals("discountInput").(model.DiscountInput)
	sess := currentSession(c)

	snap, err := sess.Cart.UpdateDiscount(c.UserContext(), key.SeatId, key.ShowtimeId, input.SeatTypeDiscountId)
	if err != nil {
		return remoteError(c, err, constants.CART_DISCOUNT_FAILED)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cartView(sess, snap))
}

func GetCartTimer(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, currentSession(c).Timer.State())
}
