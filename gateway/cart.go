package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cinema_storefront/constants"
	"cinema_storefront/model"
)

func guestQuery(guestID string) url.Values {
	return url.Values{"guest_id": []string{guestID}}
}

func (c *Client) FetchUserCart(ctx context.Context, token string) (model.CartResponse, error) {
	var out model.CartResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/user/cart", token: token, fallback: constants.CART_LOAD_FAILED}, &out)
	return out, err
}

func (c *Client) FetchGuestCart(ctx context.Context, guestID string) (model.CartResponse, error) {
	var out model.CartResponse
	err := c.do(ctx, request{method: http.MethodGet, path: "/guest/cart", query: guestQuery(guestID), fallback: constants.CART_LOAD_FAILED}, &out)
	return out, err
}

func (c *Client) AddToUserCart(ctx context.Context, token string, seatID int, price float64, showtimeID int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/user/cart",
		token:    token,
		body:     model.AddCartItemInput{SeatId: seatID, Price: price, ShowtimeId: showtimeID},
		fallback: constants.CART_ADD_FAILED,
	}, &out)
	return out, err
}

func (c *Client) AddToGuestCart(ctx context.Context, guestID string, seatID int, price float64, showtimeID int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/guest/cart",
		body:     model.AddCartItemInput{SeatId: seatID, Price: price, ShowtimeId: showtimeID, GuestId: guestID},
		fallback: constants.CART_ADD_FAILED,
	}, &out)
	return out, err
}

func (c *Client) RemoveFromUserCart(ctx context.Context, token string, showtimeID, seatID int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/user/cart/%d/%d", showtimeID, seatID),
		token:    token,
		fallback: constants.CART_REMOVE_FAILED,
	}, &out)
	return out, err
}

func (c *Client) RemoveFromGuestCart(ctx context.Context, guestID string, showtimeID, seatID int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/guest/cart/%d/%d", showtimeID, seatID),
		query:    guestQuery(guestID),
		fallback: constants.CART_REMOVE_FAILED,
	}, &out)
	return out, err
}

func (c *Client) ClearUserCart(ctx context.Context, token string) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{method: http.MethodDelete, path: "/user/cart", token: token, fallback: constants.CART_CLEAR_FAILED}, &out)
	return out, err
}

func (c *Client) ClearGuestCart(ctx context.Context, guestID string) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{method: http.MethodDelete, path: "/guest/cart", query: guestQuery(guestID), fallback: constants.CART_CLEAR_FAILED}, &out)
	return out, err
}

func (c *Client) UpdateUserCart(ctx context.Context, token string, seatID, showtimeID int, seatTypeDiscountID *int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/user/cart/update",
		token:    token,
		body:     model.UpdateCartItemInput{SeatId: seatID, ShowtimeId: showtimeID, SeatTypeDiscountId: seatTypeDiscountID},
		fallback: constants.CART_DISCOUNT_FAILED,
	}, &out)
	return out, err
}

func (c *Client) UpdateGuestCart(ctx context.Context, guestID string, seatID, showtimeID int, seatTypeDiscountID *int) (model.Ack, error) {
	var out model.Ack
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/guest/cart/update",
		body:     model.UpdateCartItemInput{SeatId: seatID, ShowtimeId: showtimeID, SeatTypeDiscountId: seatTypeDiscountID, GuestId: guestID},
		fallback: constants.CART_DISCOUNT_FAILED,
	}, &out)
	return out, err
}

// The methods below pick the user or guest endpoint family from the identity.

func (c *Client) FetchCart(ctx context.Context, id model.Identity) (model.CartResponse, error) {
	if id.IsUser() {
		return c.FetchUserCart(ctx, id.Token)
	}
	return c.FetchGuestCart(ctx, id.GuestId)
}

func (c *Client) AddItem(ctx context.Context, id model.Identity, seatID int, price float64, showtimeID int) (model.Ack, error) {
	if id.IsUser() {
		return c.AddToUserCart(ctx, id.Token, seatID, price, showtimeID)
	}
	return c.AddToGuestCart(ctx, id.GuestId, seatID, price, showtimeID)
}

func (c *Client) RemoveItem(ctx context.Context, id model.Identity, showtimeID, seatID int) (model.Ack, error) {
	if id.IsUser() {
		return c.RemoveFromUserCart(ctx, id.Token, showtimeID, seatID)
	}
	return c.RemoveFromGuestCart(ctx, id.GuestId, showtimeID, seatID)
}

func (c *Client) ClearCart(ctx context.Context, id model.Identity) (model.Ack, error) {
	if id.IsUser() {
		return c.ClearUserCart(ctx, id.Token)
	}
	return c.ClearGuestCart(ctx, id.GuestId)
}

func (c *Client) UpdateDiscount(ctx context.Context, id model.Identity, seatID, showtimeID int, seatTypeDiscountID *int) (model.Ack, error) {
	if id.IsUser() {
		return c.UpdateUserCart(ctx, id.Token, seatID, showtimeID, seatTypeDiscountID)
	}
	return c.UpdateGuestCart(ctx, id.GuestId, seatID, showtimeID, seatTypeDiscountID)
}
