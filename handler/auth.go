package handler

import (
	"errors"

	"cinema_storefront/constants"
	"cinema_storefront/identity"
	"cinema_storefront/model"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
)

type sessionView struct {
	Profile model.Profile  `json:"profile"`
	Cart    model.CartView `json:"cart"`
}

func GetAuthSession(c *fiber.Ctx) error {
	sess := currentSession(c)
	return utils.SuccessResponse(c, fiber.StatusOK, sess.Identity.Profile())
}

// CreateAuthSession signs the device in with a token from the body or the
// Authorization header. The cart reloads for the new owner.
func CreateAuthSession(c *fiber.Ctx) error {
	var input model.SessionInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ungültige Eingabe", err)
		}
	}
	token := input.Token
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Token fehlt", errors.New("no token"))
	}
	if _, ok := identity.Claims(token); !ok {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Ungültiges Token", errors.New("malformed token"))
	}
	if !identity.TokenValid(token, Clock().Now()) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Token abgelaufen", errors.New("token expired"))
	}

	sess := currentSession(c)
	sess.Auth.Login(token)
	return sessionResponse(c, fiber.StatusCreated)
}

func DeleteAuthSession(c *fiber.Ctx) error {
	currentSession(c).Auth.Logout()
	return sessionResponse(c, fiber.StatusOK)
}

func sessionResponse(c *fiber.Ctx, status int) error {
	sess := currentSession(c)
	snap := sess.Cart.Snapshot()
	if snap.Error != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, *snap.Error, nil, constants.KEY_REMOTE_ERROR)
	}
	return utils.SuccessResponse(c, status, sessionView{
		Profile: sess.Identity.Profile(),
		Cart:    cartView(sess, snap),
	})
}
