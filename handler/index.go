package handler

import (
	"errors"

	"cinema_storefront/cart"
	"cinema_storefront/constants"
	"cinema_storefront/gateway"
	"cinema_storefront/helper"
	"cinema_storefront/identity"
	"cinema_storefront/model"
	"cinema_storefront/session"
	"cinema_storefront/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Wired by main before the routes are served.
var (
	Sessions *session.Registry
	Backend  *gateway.Client
	Logger   = zap.NewNop()
)

func currentSession(c *fiber.Ctx) *session.Session {
	deviceId, _ := c.Locals("deviceId").(string)
	return Sessions.Session(deviceId)
}

// Clock returns the sessions' time source, the real clock before they are wired.
func Clock() clockwork.Clock {
	if Sessions == nil {
		return clockwork.NewRealClock()
	}
	return Sessions.Clock()
}

func bearerToken(c *fiber.Ctx) string {
	token, _ := c.Locals("token").(string)
	return token
}

func cartView(sess *session.Session, snap model.CartSnapshot) model.CartView {
	total := helper.CartTotal(snap.Items)
	return model.CartView{
		Cart:         snap,
		Total:        total,
		TotalDisplay: utils.FormatPrice(total),
		Timer:        sess.Timer.State(),
	}
}

// remoteError maps a backend or identity failure to the browser response.
func remoteError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, identity.ErrStorageUnavailable) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusServiceUnavailable, fallback, err, constants.KEY_IDENTITY_UNAVAILABLE)
	}
	if gateway.IsConflict(err) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, constants.SEAT_TAKEN_HINT, err, constants.KEY_SEAT_ALREADY_RESERVED)
	}

	var remote *gateway.RemoteError
	if errors.As(err, &remote) {
		status := fiber.StatusBadGateway
		if remote.Status >= 400 && remote.Status < 500 {
			status = remote.Status
		}
		return utils.ErrorResponseHaveKey(c, status, gateway.Message(err, fallback), err, constants.KEY_REMOTE_ERROR)
	}

	var network *gateway.NetworkError
	if errors.As(err, &network) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadGateway, fallback, err, constants.KEY_NETWORK_ERROR)
	}

	Logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, fallback, err)
}

func isSuperseded(err error) bool {
	return errors.Is(err, cart.ErrSuperseded)
}
