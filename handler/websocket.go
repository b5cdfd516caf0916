package handler

import (
	"context"
	"encoding/json"

	"cinema_storefront/session"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type clientMessage struct {
	Type string `json:"type"`
}

// CartWebsocket pushes cart snapshots, countdown ticks and notifications of
// the device's session. A {"type":"reload"} message forces a cart reload,
// the recovery offered after a seat conflict.
func CartWebsocket(c *websocket.Conn) {
	deviceId, _ := c.Locals("deviceId").(string)
	sess := Sessions.Session(deviceId)
	disconnect := sess.Connect()

	events, cancel := Sessions.Broadcaster().Subscribe(context.Background(), deviceId)
	defer func() {
		cancel()
		disconnect()
		c.Close()
	}()

	snap := sess.Cart.Snapshot()
	state := sess.Timer.State()
	if err := c.WriteJSON(session.Event{Type: session.EventCart, Cart: &snap}); err != nil {
		return
	}
	if err := c.WriteJSON(session.Event{Type: session.EventTimer, Timer: &state}); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				return
			}
			var msg clientMessage
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "reload" {
				continue
			}
			if _, err := sess.Cart.Reload(context.Background()); err != nil {
				Logger.Debug("websocket reload failed", zap.String("device_id", deviceId), zap.Error(err))
			}
		}
	}()

	for ev := range events {
		if err := c.WriteJSON(ev); err != nil {
			return
		}
	}
}
