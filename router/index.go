package router

import (
	"cinema_storefront/handler"
	"cinema_storefront/middleware"
	"cinema_storefront/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", middleware.OptionalJWT(handler.Clock()), middleware.DeviceSession())

	cart := v1.Group("/cart")
	cart.Get("/", handler.GetCart)
	cart.Post("/", validate.AddCartItem(), handler.AddCartItem)
	cart.Delete("/", handler.ClearCart)
	cart.Get("/timer", handler.GetCartTimer)
	cart.Get("/ws", upgradeOnly, websocket.New(handler.CartWebsocket))
	cart.Delete("/:showtimeId/:seatId", validate.CartItem(), handler.RemoveCartItem)
	cart.Patch("/:showtimeId/:seatId/discount", validate.CartItem(), validate.UpdateDiscount(), handler.UpdateCartDiscount)

	auth := v1.Group("/auth")
	auth.Get("/session", handler.GetAuthSession)
	auth.Post("/session", handler.CreateAuthSession)
	auth.Delete("/session", handler.DeleteAuthSession)

	supermarkt := v1.Group("/supermarkt")
	supermarkt.Get("/items", middleware.Protected(), handler.GetProducts)
	supermarkt.Post("/items", middleware.Protected(), validate.Product(), handler.CreateProduct)
	supermarkt.Put("/items/:itemId", middleware.Protected(), validate.GetById("itemId"), validate.Product(), handler.UpdateProduct)
	supermarkt.Get("/items/barcode/:barcode", middleware.Protected(), handler.GetProductByBarcode)
	supermarkt.Get("/pfand", middleware.Protected(), handler.GetPfandOptions)
	supermarkt.Post("/pfand/scan", middleware.Protected(), validate.PfandScan(), handler.ScanPfand)
	supermarkt.Post("/checkout/totals", validate.Checkout(), handler.CheckoutTotals)
}

func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
