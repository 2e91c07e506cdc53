package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupOrderRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewOrderController(db)
	api := app.Group(config.MAIN_ROUTES+"/orders", middleware.AuthMiddleware)
	api.Post("/", controller.CreateOrder)
	api.Get("/:id", controller.GetOrder)
	api.Post("/:id/confirm", controller.ConfirmOrder)
	api.Post("/:id/reserve", controller.ReserveOrder)
	api.Post("/:id/start-picking", controller.StartPicking)
	api.Post("/:id/pick", controller.CompletePicking)
	api.Post("/:id/start-packing", controller.StartPacking)
	api.Post("/:id/pack", controller.CompletePacking)
	api.Post("/:id/ship", controller.ShipOrder)
	api.Post("/:id/deliver", controller.DeliverOrder)
	api.Post("/:id/cancel", controller.CancelOrder)
}
