package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReceivingRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewReceivingController(db)
	api := app.Group(config.MAIN_ROUTES+"/receiving", middleware.AuthMiddleware)
	api.Post("/", controller.CreateReceipt)
	api.Put("/:id/receive", controller.ReceiveItems)
}
