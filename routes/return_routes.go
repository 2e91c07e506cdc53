package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReturnRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewReturnController(db)
	api := app.Group(config.MAIN_ROUTES+"/returns", middleware.AuthMiddleware)
	api.Post("/", controller.CreateReturn)
	api.Put("/:id/receive", controller.ReceiveReturn)
}
