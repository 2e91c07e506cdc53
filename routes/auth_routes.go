package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewAuthController(db)
	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", controller.Login)
}
