package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAdjustmentRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewAdjustmentController(db)

	adjustments := app.Group(config.MAIN_ROUTES+"/adjustments", middleware.AuthMiddleware)
	adjustments.Get("/", controller.GetAllAdjustments)
	adjustments.Post("/", controller.CreateAdjustment)

	counts := app.Group(config.MAIN_ROUTES+"/cycle-counts", middleware.AuthMiddleware)
	counts.Get("/", controller.GetAllCycleCounts)
	counts.Post("/", controller.CreateCycleCount)
}
