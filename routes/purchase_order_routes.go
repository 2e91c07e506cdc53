package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPurchaseOrderRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewPurchaseOrderController(db)
	api := app.Group(config.MAIN_ROUTES+"/purchase-orders", middleware.AuthMiddleware)
	api.Get("/", controller.GetAllPOs)
	api.Post("/", controller.CreatePO)
	api.Get("/:id", controller.GetPO)
	api.Post("/:id/approve", controller.ApprovePO)
}
