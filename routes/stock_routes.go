package routes

import (
	"wms-engine/config"
	"wms-engine/controllers"
	"wms-engine/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupStockRoutes(app *fiber.App, db *gorm.DB) {
	controller := controllers.NewStockController(db)
	api := app.Group(config.MAIN_ROUTES+"/stock", middleware.AuthMiddleware)
	api.Get("/", controller.GetStockSummary)
	api.Get("/export", controller.ExportStockExcel)
	api.Get("/:item_id/batches", controller.GetBatchStock)
	api.Get("/:item_id/ledger", controller.GetLedgerHistory)
	api.Get("/:item_id/replay", controller.ReplayStock)
}
