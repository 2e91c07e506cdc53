package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes registers the whole API surface.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	SetupAuthRoutes(app, db)
	SetupStockRoutes(app, db)
	SetupPurchaseOrderRoutes(app, db)
	SetupReceivingRoutes(app, db)
	SetupOrderRoutes(app, db)
	SetupAdjustmentRoutes(app, db)
	SetupReturnRoutes(app, db)
}
