package migration

import (
	"log"

	"wms-engine/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Warehouse{},
		&models.Location{},
		&models.Batch{},
		&models.StockRecord{},
		&models.LedgerEntry{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.GoodsReceipt{},
		&models.GoodsReceiptLine{},
		&models.SalesOrder{},
		&models.SalesOrderLine{},
		&models.PickList{},
		&models.PickListLine{},
		&models.PackingTask{},
		&models.Shipment{},
		&models.Adjustment{},
		&models.CycleCount{},
		&models.ReturnHeader{},
		&models.ReturnLine{},
	)
	if err != nil {
		log.Fatal("Migration failed: ", err)
	}

	log.Println("Migration completed")
}
