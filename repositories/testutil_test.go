package repositories

import (
	"testing"
	"time"

	"wms-engine/controllers/idgen"
	"wms-engine/models"
	"wms-engine/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testWarehouse struct {
	ID            uint
	StorageLoc    uint
	QuarantineLoc uint
	ReturnsLoc    uint
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	idgen.Init()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a second pool connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

func seedWarehouse(t *testing.T, db *gorm.DB) testWarehouse {
	t.Helper()

	warehouse := models.Warehouse{WhsCode: "WH01", Name: "Main", IsActive: true}
	require.NoError(t, db.Create(&warehouse).Error)

	storage := models.Location{WarehouseID: warehouse.ID, LocationCode: "STG-01", LocationType: models.LocationTypeStorage, IsActive: true}
	quarantine := models.Location{WarehouseID: warehouse.ID, LocationCode: "QRT-01", LocationType: models.LocationTypeQuarantine, IsActive: true}
	returns := models.Location{WarehouseID: warehouse.ID, LocationCode: "RTN-01", LocationType: models.LocationTypeReturns, IsActive: true}
	require.NoError(t, db.Create(&storage).Error)
	require.NoError(t, db.Create(&quarantine).Error)
	require.NoError(t, db.Create(&returns).Error)

	return testWarehouse{
		ID:            warehouse.ID,
		StorageLoc:    storage.ID,
		QuarantineLoc: quarantine.ID,
		ReturnsLoc:    returns.ID,
	}
}

func seedProduct(t *testing.T, db *gorm.DB, code string) models.Product {
	t.Helper()

	product := models.Product{ItemCode: code, ItemName: "Product " + code, Uom: "PCS", IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func makeBatch(t *testing.T, db *gorm.DB, product models.Product, warehouseID uint, batchNo string, received time.Time, expiry *time.Time) models.Batch {
	t.Helper()

	batch := models.Batch{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		BatchNo:      batchNo,
		ItemID:       product.ID,
		ItemCode:     product.ItemCode,
		WarehouseID:  warehouseID,
		ReceivedDate: received,
		ExpiryDate:   expiry,
		Status:       models.BatchStatusActive,
	}
	require.NoError(t, db.Create(&batch).Error)
	return batch
}

// receiveStock posts a RECEIVE entry so tests can stage availability without
// walking the full purchase order flow.
func receiveStock(t *testing.T, db *gorm.DB, product models.Product, warehouseID, locationID uint, batch models.Batch, qty int) {
	t.Helper()

	ledger := NewLedgerRepository(db)
	entry := models.LedgerEntry{
		EntryType:    models.EntryReceive,
		ItemID:       product.ID,
		WarehouseID:  warehouseID,
		BatchID:      batch.ID,
		ToLocationID: locationID,
		Quantity:     qty,
		Reason:       "test stock",
		ActorID:      1,
	}
	_, err := ledger.Post(db, &entry)
	require.NoError(t, err)
}

func stockRecord(t *testing.T, db *gorm.DB, itemID, warehouseID, locationID uint, batchID types.SnowflakeID) models.StockRecord {
	t.Helper()

	var record models.StockRecord
	require.NoError(t, db.Where(
		"item_id = ? AND warehouse_id = ? AND location_id = ? AND batch_id = ?",
		itemID, warehouseID, locationID, batchID,
	).First(&record).Error)
	return record
}

func countEntries(t *testing.T, db *gorm.DB, entryType string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).
		Where("entry_type = ?", entryType).Count(&count).Error)
	return count
}

func daysFromNow(days int) *time.Time {
	ts := time.Now().AddDate(0, 0, days)
	return &ts
}
