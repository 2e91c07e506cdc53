package repositories

import (
	"testing"
	"time"

	"wms-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRejectsWrongSign(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	ledger := NewLedgerRepository(db)

	entry := models.LedgerEntry{
		EntryType:    models.EntryReceive,
		ItemID:       product.ID,
		WarehouseID:  whs.ID,
		ToLocationID: whs.StorageLoc,
		Quantity:     -10,
	}
	_, err := ledger.Post(db, &entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	entry = models.LedgerEntry{
		EntryType:      models.EntryPick,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       10,
	}
	_, err = ledger.Post(db, &entry)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostRejectsZeroQuantity(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	ledger := NewLedgerRepository(db)

	entry := models.LedgerEntry{
		EntryType:    models.EntryReceive,
		ItemID:       product.ID,
		WarehouseID:  whs.ID,
		ToLocationID: whs.StorageLoc,
		Quantity:     0,
	}
	_, err := ledger.Post(db, &entry)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostCreatesRecordOnFirstReceive(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 100)

	record := stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)
	assert.Equal(t, 100, record.QtyOnhand)
	assert.Equal(t, 0, record.QtyReserved)
	assert.Equal(t, 100, record.QtyAvailable)
	assert.Equal(t, 1, record.Version)
}

func TestPostDecrementOnMissingRecordFails(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	ledger := NewLedgerRepository(db)

	entry := models.LedgerEntry{
		EntryType:      models.EntryReserve,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       5,
	}
	_, err := ledger.Post(db, &entry)
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestPostEnforcesReservedWithinOnhand(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 10)

	entry := models.LedgerEntry{
		EntryType:      models.EntryReserve,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		BatchID:        batch.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       11,
	}
	_, err := ledger.Post(db, &entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// failed post leaves no trace
	record := stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)
	assert.Equal(t, 10, record.QtyOnhand)
	assert.Equal(t, 0, record.QtyReserved)
	assert.EqualValues(t, 0, countEntries(t, db, models.EntryReserve))
}

func TestPostAdjustDecBelowZeroFails(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 5)

	entry := models.LedgerEntry{
		EntryType:      models.EntryAdjustDec,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		BatchID:        batch.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       -6,
	}
	_, err := ledger.Post(db, &entry)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAvailableExcludesQuarantine(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	good := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	damaged := makeBatch(t, db, product, whs.ID, "B-002", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, good, 80)

	entry := models.LedgerEntry{
		EntryType:    models.EntryDamage,
		ItemID:       product.ID,
		WarehouseID:  whs.ID,
		BatchID:      damaged.ID,
		ToLocationID: whs.QuarantineLoc,
		Quantity:     20,
	}
	_, err := ledger.Post(db, &entry)
	require.NoError(t, err)

	available, err := ledger.Available(product.ID, whs.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 80, available)
}

func TestReplayReproducesProjection(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 100)

	reserve := models.LedgerEntry{
		EntryType: models.EntryReserve, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: 30,
	}
	_, err := ledger.Post(db, &reserve)
	require.NoError(t, err)

	pick := models.LedgerEntry{
		EntryType: models.EntryPick, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: -30,
	}
	_, err = ledger.Post(db, &pick)
	require.NoError(t, err)

	adjust := models.LedgerEntry{
		EntryType: models.EntryAdjustDec, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: -5,
	}
	_, err = ledger.Post(db, &adjust)
	require.NoError(t, err)

	replayed, err := ledger.Replay(product.ID, whs.ID)
	require.NoError(t, err)
	require.Len(t, replayed, 1)

	record := stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)
	assert.Equal(t, record.QtyOnhand, replayed[0].QtyOnhand)
	assert.Equal(t, record.QtyReserved, replayed[0].QtyReserved)
	assert.Equal(t, record.QtyAvailable, replayed[0].QtyAvailable)
	assert.Equal(t, 65, replayed[0].QtyOnhand)
	assert.Equal(t, 0, replayed[0].QtyReserved)
}

func TestBatchDepletedAndReactivated(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 10)

	reserve := models.LedgerEntry{
		EntryType: models.EntryReserve, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: 10,
	}
	_, err := ledger.Post(db, &reserve)
	require.NoError(t, err)

	pick := models.LedgerEntry{
		EntryType: models.EntryPick, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: -10,
	}
	_, err = ledger.Post(db, &pick)
	require.NoError(t, err)

	var reloaded models.Batch
	require.NoError(t, db.First(&reloaded, "id = ?", batch.ID).Error)
	assert.Equal(t, models.BatchStatusDepleted, reloaded.Status)

	inc := models.LedgerEntry{
		EntryType: models.EntryAdjustInc, ItemID: product.ID, WarehouseID: whs.ID,
		BatchID: batch.ID, FromLocationID: whs.StorageLoc, Quantity: 3,
	}
	_, err = ledger.Post(db, &inc)
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", batch.ID).Error)
	assert.Equal(t, models.BatchStatusActive, reloaded.Status)
}

func TestPostStaleVersionConflicts(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	ledger := NewLedgerRepository(db)

	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 50)
	record := stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)

	// sneak a competing version bump in between Post's read and its guarded
	// update; the callback fires once, right before the next stock update
	fired := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("competing_writer", func(tx *gorm.DB) {
			if fired {
				return
			}
			fired = true
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE stock_records SET version = version + 1 WHERE id = ?", record.ID)
		}))

	entry := models.LedgerEntry{
		EntryType:      models.EntryReserve,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		BatchID:        batch.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       10,
	}
	_, err := ledger.Post(db, &entry)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	// the losing post wrote nothing
	assert.EqualValues(t, 0, countEntries(t, db, models.EntryReserve))
	reloaded := stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)
	assert.Equal(t, 0, reloaded.QtyReserved)

	// a retry with fresh reads goes through
	retry := models.LedgerEntry{
		EntryType:      models.EntryReserve,
		ItemID:         product.ID,
		WarehouseID:    whs.ID,
		BatchID:        batch.ID,
		FromLocationID: whs.StorageLoc,
		Quantity:       10,
	}
	_, err = ledger.Post(db, &retry)
	require.NoError(t, err)
	reloaded = stockRecord(t, db, product.ID, whs.ID, whs.StorageLoc, batch.ID)
	assert.Equal(t, 10, reloaded.QtyReserved)
}
