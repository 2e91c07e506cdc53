package repositories

import (
	"testing"
	"time"

	"wms-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateFIFOOrder(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	old := makeBatch(t, db, product, whs.ID, "B-OLD", time.Now().AddDate(0, 0, -10), nil)
	recent := makeBatch(t, db, product, whs.ID, "B-NEW", time.Now(), nil)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, old, 20)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, recent, 20)

	plan, err := alloc.Allocate(db, product.ID, whs.ID, 30, PolicyFIFO)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "B-OLD", plan[0].BatchNo)
	assert.Equal(t, 20, plan[0].Quantity)
	assert.Equal(t, "B-NEW", plan[1].BatchNo)
	assert.Equal(t, 10, plan[1].Quantity)
}

func TestAllocateLIFOOrder(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	old := makeBatch(t, db, product, whs.ID, "B-OLD", time.Now().AddDate(0, 0, -10), nil)
	recent := makeBatch(t, db, product, whs.ID, "B-NEW", time.Now(), nil)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, old, 20)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, recent, 20)

	plan, err := alloc.Allocate(db, product.ID, whs.ID, 25, PolicyLIFO)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "B-NEW", plan[0].BatchNo)
	assert.Equal(t, 20, plan[0].Quantity)
	assert.Equal(t, "B-OLD", plan[1].BatchNo)
	assert.Equal(t, 5, plan[1].Quantity)
}

func TestAllocateFEFOOrderNilExpiryLast(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	soon := makeBatch(t, db, product, whs.ID, "B-SOON", time.Now(), daysFromNow(5))
	later := makeBatch(t, db, product, whs.ID, "B-LATER", time.Now(), daysFromNow(60))
	never := makeBatch(t, db, product, whs.ID, "B-NONE", time.Now(), nil)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, soon, 10)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, later, 10)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, never, 10)

	plan, err := alloc.Allocate(db, product.ID, whs.ID, 25, PolicyFEFO)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "B-SOON", plan[0].BatchNo)
	assert.Equal(t, "B-LATER", plan[1].BatchNo)
	assert.Equal(t, "B-NONE", plan[2].BatchNo)
	assert.Equal(t, 5, plan[2].Quantity)
}

func TestAllocateTieBreaksByBatchNo(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	received := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	b2 := makeBatch(t, db, product, whs.ID, "B-002", received, nil)
	b1 := makeBatch(t, db, product, whs.ID, "B-001", received, nil)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, b2, 10)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, b1, 10)

	plan, err := alloc.Allocate(db, product.ID, whs.ID, 15, PolicyFIFO)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "B-001", plan[0].BatchNo)
	assert.Equal(t, "B-002", plan[1].BatchNo)
}

func TestAllocateSkipsExpiredBatches(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	expired := makeBatch(t, db, product, whs.ID, "B-EXP", time.Now().AddDate(0, -3, 0), daysFromNow(-1))
	fresh := makeBatch(t, db, product, whs.ID, "B-OK", time.Now(), daysFromNow(30))
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, expired, 50)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, fresh, 10)

	plan, err := alloc.Allocate(db, product.ID, whs.ID, 10, PolicyFEFO)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "B-OK", plan[0].BatchNo)

	_, err = alloc.Allocate(db, product.ID, whs.ID, 11, PolicyFEFO)
	assert.ErrorIs(t, err, ErrInsufficientAllocatable)
}

func TestAllocateShortageReportsTotals(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	receiveStock(t, db, product, whs.ID, whs.StorageLoc, batch, 10)

	_, err := alloc.Allocate(db, product.ID, whs.ID, 30, PolicyFIFO)
	require.Error(t, err)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 30, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)
}

func TestAllocateRejectsBadInput(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)

	_, err := alloc.Allocate(db, product.ID, whs.ID, 0, PolicyFIFO)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = alloc.Allocate(db, product.ID, whs.ID, 10, "NEWEST_FIRST")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAllocateIgnoresQuarantinedStock(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	alloc := NewAllocationRepository(db)
	ledger := NewLedgerRepository(db)

	batch := makeBatch(t, db, product, whs.ID, "B-001", time.Now(), nil)
	entry := models.LedgerEntry{
		EntryType:    models.EntryDamage,
		ItemID:       product.ID,
		WarehouseID:  whs.ID,
		BatchID:      batch.ID,
		ToLocationID: whs.QuarantineLoc,
		Quantity:     40,
	}
	_, err := ledger.Post(db, &entry)
	require.NoError(t, err)

	_, err = alloc.Allocate(db, product.ID, whs.ID, 1, PolicyFIFO)
	assert.ErrorIs(t, err, ErrInsufficientAllocatable)
}
