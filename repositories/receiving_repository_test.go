package repositories

import (
	"testing"

	"wms-engine/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createApprovedPO(t *testing.T, db *gorm.DB, whsID uint, itemCode string, qty int) *models.PurchaseOrder {
	t.Helper()

	poRepo := NewPurchaseOrderRepository(db)
	po, err := poRepo.CreatePO(1, whsID, "2026-09-01", []POLineInput{
		{ItemCode: itemCode, Quantity: qty},
	}, 1)
	require.NoError(t, err)

	po, err = poRepo.Approve(po.ID, 1)
	require.NoError(t, err)
	return po
}

func TestCreateReceiptRequiresApprovedPO(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	seedProduct(t, db, "ITM-0001")

	poRepo := NewPurchaseOrderRepository(db)
	po, err := poRepo.CreatePO(1, whs.ID, "2026-09-01", []POLineInput{
		{ItemCode: "ITM-0001", Quantity: 50},
	}, 1)
	require.NoError(t, err)

	recvRepo := NewReceivingRepository(db)
	_, err = recvRepo.CreateReceipt(po.ID, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReceiveGoodAndDamaged(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	good := seedProduct(t, db, "ITM-0001")
	bad := seedProduct(t, db, "ITM-0002")

	poRepo := NewPurchaseOrderRepository(db)
	po, err := poRepo.CreatePO(1, whs.ID, "2026-09-01", []POLineInput{
		{ItemCode: good.ItemCode, Quantity: 80},
		{ItemCode: bad.ItemCode, Quantity: 20},
	}, 1)
	require.NoError(t, err)
	_, err = poRepo.Approve(po.ID, 1)
	require.NoError(t, err)

	recvRepo := NewReceivingRepository(db)
	receipt, err := recvRepo.CreateReceipt(po.ID, 1)
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 2)

	receipt, err = recvRepo.ReceiveItems(receipt.ID, []ReceiveLineInput{
		{LineID: receipt.Lines[0].ID, ReceivedQty: 80, Quality: models.QualityGood},
		{LineID: receipt.Lines[1].ID, ReceivedQty: 20, Quality: models.QualityDamaged},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusCompleted, receipt.Status)

	ledger := NewLedgerRepository(db)

	available, err := ledger.Available(good.ID, whs.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 80, available)

	// damaged stock sits in quarantine, never available
	available, err = ledger.Available(bad.ID, whs.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, available)

	var quarantined models.StockRecord
	require.NoError(t, db.Where("item_id = ? AND location_id = ?", bad.ID, whs.QuarantineLoc).
		First(&quarantined).Error)
	assert.Equal(t, 20, quarantined.QtyOnhand)
}

func TestReceiveShortDelivery(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	po := createApprovedPO(t, db, whs.ID, product.ItemCode, 100)

	recvRepo := NewReceivingRepository(db)
	receipt, err := recvRepo.CreateReceipt(po.ID, 1)
	require.NoError(t, err)

	receipt, err = recvRepo.ReceiveItems(receipt.ID, []ReceiveLineInput{
		{LineID: receipt.Lines[0].ID, ReceivedQty: 60},
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReceiptStatusCompleted, receipt.Status)
	assert.Equal(t, 60, receipt.Lines[0].ReceivedQty)
	assert.Equal(t, 100, receipt.Lines[0].ExpectedQty)

	ledger := NewLedgerRepository(db)
	available, err := ledger.Available(product.ID, whs.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 60, available)
}

func TestReceiveCompletedReceiptFails(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	po := createApprovedPO(t, db, whs.ID, product.ItemCode, 10)

	recvRepo := NewReceivingRepository(db)
	receipt, err := recvRepo.CreateReceipt(po.ID, 1)
	require.NoError(t, err)

	receipt, err = recvRepo.ReceiveItems(receipt.ID, []ReceiveLineInput{
		{LineID: receipt.Lines[0].ID, ReceivedQty: 10},
	}, 1)
	require.NoError(t, err)

	_, err = recvRepo.ReceiveItems(receipt.ID, []ReceiveLineInput{
		{LineID: receipt.Lines[0].ID, ReceivedQty: 10},
	}, 1)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestReceiveUnknownLineFails(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	po := createApprovedPO(t, db, whs.ID, product.ItemCode, 10)

	recvRepo := NewReceivingRepository(db)
	receipt, err := recvRepo.CreateReceipt(po.ID, 1)
	require.NoError(t, err)

	_, err = recvRepo.ReceiveItems(receipt.ID, []ReceiveLineInput{
		{LineID: 99999, ReceivedQty: 10},
	}, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSecondOpenReceiptRejected(t *testing.T) {
	db := setupTestDB(t)
	whs := seedWarehouse(t, db)
	product := seedProduct(t, db, "ITM-0001")
	po := createApprovedPO(t, db, whs.ID, product.ItemCode, 10)

	recvRepo := NewReceivingRepository(db)
	_, err := recvRepo.CreateReceipt(po.ID, 1)
	require.NoError(t, err)

	_, err = recvRepo.CreateReceipt(po.ID, 1)
	assert.ErrorIs(t, err, ErrValidation)
}
