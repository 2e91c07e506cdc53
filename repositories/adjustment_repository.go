package repositories

import (
	"errors"

	"wms-engine/models"
	"wms-engine/types"

	"gorm.io/gorm"
)

// AdjustmentRepository journals manual stock corrections and cycle counts.
// Both write through the ledger, so the same invariants apply: a decrement
// below zero onhand or below the reserved quantity is rejected whole.
type AdjustmentRepository struct {
	db     *gorm.DB
	ledger *LedgerRepository
}

func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: db, ledger: NewLedgerRepository(db)}
}

type AdjustInput struct {
	ItemID      uint              `json:"item_id" validate:"required"`
	WarehouseID uint              `json:"warehouse_id" validate:"required"`
	LocationID  uint              `json:"location_id" validate:"required"`
	BatchID     types.SnowflakeID `json:"batch_id"`
	Delta       int               `json:"delta" validate:"required"`
	Reason      string            `json:"reason" validate:"required"`
}

// Adjust posts one signed correction. Positive deltas become ADJUST_INC,
// negative become ADJUST_DEC; a reason is mandatory because the journal is
// the audit trail for every count the ledger cannot explain.
func (r *AdjustmentRepository) Adjust(input AdjustInput, actorID int) (*models.Adjustment, error) {
	if input.Delta == 0 {
		return nil, validationError("adjustment delta must not be zero")
	}
	if input.Reason == "" {
		return nil, validationError("adjustment requires a reason")
	}

	var adjustment *models.Adjustment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		adjustmentNo, err := generateDocNo(tx, &models.Adjustment{}, "adjustment_no", "ADJ")
		if err != nil {
			return err
		}

		entryType := models.EntryAdjustInc
		if input.Delta < 0 {
			entryType = models.EntryAdjustDec
		}
		entry := models.LedgerEntry{
			EntryType:      entryType,
			ItemID:         input.ItemID,
			WarehouseID:    input.WarehouseID,
			BatchID:        input.BatchID,
			FromLocationID: input.LocationID,
			Quantity:       input.Delta,
			Reason:         input.Reason,
			RefType:        "ADJ",
			RefNo:          adjustmentNo,
			ActorID:        actorID,
		}
		if _, err := r.ledger.Post(tx, &entry); err != nil {
			return err
		}

		adjustment = &models.Adjustment{
			AdjustmentNo:  adjustmentNo,
			ItemID:        input.ItemID,
			WarehouseID:   input.WarehouseID,
			LocationID:    input.LocationID,
			BatchID:       input.BatchID,
			Delta:         input.Delta,
			Reason:        input.Reason,
			LedgerEntryID: entry.ID,
			CreatedBy:     actorID,
		}
		return tx.Create(adjustment).Error
	})

	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

type CycleCountInput struct {
	ItemID      uint              `json:"item_id" validate:"required"`
	WarehouseID uint              `json:"warehouse_id" validate:"required"`
	LocationID  uint              `json:"location_id" validate:"required"`
	BatchID     types.SnowflakeID `json:"batch_id"`
	CountedQty  int               `json:"counted_qty" validate:"gte=0"`
}

// RecordCycleCount compares a physical count against the projected onhand
// at that exact stock key. A discrepancy posts the correcting adjustment in
// the same transaction; a clean count completes with no ledger effect.
func (r *AdjustmentRepository) RecordCycleCount(input CycleCountInput, actorID int) (*models.CycleCount, error) {
	if input.CountedQty < 0 {
		return nil, validationError("counted quantity must not be negative, got %d", input.CountedQty)
	}

	var count *models.CycleCount
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record models.StockRecord
		expected := 0
		err := tx.Where("item_id = ? AND warehouse_id = ? AND location_id = ? AND batch_id = ?",
			input.ItemID, input.WarehouseID, input.LocationID, input.BatchID).
			First(&record).Error
		if err == nil {
			expected = record.QtyOnhand
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		countNo, err := generateDocNo(tx, &models.CycleCount{}, "count_no", "CC")
		if err != nil {
			return err
		}

		discrepancy := input.CountedQty - expected
		count = &models.CycleCount{
			CountNo:     countNo,
			ItemID:      input.ItemID,
			WarehouseID: input.WarehouseID,
			LocationID:  input.LocationID,
			BatchID:     input.BatchID,
			CountedQty:  input.CountedQty,
			ExpectedQty: expected,
			Discrepancy: discrepancy,
			Status:      models.CycleCountStatusCompleted,
		}
		count.CountedBy = actorID

		if discrepancy != 0 {
			entryType := models.EntryAdjustInc
			if discrepancy < 0 {
				entryType = models.EntryAdjustDec
			}
			entry := models.LedgerEntry{
				EntryType:      entryType,
				ItemID:         input.ItemID,
				WarehouseID:    input.WarehouseID,
				BatchID:        input.BatchID,
				FromLocationID: input.LocationID,
				Quantity:       discrepancy,
				Reason:         "cycle count variance",
				RefType:        "CC",
				RefNo:          countNo,
				ActorID:        actorID,
			}
			if _, err := r.ledger.Post(tx, &entry); err != nil {
				return err
			}
			count.LedgerEntryID = entry.ID
		}

		return tx.Create(count).Error
	})

	if err != nil {
		return nil, err
	}
	return count, nil
}

// ListAdjustments returns the journal newest first.
func (r *AdjustmentRepository) ListAdjustments(limit int) ([]models.Adjustment, error) {
	if limit <= 0 {
		limit = 100
	}
	var adjustments []models.Adjustment
	err := r.db.Order("id DESC").Limit(limit).Find(&adjustments).Error
	return adjustments, err
}

// ListCycleCounts returns recorded counts newest first.
func (r *AdjustmentRepository) ListCycleCounts(limit int) ([]models.CycleCount, error) {
	if limit <= 0 {
		limit = 100
	}
	var counts []models.CycleCount
	err := r.db.Order("id DESC").Limit(limit).Find(&counts).Error
	return counts, err
}
