package repositories

import (
	"errors"
	"time"

	"wms-engine/controllers/idgen"
	"wms-engine/models"
	"wms-engine/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceivingRepository turns approved purchase orders into goods receipts and
// reconciles expected vs received vs damaged quantities into the ledger.
type ReceivingRepository struct {
	db     *gorm.DB
	ledger *LedgerRepository
}

func NewReceivingRepository(db *gorm.DB) *ReceivingRepository {
	return &ReceivingRepository{db: db, ledger: NewLedgerRepository(db)}
}

// CreateReceipt copies the approved PO's lines into a pending goods receipt.
// Received quantities default to the expected quantities with quality good;
// nothing is posted to the ledger until ReceiveItems.
func (r *ReceivingRepository) CreateReceipt(purchaseOrderID uint, actorID int) (*models.GoodsReceipt, error) {
	var receipt *models.GoodsReceipt

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var po models.PurchaseOrder
		if err := tx.Preload("Lines").First(&po, "id = ?", purchaseOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("purchase order %d not found", purchaseOrderID)
			}
			return err
		}

		if po.Status != models.POStatusApproved {
			return validationError("purchase order %s is %s, receipts require an approved order", po.PONumber, po.Status)
		}

		var open int64
		if err := tx.Model(&models.GoodsReceipt{}).
			Where("purchase_order_id = ? AND status <> ?", po.ID, models.ReceiptStatusCompleted).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return validationError("purchase order %s already has an open receipt", po.PONumber)
		}

		receiptNo, err := generateDocNo(tx, &models.GoodsReceipt{}, "receipt_no", "GR")
		if err != nil {
			return err
		}

		receipt = &models.GoodsReceipt{
			ReceiptNo:       receiptNo,
			PurchaseOrderID: po.ID,
			WarehouseID:     po.WarehouseID,
			Status:          models.ReceiptStatusPending,
			CreatedBy:       actorID,
		}
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}

		for _, line := range po.Lines {
			receiptLine := models.GoodsReceiptLine{
				GoodsReceiptID: receipt.ID,
				POLineID:       line.ID,
				ItemID:         line.ItemID,
				ItemCode:       line.ItemCode,
				ExpectedQty:    line.Quantity,
				ReceivedQty:    line.Quantity,
				QualityStatus:  models.QualityGood,
			}
			if err := tx.Create(&receiptLine).Error; err != nil {
				return err
			}
			receipt.Lines = append(receipt.Lines, receiptLine)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ReceiveLineInput determines one receipt line: what actually arrived and in
// what condition. An optional expiry date seeds the batch for FEFO.
type ReceiveLineInput struct {
	LineID      uint       `json:"line_id" validate:"required"`
	ReceivedQty int        `json:"received_qty"`
	Quality     string     `json:"quality_status"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

// ReceiveItems posts the determined lines: good stock as RECEIVE entries into
// the storage location (creating the receipt's batch on first touch), damaged
// stock as DAMAGE entries into quarantine, never into available stock. The
// receipt completes when every line is determined; a completed receipt
// rejects further receiving with ErrAlreadyFinalized.
func (r *ReceivingRepository) ReceiveItems(receiptID uint, inputs []ReceiveLineInput, actorID int) (*models.GoodsReceipt, error) {
	var receipt models.GoodsReceipt

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&receipt, "id = ?", receiptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("goods receipt %d not found", receiptID)
			}
			return err
		}

		if receipt.Status == models.ReceiptStatusCompleted {
			return ErrAlreadyFinalized
		}

		var po models.PurchaseOrder
		if err := tx.Preload("Lines").First(&po, "id = ?", receipt.PurchaseOrderID).Error; err != nil {
			return err
		}

		storageLoc, err := defaultLocation(tx, receipt.WarehouseID, models.LocationTypeStorage)
		if err != nil {
			return err
		}
		quarantineLoc, err := defaultLocation(tx, receipt.WarehouseID, models.LocationTypeQuarantine)
		if err != nil {
			return err
		}

		lineByID := map[uint]*models.GoodsReceiptLine{}
		for i := range receipt.Lines {
			lineByID[receipt.Lines[i].ID] = &receipt.Lines[i]
		}

		for _, input := range inputs {
			line, ok := lineByID[input.LineID]
			if !ok {
				return validationError("line %d does not belong to receipt %s", input.LineID, receipt.ReceiptNo)
			}
			if line.Received {
				return validationError("line %d of receipt %s was already received", input.LineID, receipt.ReceiptNo)
			}
			if input.ReceivedQty < 0 {
				return validationError("received quantity must not be negative, got %d", input.ReceivedQty)
			}

			quality := input.Quality
			if quality == "" {
				quality = models.QualityGood
			}
			if quality != models.QualityGood && quality != models.QualityDamaged {
				return validationError("unknown quality status %q", quality)
			}

			if input.ReceivedQty > 0 {
				batch, err := r.ensureBatch(tx, &receipt, &po, line, input.ExpiryDate, actorID)
				if err != nil {
					return err
				}

				entry := models.LedgerEntry{
					ItemID:      line.ItemID,
					WarehouseID: receipt.WarehouseID,
					BatchID:     batch.ID,
					Quantity:    input.ReceivedQty,
					RefType:     "GRN",
					RefNo:       receipt.ReceiptNo,
					ActorID:     actorID,
				}
				if quality == models.QualityGood {
					entry.EntryType = models.EntryReceive
					entry.ToLocationID = storageLoc
					entry.Reason = "goods receipt"
				} else {
					entry.EntryType = models.EntryDamage
					entry.ToLocationID = quarantineLoc
					entry.Reason = "damaged on arrival"
				}
				if _, err := r.ledger.Post(tx, &entry); err != nil {
					return err
				}
			}

			line.ReceivedQty = input.ReceivedQty
			line.QualityStatus = quality
			line.Received = true
			if err := tx.Model(&models.GoodsReceiptLine{}).Where("id = ?", line.ID).
				Updates(map[string]interface{}{
					"received_qty":   line.ReceivedQty,
					"quality_status": line.QualityStatus,
					"received":       true,
				}).Error; err != nil {
				return err
			}
		}

		status := models.ReceiptStatusCompleted
		for i := range receipt.Lines {
			if !receipt.Lines[i].Received {
				status = models.ReceiptStatusInProgress
				break
			}
		}
		receipt.Status = status
		receipt.UpdatedBy = actorID

		return tx.Model(&models.GoodsReceipt{}).Where("id = ?", receipt.ID).
			Updates(map[string]interface{}{"status": status, "updated_by": actorID}).Error
	})

	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ensureBatch finds or creates the batch for this receipt and product. Batch
// numbers derive from the receipt number so re-used products on one receipt
// land in the same lot.
func (r *ReceivingRepository) ensureBatch(tx *gorm.DB, receipt *models.GoodsReceipt, po *models.PurchaseOrder, line *models.GoodsReceiptLine, expiry *time.Time, actorID int) (*models.Batch, error) {
	batchNo := receipt.ReceiptNo + "-" + line.ItemCode

	var batch models.Batch
	err := tx.Where("batch_no = ?", batchNo).First(&batch).Error
	if err == nil {
		return &batch, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unitCost := decimal.Zero
	for _, poLine := range po.Lines {
		if poLine.ID == line.POLineID {
			unitCost = poLine.UnitPrice
			break
		}
	}

	batch = models.Batch{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		BatchNo:      batchNo,
		ItemID:       line.ItemID,
		ItemCode:     line.ItemCode,
		WarehouseID:  receipt.WarehouseID,
		SupplierID:   po.SupplierID,
		ReceivedDate: time.Now(),
		ExpiryDate:   expiry,
		UnitCost:     unitCost,
		Status:       models.BatchStatusActive,
		CreatedBy:    actorID,
	}
	if err := tx.Create(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}
