package repositories

import (
	"errors"

	"wms-engine/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderRepository covers the slice of purchasing the receiving flow
// needs: create a draft PO and approve it so goods receipts can be raised.
type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

type POLineInput struct {
	ItemCode  string `json:"item_code" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice string `json:"unit_price"`
}

func (r *PurchaseOrderRepository) CreatePO(supplierID, warehouseID uint, poDate string, lines []POLineInput, actorID int) (*models.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, validationError("purchase order requires at least one line")
	}

	var po *models.PurchaseOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		poNumber, err := generateDocNo(tx, &models.PurchaseOrder{}, "po_number", "PO")
		if err != nil {
			return err
		}

		po = &models.PurchaseOrder{
			PONumber:    poNumber,
			SupplierID:  supplierID,
			WarehouseID: warehouseID,
			PODate:      poDate,
			Status:      models.POStatusPending,
			CreatedBy:   actorID,
		}
		if err := tx.Create(po).Error; err != nil {
			return err
		}

		for _, line := range lines {
			if line.Quantity <= 0 {
				return validationError("line quantity must be positive for item %s", line.ItemCode)
			}
			var product models.Product
			if err := tx.Where("item_code = ?", line.ItemCode).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationError("product %s not found", line.ItemCode)
				}
				return err
			}

			unitPrice := product.UnitPrice
			if line.UnitPrice != "" {
				parsed, err := decimal.NewFromString(line.UnitPrice)
				if err != nil {
					return validationError("invalid unit price %q for item %s", line.UnitPrice, line.ItemCode)
				}
				unitPrice = parsed
			}

			poLine := models.PurchaseOrderLine{
				PurchaseOrderID: po.ID,
				ItemID:          product.ID,
				ItemCode:        product.ItemCode,
				Quantity:        line.Quantity,
				UnitPrice:       unitPrice,
			}
			if err := tx.Create(&poLine).Error; err != nil {
				return err
			}
			po.Lines = append(po.Lines, poLine)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return po, nil
}

// Approve moves a pending PO to approved. Receipts can only be raised
// against approved orders.
func (r *PurchaseOrderRepository) Approve(purchaseOrderID uint, actorID int) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&po, "id = ?", purchaseOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("purchase order %d not found", purchaseOrderID)
			}
			return err
		}

		if po.Status != models.POStatusPending && po.Status != models.POStatusDraft {
			return validationError("purchase order %s is %s, only pending orders can be approved", po.PONumber, po.Status)
		}

		po.Status = models.POStatusApproved
		po.UpdatedBy = actorID
		return tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).
			Updates(map[string]interface{}{"status": models.POStatusApproved, "updated_by": actorID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) GetPO(purchaseOrderID uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.Preload("Lines").First(&po, "id = ?", purchaseOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("purchase order %d not found", purchaseOrderID)
		}
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) ListPOs(limit int) ([]models.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 100
	}
	var pos []models.PurchaseOrder
	err := r.db.Preload("Lines").Order("id DESC").Limit(limit).Find(&pos).Error
	return pos, err
}
