package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	POStatusDraft     = "draft"
	POStatusPending   = "pending"
	POStatusApproved  = "approved"
	POStatusCancelled = "cancelled"
)

const (
	ReceiptStatusPending    = "pending"
	ReceiptStatusInProgress = "in_progress"
	ReceiptStatusCompleted  = "completed"
)

const (
	QualityGood    = "good"
	QualityDamaged = "damaged"
)

type PurchaseOrder struct {
	gorm.Model
	PONumber    string              `json:"po_number" gorm:"uniqueIndex;not null"`
	SupplierID  uint                `json:"supplier_id"`
	WarehouseID uint                `json:"warehouse_id" gorm:"not null"`
	PODate      string              `json:"po_date"`
	Status      string              `json:"status" gorm:"default:draft"`
	Remarks     string              `json:"remarks"`
	Lines       []PurchaseOrderLine `json:"lines" gorm:"foreignKey:PurchaseOrderID"`
	CreatedBy   int
	UpdatedBy   int
}

type PurchaseOrderLine struct {
	gorm.Model
	PurchaseOrderID uint            `json:"purchase_order_id" gorm:"index;not null"`
	ItemID          uint            `json:"item_id" gorm:"not null"`
	ItemCode        string          `json:"item_code"`
	Quantity        int             `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);default:0"`
}

// GoodsReceipt reconciles one approved purchase order against what physically
// arrived. Completion requires every line to have a determined received qty.
type GoodsReceipt struct {
	gorm.Model
	ReceiptNo       string             `json:"receipt_no" gorm:"uniqueIndex;not null"`
	PurchaseOrderID uint               `json:"purchase_order_id" gorm:"index;not null"`
	WarehouseID     uint               `json:"warehouse_id" gorm:"not null"`
	Status          string             `json:"status" gorm:"default:pending"`
	Lines           []GoodsReceiptLine `json:"lines" gorm:"foreignKey:GoodsReceiptID"`
	CreatedBy       int
	UpdatedBy       int
}

type GoodsReceiptLine struct {
	gorm.Model
	GoodsReceiptID uint   `json:"goods_receipt_id" gorm:"index;not null"`
	POLineID       uint   `json:"po_line_id" gorm:"not null"`
	ItemID         uint   `json:"item_id" gorm:"not null"`
	ItemCode       string `json:"item_code"`
	ExpectedQty    int    `json:"expected_qty" gorm:"default:0"`
	ReceivedQty    int    `json:"received_qty" gorm:"default:0"`
	QualityStatus  string `json:"quality_status" gorm:"default:good"`
	Received       bool   `json:"received" gorm:"default:false"`
}
