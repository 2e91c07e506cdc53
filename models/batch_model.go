package models

import (
	"time"

	"wms-engine/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BatchStatusActive      = "active"
	BatchStatusDepleted    = "depleted"
	BatchStatusExpired     = "expired"
	BatchStatusQuarantined = "quarantined"
)

// Batch is a received lot of one product in one warehouse. Its available
// quantity is the sum of its stock records across locations.
type Batch struct {
	gorm.Model
	ID                types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	BatchNo           string            `json:"batch_no" gorm:"uniqueIndex;not null" validate:"required"`
	ItemID            uint              `json:"item_id" gorm:"index;not null"`
	ItemCode          string            `json:"item_code"`
	WarehouseID       uint              `json:"warehouse_id" gorm:"index;not null"`
	SupplierID        uint              `json:"supplier_id"`
	ReceivedDate      time.Time         `json:"received_date"`
	ExpiryDate        *time.Time        `json:"expiry_date" gorm:"default:null"`
	ManufacturingDate *time.Time        `json:"manufacturing_date" gorm:"default:null"`
	UnitCost          decimal.Decimal   `json:"unit_cost" gorm:"type:decimal(18,2);default:0"`
	Status            string            `json:"status" gorm:"default:active"`
	CreatedBy         int
	UpdatedBy         int
}

// IsExpired is a status check against the expiry date, it does not mutate
// quantities.
func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(now)
}

// Allocatable reports whether the allocator may draw from this batch.
func (b *Batch) Allocatable(now time.Time) bool {
	return b.Status == BatchStatusActive && !b.IsExpired(now)
}
