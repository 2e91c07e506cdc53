package models

import (
	"wms-engine/types"

	"gorm.io/gorm"
)

const (
	CycleCountStatusOpen      = "open"
	CycleCountStatusCompleted = "completed"
)

// Adjustment is the audited wrapper around a manual ADJUST_INC/ADJUST_DEC
// ledger entry. The quantity change itself lives in the ledger.
type Adjustment struct {
	gorm.Model
	AdjustmentNo  string            `json:"adjustment_no" gorm:"uniqueIndex;not null"`
	ItemID        uint              `json:"item_id" gorm:"not null"`
	WarehouseID   uint              `json:"warehouse_id" gorm:"not null"`
	LocationID    uint              `json:"location_id"`
	BatchID       types.SnowflakeID `json:"batch_id" gorm:"default:0"`
	Delta         int               `json:"delta" gorm:"not null"`
	Reason        string            `json:"reason"`
	LedgerEntryID types.SnowflakeID `json:"ledger_entry_id" gorm:"default:0"`
	CreatedBy     int
}

// CycleCount stores the counted quantity and the discrepancy against the
// ledger projection at count time.
type CycleCount struct {
	gorm.Model
	CountNo       string            `json:"count_no" gorm:"uniqueIndex;not null"`
	ItemID        uint              `json:"item_id" gorm:"not null"`
	WarehouseID   uint              `json:"warehouse_id" gorm:"not null"`
	LocationID    uint              `json:"location_id" gorm:"not null"`
	BatchID       types.SnowflakeID `json:"batch_id" gorm:"default:0"`
	CountedQty    int               `json:"counted_qty" gorm:"not null"`
	ExpectedQty   int               `json:"expected_qty" gorm:"not null"`
	Discrepancy   int               `json:"discrepancy" gorm:"not null"`
	Status        string            `json:"status" gorm:"default:open"`
	LedgerEntryID types.SnowflakeID `json:"ledger_entry_id" gorm:"default:0"`
	CountedBy     int
}
