package models

import (
	"time"

	"wms-engine/types"

	"gorm.io/gorm"
)

// Ledger entry types. The stored quantity is signed with a canonical sign per
// type; the pair (OnhandDelta, ReservedDelta) defines the effect on the stock
// record so that replaying the ledger reproduces the projection.
const (
	EntryReceive   = "RECEIVE"    // +qty onhand (goods receipt)
	EntryReserve   = "RESERVE"    // +qty reserved (order allocation)
	EntryRelease   = "RELEASE"    // -qty reserved (cancellation)
	EntryPick      = "PICK"       // -qty onhand and reserved (physical removal)
	EntryAdjustInc = "ADJUST_INC" // +qty onhand (found stock, correction)
	EntryAdjustDec = "ADJUST_DEC" // -qty onhand (loss, damage, expiry)
	EntryReturnIn  = "RETURN_IN"  // +qty onhand (RMA good condition)
	EntryDamage    = "DAMAGE"     // +qty onhand on a quarantine location
)

// StockRecord is the denormalized projection of the ledger per
// (item, warehouse, location, batch). Quantities only change through
// LedgerRepository.Post, never by direct assignment.
type StockRecord struct {
	gorm.Model
	ItemID       uint              `json:"item_id" gorm:"uniqueIndex:idx_stock_key;not null"`
	WarehouseID  uint              `json:"warehouse_id" gorm:"uniqueIndex:idx_stock_key;not null"`
	LocationID   uint              `json:"location_id" gorm:"uniqueIndex:idx_stock_key;not null"`
	BatchID      types.SnowflakeID `json:"batch_id" gorm:"uniqueIndex:idx_stock_key;default:0"`
	QtyOnhand    int               `json:"qty_onhand" gorm:"default:0"`
	QtyReserved  int               `json:"qty_reserved" gorm:"default:0"`
	QtyAvailable int               `json:"qty_available" gorm:"default:0"`
	Version      int               `json:"version" gorm:"default:0"`
	UpdatedBy    int
}

// LedgerEntry is append-only. Corrections are new entries with inverse sign
// referencing the original, never updates.
type LedgerEntry struct {
	ID             types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	EntryType      string            `json:"entry_type" gorm:"index;not null"`
	ItemID         uint              `json:"item_id" gorm:"index;not null"`
	WarehouseID    uint              `json:"warehouse_id" gorm:"index;not null"`
	BatchID        types.SnowflakeID `json:"batch_id" gorm:"index;default:0"`
	FromLocationID uint              `json:"from_location_id" gorm:"default:0"`
	ToLocationID   uint              `json:"to_location_id" gorm:"default:0"`
	Quantity       int               `json:"quantity" gorm:"not null"`
	Reason         string            `json:"reason"`
	RefType        string            `json:"ref_type"`
	RefNo          string            `json:"ref_no" gorm:"index"`
	ActorID        int               `json:"actor_id"`
	CreatedAt      time.Time         `json:"created_at" gorm:"index"`
}

// LocationID returns the location the entry applies to. Receiving style
// entries carry a destination, the rest a source.
func (e *LedgerEntry) LocationID() uint {
	if e.ToLocationID != 0 {
		return e.ToLocationID
	}
	return e.FromLocationID
}

// ValidSign reports whether the signed quantity matches the entry type.
func (e *LedgerEntry) ValidSign() bool {
	if e.Quantity == 0 {
		return false
	}
	switch e.EntryType {
	case EntryReceive, EntryReserve, EntryAdjustInc, EntryReturnIn, EntryDamage:
		return e.Quantity > 0
	case EntryRelease, EntryPick, EntryAdjustDec:
		return e.Quantity < 0
	default:
		return false
	}
}

// OnhandDelta is the signed effect of the entry on quantity on hand.
func (e *LedgerEntry) OnhandDelta() int {
	switch e.EntryType {
	case EntryReceive, EntryAdjustInc, EntryAdjustDec, EntryReturnIn, EntryDamage:
		return e.Quantity
	case EntryPick:
		return e.Quantity
	default:
		return 0
	}
}

// ReservedDelta is the signed effect of the entry on the reserved quantity.
func (e *LedgerEntry) ReservedDelta() int {
	switch e.EntryType {
	case EntryReserve, EntryRelease, EntryPick:
		return e.Quantity
	default:
		return 0
	}
}

// IsIncrease reports whether the entry may create a missing stock record.
// Everything else (including RESERVE, which decreases availability) fails
// with UnknownRecord when no record exists.
func (e *LedgerEntry) IsIncrease() bool {
	return e.OnhandDelta() > 0
}
