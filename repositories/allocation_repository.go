package repositories

import (
	"time"

	"wms-engine/models"
	"wms-engine/types"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// Allocation policies.
const (
	PolicyFIFO = "FIFO" // oldest received date first
	PolicyFEFO = "FEFO" // earliest expiry first, batches without expiry last
	PolicyLIFO = "LIFO" // newest received date first
)

// BatchAllocation is one slice of an allocation plan.
type BatchAllocation struct {
	BatchID    types.SnowflakeID `json:"batch_id"`
	BatchNo    string            `json:"batch_no"`
	LocationID uint              `json:"location_id"`
	Quantity   int               `json:"quantity"`
}

// AllocationRepository plans which batches satisfy a requested quantity.
// It only computes, the caller posts the resulting RESERVE or PICK entries.
type AllocationRepository struct {
	db     *gorm.DB
	ledger *LedgerRepository
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{db: db, ledger: NewLedgerRepository(db)}
}

type allocCandidate struct {
	batch      models.Batch
	locationID uint
	available  int
}

// Allocate greedily consumes availability from active, unexpired batches in
// policy order until the request is satisfied. Ties break by batch number
// ascending so the plan is deterministic. The total is checked up front: on
// shortage nothing is reserved and ErrInsufficientAllocatable carries the
// requested vs available quantities.
func (r *AllocationRepository) Allocate(tx *gorm.DB, itemID, warehouseID uint, quantity int, policy string) ([]BatchAllocation, error) {
	if quantity <= 0 {
		return nil, validationError("allocation quantity must be positive, got %d", quantity)
	}
	switch policy {
	case PolicyFIFO, PolicyFEFO, PolicyLIFO:
	default:
		return nil, validationError("unknown allocation policy %q", policy)
	}

	rows, err := r.ledger.BatchAvailability(tx, itemID, warehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	candidates := make([]allocCandidate, 0, len(rows))
	total := 0
	for _, row := range rows {
		var batch models.Batch
		if err := tx.Where("id = ?", row.BatchID).First(&batch).Error; err != nil {
			return nil, err
		}
		if !batch.Allocatable(now) {
			continue
		}
		candidates = append(candidates, allocCandidate{batch: batch, locationID: row.LocationID, available: row.Available})
		total += row.Available
	}

	if total < quantity {
		return nil, insufficientAllocatable(itemID, warehouseID, quantity, total)
	}

	slices.SortStableFunc(candidates, func(a, b allocCandidate) int {
		if c := comparePolicy(a.batch, b.batch, policy); c != 0 {
			return c
		}
		if a.batch.BatchNo != b.batch.BatchNo {
			if a.batch.BatchNo < b.batch.BatchNo {
				return -1
			}
			return 1
		}
		// same batch split over locations, keep a stable location order
		return int(a.locationID) - int(b.locationID)
	})

	var plan []BatchAllocation
	remaining := quantity
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}
		take := c.available
		if take > remaining {
			take = remaining
		}
		plan = append(plan, BatchAllocation{
			BatchID:    c.batch.ID,
			BatchNo:    c.batch.BatchNo,
			LocationID: c.locationID,
			Quantity:   take,
		})
		remaining -= take
	}

	return plan, nil
}

func comparePolicy(a, b models.Batch, policy string) int {
	switch policy {
	case PolicyFEFO:
		// nil expiry sorts last
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return 0
		case a.ExpiryDate == nil:
			return 1
		case b.ExpiryDate == nil:
			return -1
		default:
			return a.ExpiryDate.Compare(*b.ExpiryDate)
		}
	case PolicyLIFO:
		return b.ReceivedDate.Compare(a.ReceivedDate)
	default: // FIFO
		return a.ReceivedDate.Compare(b.ReceivedDate)
	}
}
