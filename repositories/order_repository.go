package repositories

import (
	"errors"
	"time"

	"wms-engine/models"

	"gorm.io/gorm"
)

// maxReserveAttempts bounds the retry loop around optimistic ledger posts.
// After that a reservation conflict surfaces as insufficient allocatable.
const maxReserveAttempts = 3

// orderTransitions is the complete fulfillment state table. Any transition
// not listed here is rejected; callers never compare status strings.
var orderTransitions = map[string][]string{
	models.OrderStatusDraft:             {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:         {models.OrderStatusPickListCreated, models.OrderStatusCancelled},
	models.OrderStatusPickListCreated:   {models.OrderStatusPickingInProgress, models.OrderStatusCancelled},
	models.OrderStatusPickingInProgress: {models.OrderStatusPicked, models.OrderStatusCancelled},
	models.OrderStatusPicked:            {models.OrderStatusPackingInProgress, models.OrderStatusCancelled},
	models.OrderStatusPackingInProgress: {models.OrderStatusPacked, models.OrderStatusCancelled},
	models.OrderStatusPacked:            {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:           {models.OrderStatusDelivered},
	models.OrderStatusDelivered:         {},
	models.OrderStatusCancelled:         {},
}

func canTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// OrderRepository drives a sales order through its fulfillment lifecycle.
// Every transition commits the new state and its ledger entries in one
// transaction, or changes nothing.
type OrderRepository struct {
	db        *gorm.DB
	ledger    *LedgerRepository
	allocator *AllocationRepository
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:        db,
		ledger:    NewLedgerRepository(db),
		allocator: NewAllocationRepository(db),
	}
}

type OrderLineInput struct {
	ItemCode string `json:"item_code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrder creates a draft order. Product validation happens at confirm.
func (r *OrderRepository) CreateOrder(warehouseID, customerID uint, orderDate, remarks string, lines []OrderLineInput, actorID int) (*models.SalesOrder, error) {
	if len(lines) == 0 {
		return nil, validationError("order requires at least one line")
	}

	var order *models.SalesOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		orderNo, err := generateDocNo(tx, &models.SalesOrder{}, "order_no", "SO")
		if err != nil {
			return err
		}

		order = &models.SalesOrder{
			OrderNo:     orderNo,
			CustomerID:  customerID,
			WarehouseID: warehouseID,
			OrderDate:   orderDate,
			Status:      models.OrderStatusDraft,
			Remarks:     remarks,
			CreatedBy:   actorID,
		}
		if err := tx.Create(order).Error; err != nil {
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
			orderLine := models.SalesOrderLine{
				SalesOrderID: order.ID,
				ItemID:       product.ID,
				ItemCode:     product.ItemCode,
				Quantity:     line.Quantity,
				UnitPrice:    product.UnitPrice,
			}
			if err := tx.Create(&orderLine).Error; err != nil {
				return err
			}
			order.Lines = append(order.Lines, orderLine)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetOrder(orderID uint) (*models.SalesOrder, error) {
	var order models.SalesOrder
	if err := r.db.Preload("Lines").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("sales order %d not found", orderID)
		}
		return nil, err
	}
	return &order, nil
}

// Confirm validates every line against an existing active product. No stock
// effect.
func (r *OrderRepository) Confirm(orderID uint, actorID int) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if !canTransition(order.Status, models.OrderStatusConfirmed) {
			return &TransitionError{From: order.Status, To: models.OrderStatusConfirmed}
		}

		for _, line := range order.Lines {
			var product models.Product
			if err := tx.Where("id = ?", line.ItemID).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationError("product %s no longer exists", line.ItemCode)
				}
				return err
			}
			if !product.IsActive {
				return validationError("product %s is inactive", line.ItemCode)
			}
		}

		return setStatus(tx, &order, models.OrderStatusConfirmed, actorID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Reserve allocates stock per line (FEFO unless overridden), posts the
// RESERVE entries and creates the pick list as one atomic transition. A
// shortage on any line aborts the whole reservation, the order stays
// confirmed and is flagged backordered. Optimistic conflicts retry the
// allocation plan from fresh reads up to maxReserveAttempts.
func (r *OrderRepository) Reserve(orderID uint, policy string, actorID int) (*models.SalesOrder, error) {
	if policy == "" {
		policy = PolicyFEFO
	}

	var order models.SalesOrder
	var lastErr error

	// the line whose ledger post hit the last conflict, so that exhausting
	// the retry budget still reports which item was contended
	var contendedItem uint
	var contendedQty int

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		lastErr = r.db.Transaction(func(tx *gorm.DB) error {
			if err := lockOrder(tx, orderID, &order); err != nil {
				return err
			}
			if !canTransition(order.Status, models.OrderStatusPickListCreated) {
				return &TransitionError{From: order.Status, To: models.OrderStatusPickListCreated}
			}

			pickListNo, err := generateDocNo(tx, &models.PickList{}, "pick_list_no", "PL")
			if err != nil {
				return err
			}
			pickList := models.PickList{
				PickListNo:   pickListNo,
				SalesOrderID: order.ID,
				CreatedBy:    actorID,
			}
			if err := tx.Create(&pickList).Error; err != nil {
				return err
			}

			for i := range order.Lines {
				line := &order.Lines[i]
				contendedItem, contendedQty = line.ItemID, line.Quantity

				plan, err := r.allocator.Allocate(tx, line.ItemID, order.WarehouseID, line.Quantity, policy)
				if err != nil {
					return err
				}

				for _, alloc := range plan {
					entry := models.LedgerEntry{
						EntryType:      models.EntryReserve,
						ItemID:         line.ItemID,
						WarehouseID:    order.WarehouseID,
						BatchID:        alloc.BatchID,
						FromLocationID: alloc.LocationID,
						Quantity:       alloc.Quantity,
						Reason:         "order reservation",
						RefType:        "SO",
						RefNo:          order.OrderNo,
						ActorID:        actorID,
					}
					if _, err := r.ledger.Post(tx, &entry); err != nil {
						return err
					}

					pickLine := models.PickListLine{
						PickListID:       pickList.ID,
						SalesOrderLineID: line.ID,
						ItemID:           line.ItemID,
						BatchID:          alloc.BatchID,
						LocationID:       alloc.LocationID,
						Quantity:         alloc.Quantity,
						Status:           models.PickLineStatusPending,
					}
					if err := tx.Create(&pickLine).Error; err != nil {
						return err
					}
				}

				line.QtyReserved = line.Quantity
				if err := tx.Model(&models.SalesOrderLine{}).Where("id = ?", line.ID).
					Update("qty_reserved", line.Quantity).Error; err != nil {
					return err
				}
			}

			return setStatus(tx, &order, models.OrderStatusPickListCreated, actorID)
		})

		if lastErr == nil {
			return &order, nil
		}
		if !errors.Is(lastErr, ErrConcurrentModification) {
			break
		}
	}

	if errors.Is(lastErr, ErrConcurrentModification) {
		// contended past the retry budget: surface as a shortage carrying
		// the contended line's quantities
		available, _ := r.ledger.Available(contendedItem, order.WarehouseID, 0)
		lastErr = insufficientAllocatable(contendedItem, order.WarehouseID, contendedQty, available)
	}

	if errors.Is(lastErr, ErrInsufficientAllocatable) {
		// leave the order confirmed, flag the backorder condition
		r.db.Model(&models.SalesOrder{}).Where("id = ?", orderID).
			Update("backordered", true)
	}

	return nil, lastErr
}

// StartPicking marks the picker's walk as begun. State only, no locks held.
func (r *OrderRepository) StartPicking(orderID uint, actorID int) (*models.SalesOrder, error) {
	return r.simpleTransition(orderID, models.OrderStatusPickingInProgress, actorID, nil)
}

// CompletePicking converts reservations into physical removals: one PICK
// entry per pick list line, dropping onhand and reserved together.
func (r *OrderRepository) CompletePicking(orderID uint, actorID int) (*models.SalesOrder, error) {
	var order models.SalesOrder
	var lastErr error

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		lastErr = r.db.Transaction(func(tx *gorm.DB) error {
			if err := lockOrder(tx, orderID, &order); err != nil {
				return err
			}
			if !canTransition(order.Status, models.OrderStatusPicked) {
				return &TransitionError{From: order.Status, To: models.OrderStatusPicked}
			}

			var pickLines []models.PickListLine
			if err := tx.Joins("INNER JOIN pick_lists ON pick_lists.id = pick_list_lines.pick_list_id").
				Where("pick_lists.sales_order_id = ? AND pick_list_lines.status = ?",
					order.ID, models.PickLineStatusPending).
				Find(&pickLines).Error; err != nil {
				return err
			}
			if len(pickLines) == 0 {
				return validationError("order %s has no pending pick lines", order.OrderNo)
			}

			pickedPerLine := map[uint]int{}
			for _, pickLine := range pickLines {
				entry := models.LedgerEntry{
					EntryType:      models.EntryPick,
					ItemID:         pickLine.ItemID,
					WarehouseID:    order.WarehouseID,
					BatchID:        pickLine.BatchID,
					FromLocationID: pickLine.LocationID,
					Quantity:       -pickLine.Quantity,
					Reason:         "order picking",
					RefType:        "SO",
					RefNo:          order.OrderNo,
					ActorID:        actorID,
				}
				if _, err := r.ledger.Post(tx, &entry); err != nil {
					return err
				}

				if err := tx.Model(&models.PickListLine{}).Where("id = ?", pickLine.ID).
					Updates(map[string]interface{}{
						"status":    models.PickLineStatusPicked,
						"picked_by": actorID,
					}).Error; err != nil {
					return err
				}
				pickedPerLine[pickLine.SalesOrderLineID] += pickLine.Quantity
			}

			for lineID, qty := range pickedPerLine {
				if err := tx.Model(&models.SalesOrderLine{}).Where("id = ?", lineID).
					Updates(map[string]interface{}{
						"qty_picked":   gorm.Expr("qty_picked + ?", qty),
						"qty_reserved": gorm.Expr("qty_reserved - ?", qty),
					}).Error; err != nil {
					return err
				}
			}

			return setStatus(tx, &order, models.OrderStatusPicked, actorID)
		})

		if lastErr == nil {
			return &order, nil
		}
		if !errors.Is(lastErr, ErrConcurrentModification) {
			break
		}
	}

	return nil, lastErr
}

// StartPacking opens the packing task.
func (r *OrderRepository) StartPacking(orderID uint, actorID int) (*models.SalesOrder, error) {
	return r.simpleTransition(orderID, models.OrderStatusPackingInProgress, actorID, func(tx *gorm.DB, order *models.SalesOrder) error {
		packingNo, err := generateDocNo(tx, &models.PackingTask{}, "packing_no", "PA")
		if err != nil {
			return err
		}
		task := models.PackingTask{
			PackingNo:    packingNo,
			SalesOrderID: order.ID,
			PackedBy:     actorID,
		}
		return tx.Create(&task).Error
	})
}

// CompletePacking verifies picked quantities match the order lines. No
// ledger effect, stock already left at pick time.
func (r *OrderRepository) CompletePacking(orderID uint, actorID int) (*models.SalesOrder, error) {
	return r.simpleTransition(orderID, models.OrderStatusPacked, actorID, func(tx *gorm.DB, order *models.SalesOrder) error {
		for _, line := range order.Lines {
			if line.QtyPicked != line.Quantity {
				return validationError("item %s picked %d of %d, cannot pack",
					line.ItemCode, line.QtyPicked, line.Quantity)
			}
		}
		return tx.Model(&models.PackingTask{}).
			Where("sales_order_id = ?", order.ID).
			Updates(map[string]interface{}{"status": "done", "packed_by": actorID}).Error
	})
}

// Ship creates the shipment with today's dispatch date. Deliberately no
// stock movement here: the decrement happened at pick, a ship-time deduction
// would double count.
func (r *OrderRepository) Ship(orderID uint, carrier, trackingNo string, actorID int) (*models.SalesOrder, error) {
	return r.simpleTransition(orderID, models.OrderStatusShipped, actorID, func(tx *gorm.DB, order *models.SalesOrder) error {
		shipmentNo, err := generateDocNo(tx, &models.Shipment{}, "shipment_no", "SH")
		if err != nil {
			return err
		}
		shipment := models.Shipment{
			ShipmentNo:   shipmentNo,
			SalesOrderID: order.ID,
			Carrier:      carrier,
			TrackingNo:   trackingNo,
			DispatchDate: time.Now().Format("2006-01-02"),
			CreatedBy:    actorID,
		}
		return tx.Create(&shipment).Error
	})
}

// Deliver records the carrier confirmation.
func (r *OrderRepository) Deliver(orderID uint, actorID int) (*models.SalesOrder, error) {
	return r.simpleTransition(orderID, models.OrderStatusDelivered, actorID, nil)
}

// Cancel releases every outstanding reservation and parks the order in its
// terminal state. Quantities already picked are not reinstated here; those
// come back through a return, never through cancellation.
func (r *OrderRepository) Cancel(orderID uint, actorID int) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if !canTransition(order.Status, models.OrderStatusCancelled) {
			return &TransitionError{From: order.Status, To: models.OrderStatusCancelled}
		}

		var pickLines []models.PickListLine
		if err := tx.Joins("INNER JOIN pick_lists ON pick_lists.id = pick_list_lines.pick_list_id").
			Where("pick_lists.sales_order_id = ? AND pick_list_lines.status = ?",
				order.ID, models.PickLineStatusPending).
			Find(&pickLines).Error; err != nil {
			return err
		}

		for _, pickLine := range pickLines {
			entry := models.LedgerEntry{
				EntryType:      models.EntryRelease,
				ItemID:         pickLine.ItemID,
				WarehouseID:    order.WarehouseID,
				BatchID:        pickLine.BatchID,
				FromLocationID: pickLine.LocationID,
				Quantity:       -pickLine.Quantity,
				Reason:         "order cancelled",
				RefType:        "SO",
				RefNo:          order.OrderNo,
				ActorID:        actorID,
			}
			if _, err := r.ledger.Post(tx, &entry); err != nil {
				return err
			}

			if err := tx.Model(&models.PickListLine{}).Where("id = ?", pickLine.ID).
				Update("status", models.PickLineStatusReleased).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.SalesOrderLine{}).Where("id = ?", pickLine.SalesOrderLineID).
				Update("qty_reserved", gorm.Expr("qty_reserved - ?", pickLine.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.PickList{}).Where("sales_order_id = ?", order.ID).
			Update("status", "cancelled").Error; err != nil {
			return err
		}

		return setStatus(tx, &order, models.OrderStatusCancelled, actorID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// simpleTransition performs a table-checked status change with an optional
// side effect in the same transaction.
func (r *OrderRepository) simpleTransition(orderID uint, to string, actorID int, sideEffect func(tx *gorm.DB, order *models.SalesOrder) error) (*models.SalesOrder, error) {
	var order models.SalesOrder
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID, &order); err != nil {
			return err
		}
		if !canTransition(order.Status, to) {
			return &TransitionError{From: order.Status, To: to}
		}
		if sideEffect != nil {
			if err := sideEffect(tx, &order); err != nil {
				return err
			}
		}
		return setStatus(tx, &order, to, actorID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func lockOrder(tx *gorm.DB, orderID uint, order *models.SalesOrder) error {
	if err := tx.Preload("Lines").First(order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationError("sales order %d not found", orderID)
		}
		return err
	}
	return nil
}

func setStatus(tx *gorm.DB, order *models.SalesOrder, to string, actorID int) error {
	order.Status = to
	order.UpdatedBy = actorID
	return tx.Model(&models.SalesOrder{}).Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": to, "updated_by": actorID}).Error
}
