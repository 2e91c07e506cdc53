package repositories

import (
	"errors"
	"time"

	"wms-engine/controllers/idgen"
	"wms-engine/models"
	"wms-engine/types"

	"gorm.io/gorm"
)

// ReturnRepository handles RMAs against orders whose goods left the building.
// Good returns come back as new lots at the returns location; damaged returns
// go straight to quarantine and never touch available stock.
type ReturnRepository struct {
	db     *gorm.DB
	ledger *LedgerRepository
}

func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db: db, ledger: NewLedgerRepository(db)}
}

type ReturnLineInput struct {
	SalesOrderLineID uint   `json:"sales_order_line_id" validate:"required"`
	Quantity         int    `json:"quantity" validate:"required,gt=0"`
	Reason           string `json:"reason"`
}

// CreateReturn opens an RMA. Goods must have physically left the building:
// shipped or delivered orders qualify, and so does a cancelled order whose
// lines were already picked, since cancellation never reinstates picked
// stock. Per order line the cumulative returned quantity across all RMAs
// must never exceed what was actually picked.
func (r *ReturnRepository) CreateReturn(salesOrderID uint, lines []ReturnLineInput, remarks string, actorID int) (*models.ReturnHeader, error) {
	if len(lines) == 0 {
		return nil, validationError("return requires at least one line")
	}

	var ret *models.ReturnHeader
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.SalesOrder
		if err := tx.Preload("Lines").First(&order, "id = ?", salesOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("sales order %d not found", salesOrderID)
			}
			return err
		}

		if order.Status != models.OrderStatusShipped && order.Status != models.OrderStatusDelivered {
			picked := 0
			for i := range order.Lines {
				picked += order.Lines[i].QtyPicked
			}
			if picked == 0 {
				return validationError("order %s is %s with nothing picked, no goods to return",
					order.OrderNo, order.Status)
			}
		}

		orderLineByID := map[uint]*models.SalesOrderLine{}
		for i := range order.Lines {
			orderLineByID[order.Lines[i].ID] = &order.Lines[i]
		}

		returnNo, err := generateDocNo(tx, &models.ReturnHeader{}, "return_no", "RMA")
		if err != nil {
			return err
		}

		ret = &models.ReturnHeader{
			ReturnNo:     returnNo,
			SalesOrderID: order.ID,
			WarehouseID:  order.WarehouseID,
			Status:       models.ReturnStatusOpen,
			Remarks:      remarks,
			CreatedBy:    actorID,
		}
		if err := tx.Create(ret).Error; err != nil {
			return err
		}

		for _, input := range lines {
			orderLine, ok := orderLineByID[input.SalesOrderLineID]
			if !ok {
				return validationError("line %d does not belong to order %s", input.SalesOrderLineID, order.OrderNo)
			}
			if input.Quantity <= 0 {
				return validationError("return quantity must be positive for item %s", orderLine.ItemCode)
			}

			// pending quantities on other open RMAs count against the cap too
			var pending int
			if err := tx.Model(&models.ReturnLine{}).
				Select("COALESCE(SUM(return_lines.quantity), 0)").
				Joins("INNER JOIN return_headers ON return_headers.id = return_lines.return_id").
				Where("return_lines.sales_order_line_id = ? AND return_lines.received = ?", orderLine.ID, false).
				Where("return_headers.status <> ?", models.ReturnStatusCompleted).
				Scan(&pending).Error; err != nil {
				return err
			}

			if orderLine.QtyReturned+pending+input.Quantity > orderLine.QtyPicked {
				return validationError("item %s: returning %d exceeds picked quantity %d (already returned %d, pending %d)",
					orderLine.ItemCode, input.Quantity, orderLine.QtyPicked, orderLine.QtyReturned, pending)
			}

			retLine := models.ReturnLine{
				ReturnID:         ret.ID,
				SalesOrderLineID: orderLine.ID,
				ItemID:           orderLine.ItemID,
				ItemCode:         orderLine.ItemCode,
				Quantity:         input.Quantity,
				Reason:           input.Reason,
			}
			if err := tx.Create(&retLine).Error; err != nil {
				return err
			}
			ret.Lines = append(ret.Lines, retLine)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return ret, nil
}

type ReceiveReturnInput struct {
	LineID    uint   `json:"line_id" validate:"required"`
	Condition string `json:"condition_status" validate:"required"`
}

// ReceiveReturn inspects arrived RMA lines. Good condition posts RETURN_IN
// into a fresh RMA lot at the returns location; the original batch identity
// is gone once goods leave the building. Damaged condition posts DAMAGE into
// quarantine. The RMA completes when every line is received.
func (r *ReturnRepository) ReceiveReturn(returnID uint, inputs []ReceiveReturnInput, actorID int) (*models.ReturnHeader, error) {
	var ret models.ReturnHeader

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Lines").First(&ret, "id = ?", returnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationError("return %d not found", returnID)
			}
			return err
		}

		if ret.Status == models.ReturnStatusCompleted {
			return ErrAlreadyFinalized
		}

		returnsLoc, err := defaultLocation(tx, ret.WarehouseID, models.LocationTypeReturns)
		if err != nil {
			return err
		}
		quarantineLoc, err := defaultLocation(tx, ret.WarehouseID, models.LocationTypeQuarantine)
		if err != nil {
			return err
		}

		lineByID := map[uint]*models.ReturnLine{}
		for i := range ret.Lines {
			lineByID[ret.Lines[i].ID] = &ret.Lines[i]
		}

		for _, input := range inputs {
			line, ok := lineByID[input.LineID]
			if !ok {
				return validationError("line %d does not belong to return %s", input.LineID, ret.ReturnNo)
			}
			if line.Received {
				return validationError("line %d of return %s was already received", input.LineID, ret.ReturnNo)
			}
			if input.Condition != models.QualityGood && input.Condition != models.QualityDamaged {
				return validationError("unknown condition status %q", input.Condition)
			}

			batch, err := r.ensureReturnBatch(tx, &ret, line, actorID)
			if err != nil {
				return err
			}

			entry := models.LedgerEntry{
				ItemID:      line.ItemID,
				WarehouseID: ret.WarehouseID,
				BatchID:     batch.ID,
				Quantity:    line.Quantity,
				RefType:     "RMA",
				RefNo:       ret.ReturnNo,
				ActorID:     actorID,
			}
			if input.Condition == models.QualityGood {
				entry.EntryType = models.EntryReturnIn
				entry.ToLocationID = returnsLoc
				entry.Reason = "customer return"
			} else {
				entry.EntryType = models.EntryDamage
				entry.ToLocationID = quarantineLoc
				entry.Reason = "returned damaged"
			}
			if _, err := r.ledger.Post(tx, &entry); err != nil {
				return err
			}

			line.ConditionStatus = input.Condition
			line.Received = true
			if err := tx.Model(&models.ReturnLine{}).Where("id = ?", line.ID).
				Updates(map[string]interface{}{
					"condition_status": input.Condition,
					"received":         true,
				}).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.SalesOrderLine{}).Where("id = ?", line.SalesOrderLineID).
				Update("qty_returned", gorm.Expr("qty_returned + ?", line.Quantity)).Error; err != nil {
				return err
			}
		}

		status := models.ReturnStatusCompleted
		for i := range ret.Lines {
			if !ret.Lines[i].Received {
				status = models.ReturnStatusPartiallyReceived
				break
			}
		}
		ret.Status = status
		ret.UpdatedBy = actorID

		return tx.Model(&models.ReturnHeader{}).Where("id = ?", ret.ID).
			Updates(map[string]interface{}{"status": status, "updated_by": actorID}).Error
	})

	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// ensureReturnBatch creates the RMA lot for this return and product on first
// touch. Returned goods never rejoin their original purchase batch.
func (r *ReturnRepository) ensureReturnBatch(tx *gorm.DB, ret *models.ReturnHeader, line *models.ReturnLine, actorID int) (*models.Batch, error) {
	batchNo := ret.ReturnNo + "-" + line.ItemCode

	var batch models.Batch
	err := tx.Where("batch_no = ?", batchNo).First(&batch).Error
	if err == nil {
		return &batch, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	batch = models.Batch{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		BatchNo:      batchNo,
		ItemID:       line.ItemID,
		ItemCode:     line.ItemCode,
		WarehouseID:  ret.WarehouseID,
		ReceivedDate: time.Now(),
		Status:       models.BatchStatusActive,
		CreatedBy:    actorID,
	}
	if err := tx.Create(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}
