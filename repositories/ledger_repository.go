package repositories

import (
	"errors"
	"time"

	"wms-engine/controllers/idgen"
	"wms-engine/models"
	"wms-engine/types"

	"gorm.io/gorm"
)

// LedgerRepository is the single write path for stock quantities. Every
// mutation is an append-only LedgerEntry plus an optimistic update of the
// denormalized StockRecord; replaying the entries reproduces the records.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Post applies one ledger entry inside the caller's transaction. It validates
// the quantity sign against the entry type, locates or creates the stock
// record, enforces 0 <= reserved <= onhand after application, and persists
// entry and record together. The record row is guarded by a version check;
// a concurrent writer surfaces as ErrConcurrentModification and the caller
// decides whether to retry with fresh reads.
func (r *LedgerRepository) Post(tx *gorm.DB, entry *models.LedgerEntry) (*models.StockRecord, error) {
	if !entry.ValidSign() {
		return nil, validationError("quantity %d has wrong sign for entry type %s", entry.Quantity, entry.EntryType)
	}

	locationID := entry.LocationID()
	if locationID == 0 {
		return nil, validationError("entry type %s requires a location", entry.EntryType)
	}
	if entry.ItemID == 0 || entry.WarehouseID == 0 {
		return nil, validationError("entry requires item and warehouse")
	}

	var record models.StockRecord
	err := tx.Where("item_id = ? AND warehouse_id = ? AND location_id = ? AND batch_id = ?",
		entry.ItemID, entry.WarehouseID, locationID, entry.BatchID).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !entry.IsIncrease() {
			return nil, ErrUnknownRecord
		}
		record = models.StockRecord{
			ItemID:      entry.ItemID,
			WarehouseID: entry.WarehouseID,
			LocationID:  locationID,
			BatchID:     entry.BatchID,
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	newOnhand := record.QtyOnhand + entry.OnhandDelta()
	newReserved := record.QtyReserved + entry.ReservedDelta()

	if newOnhand < 0 || newReserved < 0 || newReserved > newOnhand {
		return nil, insufficientStock(entry.ItemID, entry.WarehouseID,
			abs(entry.Quantity), record.QtyAvailable)
	}

	res := tx.Model(&models.StockRecord{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{
			"qty_onhand":    newOnhand,
			"qty_reserved":  newReserved,
			"qty_available": newOnhand - newReserved,
			"version":       record.Version + 1,
			"updated_by":    entry.ActorID,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConcurrentModification
	}

	if entry.ID == 0 {
		entry.ID = types.SnowflakeID(idgen.GenerateID())
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	if entry.BatchID != 0 && entry.OnhandDelta() != 0 {
		if err := r.refreshBatchStatus(tx, entry.BatchID); err != nil {
			return nil, err
		}
	}

	record.QtyOnhand = newOnhand
	record.QtyReserved = newReserved
	record.QtyAvailable = newOnhand - newReserved
	record.Version++
	return &record, nil
}

// Available is the read-only projection of allocatable quantity. Quarantine
// locations never contribute.
func (r *LedgerRepository) Available(itemID, warehouseID uint, batchID types.SnowflakeID) (int, error) {
	query := r.db.Model(&models.StockRecord{}).
		Select("COALESCE(SUM(stock_records.qty_available), 0)").
		Joins("INNER JOIN locations ON locations.id = stock_records.location_id").
		Where("stock_records.item_id = ? AND stock_records.warehouse_id = ?", itemID, warehouseID).
		Where("locations.location_type <> ?", models.LocationTypeQuarantine)

	if batchID != 0 {
		query = query.Where("stock_records.batch_id = ?", batchID)
	}

	var available int
	if err := query.Scan(&available).Error; err != nil {
		return 0, err
	}
	return available, nil
}

// BatchAvailability lists per-batch allocatable quantity for one product in
// one warehouse, quarantine excluded.
type BatchAvailability struct {
	BatchID    types.SnowflakeID `json:"batch_id"`
	LocationID uint              `json:"location_id"`
	Available  int               `json:"available"`
}

func (r *LedgerRepository) BatchAvailability(tx *gorm.DB, itemID, warehouseID uint) ([]BatchAvailability, error) {
	var rows []BatchAvailability
	err := tx.Model(&models.StockRecord{}).
		Select("stock_records.batch_id, stock_records.location_id, SUM(stock_records.qty_available) AS available").
		Joins("INNER JOIN locations ON locations.id = stock_records.location_id").
		Where("stock_records.item_id = ? AND stock_records.warehouse_id = ? AND stock_records.batch_id <> 0", itemID, warehouseID).
		Where("locations.location_type <> ?", models.LocationTypeQuarantine).
		Group("stock_records.batch_id, stock_records.location_id").
		Having("SUM(stock_records.qty_available) > 0").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Replay recomputes the stock projection for one item from the raw ledger.
// Given the same entry set the result is always identical, which is the
// audit guarantee cycle counts reconcile against.
func (r *LedgerRepository) Replay(itemID, warehouseID uint) ([]models.StockRecord, error) {
	var entries []models.LedgerEntry
	if err := r.db.Where("item_id = ? AND warehouse_id = ?", itemID, warehouseID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	type key struct {
		locationID uint
		batchID    types.SnowflakeID
	}
	computed := map[key]*models.StockRecord{}
	order := []key{}

	for i := range entries {
		e := &entries[i]
		k := key{locationID: e.LocationID(), batchID: e.BatchID}
		rec, ok := computed[k]
		if !ok {
			rec = &models.StockRecord{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				LocationID:  k.locationID,
				BatchID:     k.batchID,
			}
			computed[k] = rec
			order = append(order, k)
		}
		rec.QtyOnhand += e.OnhandDelta()
		rec.QtyReserved += e.ReservedDelta()
		rec.QtyAvailable = rec.QtyOnhand - rec.QtyReserved
	}

	records := make([]models.StockRecord, 0, len(order))
	for _, k := range order {
		records = append(records, *computed[k])
	}
	return records, nil
}

// History returns the entry stream for one product, newest first.
func (r *LedgerRepository) History(itemID uint, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.LedgerEntry
	err := r.db.Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// refreshBatchStatus flips a batch to depleted when its availability reaches
// zero and back to active when stock comes back (returns, corrections).
func (r *LedgerRepository) refreshBatchStatus(tx *gorm.DB, batchID types.SnowflakeID) error {
	var batch models.Batch
	if err := tx.Where("id = ?", batchID).First(&batch).Error; err != nil {
		return err
	}

	var available int
	err := tx.Model(&models.StockRecord{}).
		Select("COALESCE(SUM(stock_records.qty_available), 0)").
		Joins("INNER JOIN locations ON locations.id = stock_records.location_id").
		Where("stock_records.batch_id = ?", batchID).
		Where("locations.location_type <> ?", models.LocationTypeQuarantine).
		Scan(&available).Error
	if err != nil {
		return err
	}

	switch {
	case available <= 0 && batch.Status == models.BatchStatusActive:
		return tx.Model(&batch).Update("status", models.BatchStatusDepleted).Error
	case available > 0 && batch.Status == models.BatchStatusDepleted:
		return tx.Model(&batch).Update("status", models.BatchStatusActive).Error
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
