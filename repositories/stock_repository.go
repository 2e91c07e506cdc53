package repositories

import (
	"wms-engine/types"

	"gorm.io/gorm"
)

// StockRepository is the read side: aggregated views over the stock records
// for the API and the excel export. It never writes.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// StockSummary is one row of the per-item warehouse view.
type StockSummary struct {
	ItemID         uint   `json:"item_id"`
	ItemCode       string `json:"item_code"`
	ItemName       string `json:"item_name"`
	WarehouseID    uint   `json:"warehouse_id"`
	WhsCode        string `json:"whs_code"`
	QtyOnhand      int    `json:"qty_onhand"`
	QtyReserved    int    `json:"qty_reserved"`
	QtyAvailable   int    `json:"qty_available"`
	QtyQuarantined int    `json:"qty_quarantined"`
}

// GetStockSummary aggregates onhand, reserved and available per item and
// warehouse. Quarantined quantity is carried separately so it is visible
// without ever counting as available.
func (r *StockRepository) GetStockSummary(warehouseID uint) ([]StockSummary, error) {
	var results []StockSummary

	query := `
		WITH stock AS (
			SELECT
				sr.item_id,
				sr.warehouse_id,
				SUM(CASE WHEN l.location_type <> 'quarantine' THEN sr.qty_onhand ELSE 0 END) AS qty_onhand,
				SUM(CASE WHEN l.location_type <> 'quarantine' THEN sr.qty_reserved ELSE 0 END) AS qty_reserved,
				SUM(CASE WHEN l.location_type <> 'quarantine' THEN sr.qty_available ELSE 0 END) AS qty_available,
				SUM(CASE WHEN l.location_type = 'quarantine' THEN sr.qty_onhand ELSE 0 END) AS qty_quarantined
			FROM stock_records sr
			INNER JOIN locations l ON l.id = sr.location_id
			GROUP BY sr.item_id, sr.warehouse_id
		)
		SELECT
			s.item_id,
			p.item_code,
			p.item_name,
			s.warehouse_id,
			w.whs_code,
			s.qty_onhand,
			s.qty_reserved,
			s.qty_available,
			s.qty_quarantined
		FROM stock s
		INNER JOIN products p ON p.id = s.item_id
		INNER JOIN warehouses w ON w.id = s.warehouse_id
	`

	args := []interface{}{}
	if warehouseID != 0 {
		query += " WHERE s.warehouse_id = ?"
		args = append(args, warehouseID)
	}
	query += " ORDER BY p.item_code ASC, w.whs_code ASC"

	if err := r.db.Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// BatchStockRow is the per-batch breakdown behind one summary row.
type BatchStockRow struct {
	BatchID      types.SnowflakeID `json:"batch_id"`
	BatchNo      string            `json:"batch_no"`
	BatchStatus  string            `json:"batch_status"`
	ExpiryDate   string            `json:"expiry_date"`
	LocationID   uint              `json:"location_id"`
	LocationCode string            `json:"location_code"`
	LocationType string            `json:"location_type"`
	QtyOnhand    int               `json:"qty_onhand"`
	QtyReserved  int               `json:"qty_reserved"`
	QtyAvailable int               `json:"qty_available"`
}

// GetBatchStock lists every batch and location holding one item, quarantine
// rows included and flagged by location type.
func (r *StockRepository) GetBatchStock(itemID, warehouseID uint) ([]BatchStockRow, error) {
	var results []BatchStockRow

	query := `
		SELECT
			sr.batch_id,
			COALESCE(b.batch_no, '') AS batch_no,
			COALESCE(b.status, '') AS batch_status,
			COALESCE(b.expiry_date, '') AS expiry_date,
			sr.location_id,
			l.location_code,
			l.location_type,
			sr.qty_onhand,
			sr.qty_reserved,
			sr.qty_available
		FROM stock_records sr
		INNER JOIN locations l ON l.id = sr.location_id
		LEFT JOIN batches b ON b.id = sr.batch_id
		WHERE sr.item_id = ? AND sr.warehouse_id = ? AND sr.qty_onhand <> 0
		ORDER BY b.expiry_date ASC, b.batch_no ASC
	`

	if err := r.db.Raw(query, itemID, warehouseID).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
