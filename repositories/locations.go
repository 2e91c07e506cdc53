package repositories

import (
	"errors"

	"wms-engine/models"

	"gorm.io/gorm"
)

// defaultLocation resolves the warehouse's location of the given type.
// Warehouses are seeded with one storage, one quarantine and one returns
// location; receiving, damage and RMA intake post against these.
func defaultLocation(tx *gorm.DB, warehouseID uint, locationType string) (uint, error) {
	var location models.Location
	err := tx.Where("warehouse_id = ? AND location_type = ? AND is_active = ?",
		warehouseID, locationType, true).
		Order("id ASC").
		First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, validationError("warehouse %d has no %s location", warehouseID, locationType)
	}
	if err != nil {
		return 0, err
	}
	return location.ID, nil
}
