package models

import (
	"gorm.io/gorm"
)

// Location types. Quarantine holds damaged stock, returns holds RMA intake.
const (
	LocationTypeStorage    = "storage"
	LocationTypeQuarantine = "quarantine"
	LocationTypeReturns    = "returns"
)

type Warehouse struct {
	gorm.Model
	WhsCode     string `json:"whs_code" gorm:"unique;not null" validate:"required"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}

type Location struct {
	gorm.Model
	WarehouseID  uint   `json:"warehouse_id" gorm:"index;not null"`
	LocationCode string `json:"location_code" gorm:"not null" validate:"required"`
	LocationType string `json:"location_type" gorm:"default:storage"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
}
