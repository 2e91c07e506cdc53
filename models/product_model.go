package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	ItemCode  string          `json:"item_code" gorm:"unique;not null" validate:"required"`
	ItemName  string          `json:"item_name" gorm:"not null" validate:"required"`
	Barcode   string          `json:"barcode"`
	Uom       string          `json:"uom" gorm:"default:PCS"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);default:0"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
}
