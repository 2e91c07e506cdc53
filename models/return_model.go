package models

import (
	"gorm.io/gorm"
)

const (
	ReturnStatusOpen              = "open"
	ReturnStatusPartiallyReceived = "partially_received"
	ReturnStatusCompleted         = "completed"
)

// ReturnHeader is an RMA against a sales order. Its lifecycle is independent
// of the originating order's terminal state.
type ReturnHeader struct {
	gorm.Model
	ReturnNo     string       `json:"return_no" gorm:"uniqueIndex;not null"`
	SalesOrderID uint         `json:"sales_order_id" gorm:"index;not null"`
	WarehouseID  uint         `json:"warehouse_id" gorm:"not null"`
	Status       string       `json:"status" gorm:"default:open"`
	Remarks      string       `json:"remarks"`
	Lines        []ReturnLine `json:"lines" gorm:"foreignKey:ReturnID"`
	CreatedBy    int
	UpdatedBy    int
}

type ReturnLine struct {
	gorm.Model
	ReturnID         uint   `json:"return_id" gorm:"index;not null"`
	SalesOrderLineID uint   `json:"sales_order_line_id" gorm:"not null"`
	ItemID           uint   `json:"item_id" gorm:"not null"`
	ItemCode         string `json:"item_code"`
	Quantity         int    `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	Reason           string `json:"reason"`
	ConditionStatus  string `json:"condition_status"`
	Received         bool   `json:"received" gorm:"default:false"`
}
