package models

import (
	"wms-engine/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sales order fulfillment states. Transitions are controlled by the
// transition table in the order repository; nothing else writes Status.
const (
	OrderStatusDraft             = "draft"
	OrderStatusConfirmed         = "confirmed"
	OrderStatusPickListCreated   = "pick_list_created"
	OrderStatusPickingInProgress = "picking_in_progress"
	OrderStatusPicked            = "picked"
	OrderStatusPackingInProgress = "packing_in_progress"
	OrderStatusPacked            = "packed"
	OrderStatusShipped           = "shipped"
	OrderStatusDelivered         = "delivered"
	OrderStatusCancelled         = "cancelled"
)

const (
	PickLineStatusPending  = "pending"
	PickLineStatusPicked   = "picked"
	PickLineStatusReleased = "released"
)

type SalesOrder struct {
	gorm.Model
	OrderNo     string           `json:"order_no" gorm:"uniqueIndex;not null"`
	CustomerID  uint             `json:"customer_id"`
	WarehouseID uint             `json:"warehouse_id" gorm:"not null"`
	OrderDate   string           `json:"order_date"`
	Status      string           `json:"status" gorm:"default:draft"`
	Backordered bool             `json:"backordered" gorm:"default:false"`
	Remarks     string           `json:"remarks"`
	Lines       []SalesOrderLine `json:"lines" gorm:"foreignKey:SalesOrderID"`
	CreatedBy   int
	UpdatedBy   int
}

type SalesOrderLine struct {
	gorm.Model
	SalesOrderID uint            `json:"sales_order_id" gorm:"index;not null"`
	ItemID       uint            `json:"item_id" gorm:"not null"`
	ItemCode     string          `json:"item_code"`
	Quantity     int             `json:"quantity" gorm:"not null" validate:"required,gt=0"`
	QtyReserved  int             `json:"qty_reserved" gorm:"default:0"`
	QtyPicked    int             `json:"qty_picked" gorm:"default:0"`
	QtyReturned  int             `json:"qty_returned" gorm:"default:0"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2);default:0"`
}

// PickList materializes the allocator's plan: one line per
// (order line, batch, location) with the reserved quantity.
type PickList struct {
	gorm.Model
	PickListNo   string         `json:"pick_list_no" gorm:"uniqueIndex;not null"`
	SalesOrderID uint           `json:"sales_order_id" gorm:"index;not null"`
	Status       string         `json:"status" gorm:"default:open"`
	Lines        []PickListLine `json:"lines" gorm:"foreignKey:PickListID"`
	CreatedBy    int
}

type PickListLine struct {
	gorm.Model
	PickListID       uint              `json:"pick_list_id" gorm:"index;not null"`
	SalesOrderLineID uint              `json:"sales_order_line_id" gorm:"not null"`
	ItemID           uint              `json:"item_id" gorm:"not null"`
	BatchID          types.SnowflakeID `json:"batch_id" gorm:"not null"`
	LocationID       uint              `json:"location_id" gorm:"not null"`
	Quantity         int               `json:"quantity" gorm:"not null"`
	Status           string            `json:"status" gorm:"default:pending"`
	PickedBy         int
}

type PackingTask struct {
	gorm.Model
	PackingNo    string `json:"packing_no" gorm:"uniqueIndex;not null"`
	SalesOrderID uint   `json:"sales_order_id" gorm:"index;not null"`
	Status       string `json:"status" gorm:"default:open"`
	PackedBy     int
}

type Shipment struct {
	gorm.Model
	ShipmentNo   string `json:"shipment_no" gorm:"uniqueIndex;not null"`
	SalesOrderID uint   `json:"sales_order_id" gorm:"index;not null"`
	Carrier      string `json:"carrier"`
	TrackingNo   string `json:"tracking_no"`
	DispatchDate string `json:"dispatch_date"`
	CreatedBy    int
}
