package controllers

import (
	"errors"
	"fmt"

	"wms-engine/repositories"
	"wms-engine/utils"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

func (c *OrderController) CreateOrder(ctx *fiber.Ctx) error {
	var input struct {
		CustomerID  uint                          `json:"customer_id"`
		WarehouseID uint                          `json:"warehouse_id" validate:"required"`
		OrderDate   string                        `json:"order_date"`
		Remarks     string                        `json:"remarks"`
		Lines       []repositories.OrderLineInput `json:"lines" validate:"required,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.CreateOrder(input.WarehouseID, input.CustomerID, input.OrderDate, input.Remarks, input.Lines, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sales order created successfully",
		"data":    order,
	})
}

func (c *OrderController) GetOrder(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.GetOrder(uint(id))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sales order found",
		"data":    order,
	})
}

func (c *OrderController) ConfirmOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Order confirmed", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.Confirm(id, actor)
	})
}

// ReserveOrder allocates stock and creates the pick list. A shortage flags
// the order backordered and alerts purchasing.
func (c *OrderController) ReserveOrder(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Policy string `json:"policy"`
	}
	// body is optional, default policy applies
	_ = ctx.BodyParser(&input)

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.Reserve(uint(id), input.Policy, actorID(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientAllocatable) {
			utils.SendBackorderAlert(fmt.Sprintf("order %d", id), err.Error())
		}
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock reserved, pick list created",
		"data":    order,
	})
}

func (c *OrderController) StartPicking(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Picking started", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.StartPicking(id, actor)
	})
}

func (c *OrderController) CompletePicking(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Picking completed", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.CompletePicking(id, actor)
	})
}

func (c *OrderController) StartPacking(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Packing started", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.StartPacking(id, actor)
	})
}

func (c *OrderController) CompletePacking(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Packing completed", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.CompletePacking(id, actor)
	})
}

func (c *OrderController) ShipOrder(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Carrier    string `json:"carrier"`
		TrackingNo string `json:"tracking_no"`
	}
	_ = ctx.BodyParser(&input)

	repo := repositories.NewOrderRepository(c.DB)
	order, err := repo.Ship(uint(id), input.Carrier, input.TrackingNo, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Order shipped",
		"data":    order,
	})
}

func (c *OrderController) DeliverOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Order delivered", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.Deliver(id, actor)
	})
}

func (c *OrderController) CancelOrder(ctx *fiber.Ctx) error {
	return c.transition(ctx, "Order cancelled, reservations released", func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error) {
		return repo.Cancel(id, actor)
	})
}

func (c *OrderController) transition(ctx *fiber.Ctx, message string, fn func(repo *repositories.OrderRepository, id uint, actor int) (interface{}, error)) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewOrderRepository(c.DB)
	order, err := fn(repo, uint(id), actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    order,
	})
}
