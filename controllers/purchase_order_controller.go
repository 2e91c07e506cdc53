package controllers

import (
	"wms-engine/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PurchaseOrderController struct {
	DB *gorm.DB
}

func NewPurchaseOrderController(db *gorm.DB) *PurchaseOrderController {
	return &PurchaseOrderController{DB: db}
}

func (c *PurchaseOrderController) CreatePO(ctx *fiber.Ctx) error {
	var input struct {
		SupplierID  uint                       `json:"supplier_id"`
		WarehouseID uint                       `json:"warehouse_id" validate:"required"`
		PODate      string                     `json:"po_date"`
		Lines       []repositories.POLineInput `json:"lines" validate:"required,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewPurchaseOrderRepository(c.DB)
	po, err := repo.CreatePO(input.SupplierID, input.WarehouseID, input.PODate, input.Lines, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase order created successfully",
		"data":    po,
	})
}

func (c *PurchaseOrderController) ApprovePO(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewPurchaseOrderRepository(c.DB)
	po, err := repo.Approve(uint(id), actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase order approved",
		"data":    po,
	})
}

func (c *PurchaseOrderController) GetPO(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	repo := repositories.NewPurchaseOrderRepository(c.DB)
	po, err := repo.GetPO(uint(id))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase order found",
		"data":    po,
	})
}

func (c *PurchaseOrderController) GetAllPOs(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	repo := repositories.NewPurchaseOrderRepository(c.DB)
	pos, err := repo.ListPOs(limit)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Purchase orders found",
		"data":    pos,
	})
}
