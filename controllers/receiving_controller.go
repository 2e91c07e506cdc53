package controllers

import (
	"wms-engine/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReceivingController struct {
	DB *gorm.DB
}

func NewReceivingController(db *gorm.DB) *ReceivingController {
	return &ReceivingController{DB: db}
}

// CreateReceipt raises a goods receipt against an approved purchase order.
func (c *ReceivingController) CreateReceipt(ctx *fiber.Ctx) error {
	var input struct {
		PurchaseOrderID uint `json:"purchase_order_id" validate:"required"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewReceivingRepository(c.DB)
	receipt, err := repo.CreateReceipt(input.PurchaseOrderID, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Goods receipt created successfully",
		"data":    receipt,
	})
}

// ReceiveItems posts the arrived quantities of a receipt into stock.
func (c *ReceivingController) ReceiveItems(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Lines []repositories.ReceiveLineInput `json:"lines" validate:"required,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewReceivingRepository(c.DB)
	receipt, err := repo.ReceiveItems(uint(id), input.Lines, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Items received successfully",
		"data":    receipt,
	})
}
