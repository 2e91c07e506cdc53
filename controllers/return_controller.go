package controllers

import (
	"wms-engine/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReturnController struct {
	DB *gorm.DB
}

func NewReturnController(db *gorm.DB) *ReturnController {
	return &ReturnController{DB: db}
}

func (c *ReturnController) CreateReturn(ctx *fiber.Ctx) error {
	var input struct {
		SalesOrderID uint                           `json:"sales_order_id" validate:"required"`
		Remarks      string                         `json:"remarks"`
		Lines        []repositories.ReturnLineInput `json:"lines" validate:"required,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewReturnRepository(c.DB)
	ret, err := repo.CreateReturn(input.SalesOrderID, input.Lines, input.Remarks, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Return created successfully",
		"data":    ret,
	})
}

func (c *ReturnController) ReceiveReturn(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var input struct {
		Lines []repositories.ReceiveReturnInput `json:"lines" validate:"required,dive"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewReturnRepository(c.DB)
	ret, err := repo.ReceiveReturn(uint(id), input.Lines, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Return received successfully",
		"data":    ret,
	})
}
