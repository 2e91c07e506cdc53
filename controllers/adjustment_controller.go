package controllers

import (
	"wms-engine/models"
	"wms-engine/repositories"
	"wms-engine/utils"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdjustmentController struct {
	DB *gorm.DB
}

func NewAdjustmentController(db *gorm.DB) *AdjustmentController {
	return &AdjustmentController{DB: db}
}

func (c *AdjustmentController) CreateAdjustment(ctx *fiber.Ctx) error {
	var input repositories.AdjustInput

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewAdjustmentRepository(c.DB)
	adjustment, err := repo.Adjust(input, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustment posted successfully",
		"data":    adjustment,
	})
}

func (c *AdjustmentController) GetAllAdjustments(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	repo := repositories.NewAdjustmentRepository(c.DB)
	adjustments, err := repo.ListAdjustments(limit)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Adjustments found",
		"data":    adjustments,
	})
}

// CreateCycleCount records a physical count. A variance posts the correcting
// adjustment and alerts the configured recipients.
func (c *AdjustmentController) CreateCycleCount(ctx *fiber.Ctx) error {
	var input repositories.CycleCountInput

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewAdjustmentRepository(c.DB)
	count, err := repo.RecordCycleCount(input, actorID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	if count.Discrepancy != 0 {
		var product models.Product
		itemCode := ""
		if err := c.DB.First(&product, "id = ?", count.ItemID).Error; err == nil {
			itemCode = product.ItemCode
		}
		utils.SendVarianceAlert(count.CountNo, itemCode, count.ExpectedQty, count.CountedQty)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Cycle count recorded",
		"data":    count,
	})
}

func (c *AdjustmentController) GetAllCycleCounts(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	repo := repositories.NewAdjustmentRepository(c.DB)
	counts, err := repo.ListCycleCounts(limit)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Cycle counts found",
		"data":    counts,
	})
}
