package controllers

import (
	"fmt"
	"time"

	"wms-engine/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type StockController struct {
	DB *gorm.DB
}

func NewStockController(db *gorm.DB) *StockController {
	return &StockController{DB: db}
}

func (c *StockController) GetStockSummary(ctx *fiber.Ctx) error {
	warehouseID := ctx.QueryInt("warehouse_id", 0)

	repo := repositories.NewStockRepository(c.DB)
	summary, err := repo.GetStockSummary(uint(warehouseID))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Stock summary found",
		"data":    summary,
	})
}

func (c *StockController) GetBatchStock(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("item_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	warehouseID := ctx.QueryInt("warehouse_id", 0)
	if warehouseID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "warehouse_id is required"})
	}

	repo := repositories.NewStockRepository(c.DB)
	rows, err := repo.GetBatchStock(uint(itemID), uint(warehouseID))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Batch stock found",
		"data":    rows,
	})
}

func (c *StockController) GetLedgerHistory(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("item_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	limit := ctx.QueryInt("limit", 100)

	repo := repositories.NewLedgerRepository(c.DB)
	entries, err := repo.History(uint(itemID), limit)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Ledger history found",
		"data":    entries,
	})
}

// ReplayStock recomputes the projection from the raw ledger so auditors can
// compare it against the live stock records.
func (c *StockController) ReplayStock(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("item_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	warehouseID := ctx.QueryInt("warehouse_id", 0)
	if warehouseID == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "warehouse_id is required"})
	}

	repo := repositories.NewLedgerRepository(c.DB)
	records, err := repo.Replay(uint(itemID), uint(warehouseID))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Replay computed",
		"data":    records,
	})
}

// ExportStockExcel streams the stock summary as an xlsx download.
func (c *StockController) ExportStockExcel(ctx *fiber.Ctx) error {
	warehouseID := ctx.QueryInt("warehouse_id", 0)

	repo := repositories.NewStockRepository(c.DB)
	summary, err := repo.GetStockSummary(uint(warehouseID))
	if err != nil {
		return respondError(ctx, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Stock"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Item Code", "Item Name", "Warehouse", "Onhand", "Reserved", "Available", "Quarantined"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, row := range summary {
		values := []interface{}{
			row.ItemCode, row.ItemName, row.WhsCode,
			row.QtyOnhand, row.QtyReserved, row.QtyAvailable, row.QtyQuarantined,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("stock_%s.xlsx", time.Now().Format("20060102_150405"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}
