package database

import (
	"log"

	"wms-engine/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll fills an empty database with the minimum working set: the admin
// user, one warehouse with its three system locations and a few products.
// Every seeder is idempotent.
func SeedAll(db *gorm.DB) {
	SeedUsers(db)
	SeedWarehouses(db)
	SeedProducts(db)
}

func SeedUsers(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	admin := models.User{
		Username: "admin",
		Name:     "Administrator",
		Email:    "admin@example.com",
		Password: string(hashed),
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}
	log.Println("Seeded admin user")
}

func SeedWarehouses(db *gorm.DB) {
	var count int64
	db.Model(&models.Warehouse{}).Count(&count)
	if count > 0 {
		return
	}

	warehouse := models.Warehouse{
		WhsCode:  "WH01",
		Name:     "Main Warehouse",
		IsActive: true,
	}
	if err := db.Create(&warehouse).Error; err != nil {
		log.Fatal("Failed to seed warehouse: ", err)
	}

	locations := []models.Location{
		{WarehouseID: warehouse.ID, LocationCode: "STG-01", LocationType: models.LocationTypeStorage, IsActive: true},
		{WarehouseID: warehouse.ID, LocationCode: "QRT-01", LocationType: models.LocationTypeQuarantine, IsActive: true},
		{WarehouseID: warehouse.ID, LocationCode: "RTN-01", LocationType: models.LocationTypeReturns, IsActive: true},
	}
	for _, location := range locations {
		if err := db.Create(&location).Error; err != nil {
			log.Fatal("Failed to seed location: ", err)
		}
	}
	log.Println("Seeded warehouse and locations")
}

func SeedProducts(db *gorm.DB) {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}

	products := []models.Product{
		{ItemCode: "ITM-0001", ItemName: "Boxed Widget", Uom: "PCS", UnitPrice: decimal.NewFromInt(25), IsActive: true},
		{ItemCode: "ITM-0002", ItemName: "Bulk Fastener", Uom: "PCS", UnitPrice: decimal.NewFromInt(3), IsActive: true},
		{ItemCode: "ITM-0003", ItemName: "Sealed Compound", Uom: "PCS", UnitPrice: decimal.NewFromInt(112), IsActive: true},
	}
	for _, product := range products {
		if err := db.Create(&product).Error; err != nil {
			log.Fatal("Failed to seed product: ", err)
		}
	}
	log.Println("Seeded products")
}
