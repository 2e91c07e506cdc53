package main

import (
	"log"

	"wms-engine/config"
	"wms-engine/controllers/idgen"
	"wms-engine/database"
	"wms-engine/migration"
	"wms-engine/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()

	config.EnsureDatabaseExists(config.DBName)

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	migration.Migrate(db)
	database.SeedAll(db)

	idgen.Init()

	app := fiber.New()
	config.SetupCORS(app)
	routes.SetupRoutes(app, db)

	log.Fatal(app.Listen(":" + config.APP_PORT))
}
