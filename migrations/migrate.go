package main

import (
	"log"
	"os"

	"autobooks/src/config"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Fatalf("Error loading config for environment: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Databases.SQL.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB from GORM DB: %v", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set migration dialect: %v", err)
	}

	command, args := "up", []string{}
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}
	if err := goose.Run(command, sqlDB, "./migrations", args...); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Database migration %q completed successfully", command)
}
