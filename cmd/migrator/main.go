package main

import (
	"log"

	"github.com/SriGanesh737/employee-api/internal/config"
	"github.com/SriGanesh737/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

const migrationsDir = "migrations"

func main() {
	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if migrationErr := goose.Up(dtb, migrationsDir); migrationErr != nil {
		log.Fatalf("Failed to apply migrations: %v", migrationErr)
	}

	log.Println("Migrations applied successfully")
}
