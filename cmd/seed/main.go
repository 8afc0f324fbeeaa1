package main

import (
	"context"
	"log"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database/migration"
	"jobboard/internal/database/seeder"
	dbpostgres "jobboard/internal/database/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db.SQLDB()); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	runner := seeder.Runner{Seeders: []seeder.Seeder{
		seeder.SkillsSeeder{},
	}}
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	log.Println("seeding complete")
}
