package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"filedesk/internal/config"
	"filedesk/internal/repository/postgres"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [up|down|status]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	db, err := postgres.OpenSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator, err := postgres.NewMigrator(db, postgres.NewTableNames(cfg.TablePrefix))
	if err != nil {
		log.Fatalf("Failed to prepare migrations: %v", err)
	}

	log.Printf("Running %q (environment: %s, prefix: %s)", command, cfg.Environment, cfg.TablePrefix)

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		if cfg.Environment == "prod" {
			log.Fatal("BLOCKED: refusing to roll back migrations in production")
		}
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
