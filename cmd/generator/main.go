// cmd/generator/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"nox/internal/config"
	"nox/internal/db"
	"nox/internal/generator"
	"nox/internal/repository"
)

func main() {
	cfg := config.Load()

	weeks := flag.Int("weeks", cfg.GenerateWeeksAhead, "how many weeks ahead to generate instances for")
	dryRun := flag.Bool("dry-run", false, "compute the plan without writing anything")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	gen := generator.New(repository.NewEventRepository(database.DB), cfg.Location())
	report, err := gen.Generate(ctx, *weeks, *dryRun)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}
