//go:build ignore

// Connects with the service configuration, applies the schema and reports row counts.
//
//	go run scripts/check_db.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"resinstore/internal/config"
	"resinstore/internal/database"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("schema check failed")
	}

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		logger.Fatal().Err(err).Msg("query failed")
	}

	counts := make(map[string]int64)
	for _, table := range []string{"products", "orders", "order_items"} {
		var n int64
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			logger.Fatal().Err(err).Str("table", table).Msg("count failed")
		}
		counts[table] = n
	}

	fmt.Printf("Connected to database: %s\n", dbName)
	fmt.Printf("  products:    %d\n", counts["products"])
	fmt.Printf("  orders:      %d\n", counts["orders"])
	fmt.Printf("  order_items: %d\n", counts["order_items"])
}
