// Command seed-db applies the schema and loads the initial product catalog.
// Seeding is skipped when the products table already has rows, so it is safe
// to run on every deploy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/starshard/storefront/db"
	"github.com/starshard/storefront/internal/repository"
)

type productJSON struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "", "path to products JSON file (default: embedded seed)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	seed := db.ProductSeed
	if productsFile != "" {
		data, err := os.ReadFile(productsFile)
		if err != nil {
			return errors.Wrap(err, "read products file")
		}
		seed = data
	}

	var products []productJSON
	if err := json.Unmarshal(seed, &products); err != nil {
		return errors.Wrap(err, "parse products")
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return errors.Wrap(err, "count products")
	}
	if count > 0 {
		slog.Info("products already seeded, skipping", "count", count)
		return nil
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (name, price, image) VALUES ($1, $2, $3)`,
			p.Name, p.Price, p.Image,
		)
		if err != nil {
			return errors.Wrapf(err, "insert product %q", p.Name)
		}
	}

	slog.Info("seeded products", "count", len(products))
	return nil
}
