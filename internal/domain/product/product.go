package product

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
}

// Repository defines read operations for the product catalog. Catalog
// management lives outside this service.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
}
