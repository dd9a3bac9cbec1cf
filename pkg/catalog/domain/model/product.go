package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Category      Category
	Price         decimal.Decimal
	StockQuantity int
	VendorID      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MaxStockQuantity matches the INT stock_quantity column.
const MaxStockQuantity = math.MaxInt32

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Reserve takes quantity units out of stock.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.StockQuantity {
		return &InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: p.StockQuantity,
		}
	}
	p.StockQuantity -= quantity
	return nil
}

// Restock adds quantity units, refusing to go past MaxStockQuantity.
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxStockQuantity-p.StockQuantity {
		return ErrStockOverflow
	}
	p.StockQuantity += quantity
	return nil
}

type CategoryCount struct {
	Category Category
	Count    int
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	// Store creates the product or replaces it completely.
	Store(product *Product) error
	Find(id uuid.UUID) (*Product, error)
	// FindForUpdate locks the product until the surrounding unit of work ends.
	FindForUpdate(id uuid.UUID) (*Product, error)
	ListAll() ([]Product, error)
	FindByVendor(vendorID uuid.UUID) ([]Product, error)
	FindByPriceRange(min, max decimal.Decimal) ([]Product, error)
	CountByCategory() ([]CategoryCount, error)
	CountByVendor() (map[uuid.UUID]int, error)
}
