package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRecord is a ledger entry. It is written once and never changed.
type PurchaseRecord struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	TotalCost   decimal.Decimal
	PurchasedAt time.Time
}

// LedgerRepository is append-only: there is no update or delete.
type LedgerRepository interface {
	NextID() (uuid.UUID, error)
	Append(record *PurchaseRecord) error
	FindByCustomer(customerID uuid.UUID) ([]PurchaseRecord, error)
	FindByProduct(productID uuid.UUID) ([]PurchaseRecord, error)
	CountDistinctCustomersByProduct() (map[uuid.UUID]int, error)
}
