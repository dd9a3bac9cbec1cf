package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event interface {
	Type() string
}

type EventDispatcher interface {
	Dispatch(event Event) error
}

type ProductPurchased struct {
	PurchaseID    uuid.UUID
	CustomerID    uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	TotalCost     decimal.Decimal
	StockQuantity int
}

func (e ProductPurchased) Type() string { return "ProductPurchased" }

type ProductCreated struct {
	ProductID uuid.UUID
	VendorID  uuid.UUID
	Title     string
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductReplaced struct {
	ProductID uuid.UUID
}

func (e ProductReplaced) Type() string { return "ProductReplaced" }

type ProductRestocked struct {
	ProductID    uuid.UUID
	ChangeAmount int
	NewQuantity  int
}

func (e ProductRestocked) Type() string { return "ProductRestocked" }

type VendorCreated struct {
	VendorID uuid.UUID
	Name     string
}

func (e VendorCreated) Type() string { return "VendorCreated" }

type CustomerCreated struct {
	CustomerID uuid.UUID
	Name       string
}

func (e CustomerCreated) Type() string { return "CustomerCreated" }
