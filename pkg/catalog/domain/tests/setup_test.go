package tests

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appservice "catalogservice/pkg/catalog/application/service"
	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
	"catalogservice/pkg/catalog/infrastructure/memory"
)

type fixture struct {
	store        *memory.Store
	catalog      appservice.CatalogService
	purchases    service.PurchaseService
	queries      service.QueryService
	aggregations service.AggregationService
	dispatcher   *mockEventDispatcher
}

func setup() *fixture {
	store := memory.NewStore()
	dispatcher := &mockEventDispatcher{}
	return &fixture{
		store:        store,
		catalog:      appservice.NewCatalogService(store, dispatcher),
		purchases:    service.NewPurchaseService(store, dispatcher),
		queries:      service.NewQueryService(store),
		aggregations: service.NewAggregationService(store),
		dispatcher:   dispatcher,
	}
}

func (f *fixture) vendor(t require.TestingT, name string) *model.Vendor {
	v, err := f.catalog.CreateVendor(context.Background(), name, "Mumbai")
	require.NoError(t, err)
	return v
}

func (f *fixture) customer(t require.TestingT, name string) *model.Customer {
	c, err := f.catalog.CreateCustomer(context.Background(), name, "Delhi")
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t require.TestingT, vendorID uuid.UUID, category model.Category, price string, stock int) *model.Product {
	p, err := f.catalog.CreateProduct(context.Background(), appservice.ProductInput{
		Title:         "Product " + price,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		VendorID:      vendorID,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stockOf(t require.TestingT, productID uuid.UUID) int {
	p, err := f.catalog.FindProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

func productIDs(products []model.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []model.Event
}

func (m *mockEventDispatcher) Dispatch(event model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func (m *mockEventDispatcher) Events() []model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Event(nil), m.events...)
}
