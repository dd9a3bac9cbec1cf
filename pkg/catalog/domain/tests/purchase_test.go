package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
	"catalogservice/pkg/catalog/infrastructure/memory"
)

func TestPurchase(t *testing.T) {
	f := setup()
	ctx := context.Background()
	vendor := f.vendor(t, "TechCorp")
	customer := f.customer(t, "Rahul")
	product := f.product(t, vendor.ID, model.Mobile, "50.00", 10)

	t.Run("Success", func(t *testing.T) {
		f.dispatcher.Reset()
		record, err := f.purchases.Purchase(ctx, customer.ID, product.ID, 4)

		require.NoError(t, err)
		assert.Equal(t, customer.ID, record.CustomerID)
		assert.Equal(t, product.ID, record.ProductID)
		assert.Equal(t, 4, record.Quantity)
		assert.True(t, record.TotalCost.Equal(decimal.NewFromInt(200)), "total cost %s", record.TotalCost)
		assert.False(t, record.PurchasedAt.IsZero())
		assert.Equal(t, 6, f.stockOf(t, product.ID))

		events := f.dispatcher.Events()
		require.Len(t, events, 1)
		event := events[0].(model.ProductPurchased)
		assert.Equal(t, record.ID, event.PurchaseID)
		assert.Equal(t, 6, event.StockQuantity)
	})

	t.Run("Fail on insufficient stock", func(t *testing.T) {
		f.dispatcher.Reset()
		_, err := f.purchases.Purchase(ctx, customer.ID, product.ID, 7)

		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		var stockErr *model.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 6, stockErr.Available)
		assert.Equal(t, 7, stockErr.Requested)

		assert.Equal(t, 6, f.stockOf(t, product.ID))
		records, err := f.purchases.PurchasesByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Empty(t, f.dispatcher.Events())
	})

	t.Run("Buy out remaining stock", func(t *testing.T) {
		_, err := f.purchases.Purchase(ctx, customer.ID, product.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, 0, f.stockOf(t, product.ID))

		_, err = f.purchases.Purchase(ctx, customer.ID, product.ID, 1)
		var stockErr *model.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 0, stockErr.Available)
	})

	t.Run("Fail on non-positive quantity", func(t *testing.T) {
		for _, quantity := range []int{0, -5} {
			_, err := f.purchases.Purchase(ctx, customer.ID, product.ID, quantity)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
			assert.ErrorIs(t, err, model.ErrInvalidQuantity)
		}
	})

	t.Run("Fail on unknown product", func(t *testing.T) {
		_, err := f.purchases.Purchase(ctx, customer.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("Fail on unknown customer", func(t *testing.T) {
		restocked, err := f.catalog.RestockProduct(ctx, product.ID, 5)
		require.NoError(t, err)

		_, err = f.purchases.Purchase(ctx, uuid.New(), product.ID, 1)
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
		assert.Equal(t, restocked.StockQuantity, f.stockOf(t, product.ID))
	})

	t.Run("Fail on cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.purchases.Purchase(cancelled, customer.ID, product.ID, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPurchaseRollsBackWhenLedgerFails(t *testing.T) {
	f := setup()
	ctx := context.Background()
	vendor := f.vendor(t, "TechCorp")
	customer := f.customer(t, "Rahul")
	product := f.product(t, vendor.ID, model.Laptop, "1000.00", 5)

	f.dispatcher.Reset()
	purchases := service.NewPurchaseService(&failingLedgerUnitOfWork{Store: f.store}, f.dispatcher)
	_, err := purchases.Purchase(ctx, customer.ID, product.ID, 2)

	assert.ErrorIs(t, err, errLedgerUnavailable)
	assert.Equal(t, 5, f.stockOf(t, product.ID))
	assert.Empty(t, f.dispatcher.Events())

	records, err := f.purchases.PurchasesByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPurchaseHistory(t *testing.T) {
	f := setup()
	ctx := context.Background()
	vendor := f.vendor(t, "TechCorp")
	rahul := f.customer(t, "Rahul")
	priya := f.customer(t, "Priya")
	phone := f.product(t, vendor.ID, model.Mobile, "10.00", 10)
	laptop := f.product(t, vendor.ID, model.Laptop, "20.00", 10)

	_, err := f.purchases.Purchase(ctx, rahul.ID, phone.ID, 1)
	require.NoError(t, err)
	_, err = f.purchases.Purchase(ctx, rahul.ID, laptop.ID, 2)
	require.NoError(t, err)
	_, err = f.purchases.Purchase(ctx, priya.ID, phone.ID, 3)
	require.NoError(t, err)

	byRahul, err := f.purchases.PurchasesByCustomer(ctx, rahul.ID)
	require.NoError(t, err)
	require.Len(t, byRahul, 2)
	assert.Equal(t, phone.ID, byRahul[0].ProductID)
	assert.Equal(t, laptop.ID, byRahul[1].ProductID)

	byPhone, err := f.purchases.PurchasesByProduct(ctx, phone.ID)
	require.NoError(t, err)
	require.Len(t, byPhone, 2)
	assert.Equal(t, 1, byPhone[0].Quantity)
	assert.Equal(t, 3, byPhone[1].Quantity)

	_, err = f.purchases.PurchasesByCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	_, err = f.purchases.PurchasesByProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

var errLedgerUnavailable = errors.New("ledger unavailable")

type failingLedgerUnitOfWork struct {
	*memory.Store
}

func (u *failingLedgerUnitOfWork) Execute(ctx context.Context, f func(provider service.RepositoryProvider) error) error {
	return u.Store.Execute(ctx, func(provider service.RepositoryProvider) error {
		return f(failingLedgerProvider{RepositoryProvider: provider})
	})
}

type failingLedgerProvider struct {
	service.RepositoryProvider
}

func (p failingLedgerProvider) LedgerRepository() model.LedgerRepository {
	return failingLedger{LedgerRepository: p.RepositoryProvider.LedgerRepository()}
}

type failingLedger struct {
	model.LedgerRepository
}

func (failingLedger) Append(*model.PurchaseRecord) error {
	return errLedgerUnavailable
}
