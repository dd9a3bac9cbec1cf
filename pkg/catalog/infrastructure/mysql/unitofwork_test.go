package mysql

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
)

const testDSNEnv = "CATALOG_TEST_MYSQL_DSN"

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&mysqldriver.MySQLError{Number: errDeadlock}))
	assert.True(t, isRetryable(errors.WithMessage(&mysqldriver.MySQLError{Number: errLockWaitTimeout}, "purchase")))
	assert.False(t, isRetryable(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, isRetryable(model.ErrProductNotFound))
	assert.False(t, isRetryable(nil))
}

func TestDSN(t *testing.T) {
	dsn := DSN(Config{User: "catalog", Password: "secret", Host: "db:3306", Database: "catalog"})

	cfg, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "catalog", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "catalog", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
}

func openTestDB(t *testing.T) *sqlx.DB {
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s is not set", testDSNEnv)
	}

	db, err := Open(context.Background(), dsn, 10, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))

	for _, table := range []string{"purchase_record", "product", "customer", "vendor"} {
		_, err = db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return db
}

func seed(t *testing.T, uow service.UnitOfWork, stock int) (model.Vendor, model.Customer, model.Product) {
	var (
		vendor   model.Vendor
		customer model.Customer
		product  model.Product
	)
	err := uow.Execute(context.Background(), func(provider service.RepositoryProvider) error {
		vendor = model.Vendor{ID: uuid.New(), Name: "TechCorp", City: "Mumbai"}
		if err := provider.VendorRepository().Store(&vendor); err != nil {
			return err
		}
		customer = model.Customer{ID: uuid.New(), Name: "Rahul Sharma", City: "Mumbai"}
		if err := provider.CustomerRepository().Store(&customer); err != nil {
			return err
		}
		now := time.Now().UTC().Truncate(time.Microsecond)
		product = model.Product{
			ID:            uuid.New(),
			Title:         "iPhone 15 Pro",
			Category:      model.Mobile,
			Price:         decimal.RequireFromString("99999.00"),
			StockQuantity: stock,
			VendorID:      vendor.ID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return provider.ProductRepository().Store(&product)
	})
	require.NoError(t, err)
	return vendor, customer, product
}

func TestRepositories(t *testing.T) {
	uow := NewUnitOfWork(openTestDB(t))
	ctx := context.Background()
	vendor, customer, product := seed(t, uow, 10)

	err := uow.ExecuteReadOnly(ctx, func(provider service.RepositoryProvider) error {
		found, err := provider.ProductRepository().Find(product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Title, found.Title)
		assert.True(t, product.Price.Equal(found.Price))
		assert.Equal(t, vendor.ID, found.VendorID)

		_, err = provider.ProductRepository().Find(uuid.New())
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		_, err = provider.VendorRepository().Find(uuid.New())
		assert.ErrorIs(t, err, model.ErrVendorNotFound)

		foundCustomer, err := provider.CustomerRepository().Find(customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.Name, foundCustomer.Name)

		inRange, err := provider.ProductRepository().FindByPriceRange(decimal.RequireFromString("99999"), decimal.RequireFromString("99999"))
		require.NoError(t, err)
		assert.Len(t, inRange, 1)

		stats, err := provider.ProductRepository().CountByCategory()
		require.NoError(t, err)
		assert.Equal(t, []model.CategoryCount{{Category: model.Mobile, Count: 1}}, stats)

		counts, err := provider.ProductRepository().CountByVendor()
		require.NoError(t, err)
		assert.Equal(t, map[uuid.UUID]int{vendor.ID: 1}, counts)
		return nil
	})
	require.NoError(t, err)
}

func TestPurchaseRollbackAndCommit(t *testing.T) {
	uow := NewUnitOfWork(openTestDB(t))
	ctx := context.Background()
	_, customer, product := seed(t, uow, 10)
	dispatcher := &nopDispatcher{}
	purchases := service.NewPurchaseService(uow, dispatcher)

	record, err := purchases.Purchase(ctx, customer.ID, product.ID, 4)
	require.NoError(t, err)
	assert.True(t, record.TotalCost.Equal(decimal.RequireFromString("399996")))

	_, err = purchases.Purchase(ctx, customer.ID, product.ID, 7)
	var stockErr *model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Available)

	records, err := purchases.PurchasesByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].Quantity)

	counts, err := service.NewAggregationService(uow).ProductsWithCustomerCount(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].CustomerCount)
	assert.Equal(t, 6, counts[0].Product.StockQuantity)
}

func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	uow := NewUnitOfWork(openTestDB(t))
	ctx := context.Background()
	_, customer, product := seed(t, uow, 20)
	purchases := service.NewPurchaseService(uow, &nopDispatcher{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := purchases.Purchase(ctx, customer.ID, product.ID, 2)
			if err != nil {
				assert.ErrorIs(t, err, model.ErrInsufficientStock)
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	records, err := purchases.PurchasesByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, records, 10)
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(model.Event) error { return nil }
