package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
)

func TestPurchaseSequenceMatchesStockModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := setup()
		ctx := context.Background()
		vendor := f.vendor(t, "TechCorp")
		customers := []*model.Customer{f.customer(t, "Rahul"), f.customer(t, "Priya")}

		productCount := rapid.IntRange(1, 3).Draw(t, "productCount")
		products := make([]*model.Product, 0, productCount)
		initial := make(map[uuid.UUID]int)
		expected := make(map[uuid.UUID]int)
		buyers := make(map[uuid.UUID]map[uuid.UUID]struct{})
		for i := 0; i < productCount; i++ {
			stock := rapid.IntRange(0, 20).Draw(t, "stock")
			cents := rapid.Int64Range(0, 1000000).Draw(t, "cents")
			p := f.product(t, vendor.ID, model.Mobile, decimal.New(cents, -2).StringFixed(2), stock)
			products = append(products, p)
			initial[p.ID] = stock
			expected[p.ID] = stock
			buyers[p.ID] = make(map[uuid.UUID]struct{})
		}

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			p := products[rapid.IntRange(0, productCount-1).Draw(t, "product")]
			c := customers[rapid.IntRange(0, len(customers)-1).Draw(t, "customer")]
			quantity := rapid.IntRange(-1, 8).Draw(t, "quantity")

			record, err := f.purchases.Purchase(ctx, c.ID, p.ID, quantity)
			switch {
			case quantity <= 0:
				require.ErrorIs(t, err, model.ErrInvalidArgument)
			case quantity > expected[p.ID]:
				var stockErr *model.InsufficientStockError
				require.True(t, errors.As(err, &stockErr))
				require.Equal(t, expected[p.ID], stockErr.Available)
			default:
				require.NoError(t, err)
				require.True(t, record.TotalCost.Equal(p.Price.Mul(decimal.NewFromInt(int64(quantity)))))
				expected[p.ID] -= quantity
				buyers[p.ID][c.ID] = struct{}{}
			}
		}

		counts, err := f.aggregations.ProductsWithCustomerCount(ctx)
		require.NoError(t, err)
		require.Len(t, counts, productCount)
		for _, count := range counts {
			id := count.Product.ID
			require.Equal(t, expected[id], count.Product.StockQuantity)
			require.Equal(t, len(buyers[id]), count.CustomerCount)

			records, err := f.purchases.PurchasesByProduct(ctx, id)
			require.NoError(t, err)
			require.Equal(t, initial[id]-expected[id], sumQuantity(records))
		}
	})
}

func TestSortByPricePagesCoverCatalog(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := setup()
		ctx := context.Background()
		vendor := f.vendor(t, "TechCorp")

		prices := rapid.SliceOfN(rapid.Int64Range(0, 50000), 0, 25).Draw(t, "prices")
		inStock := 0
		for _, cents := range prices {
			stock := rapid.IntRange(0, 3).Draw(t, "stock")
			if stock > 0 {
				inStock++
			}
			f.product(t, vendor.ID, model.Laptop, decimal.New(cents, -2).StringFixed(2), stock)
		}
		pageSize := rapid.IntRange(1, 6).Draw(t, "pageSize")
		direction := rapid.SampledFrom([]service.SortDirection{service.Ascending, service.Descending}).Draw(t, "direction")

		first, err := f.queries.SortByPrice(ctx, direction, 0, pageSize)
		require.NoError(t, err)
		require.Equal(t, inStock, first.TotalElements)
		require.Equal(t, (inStock+pageSize-1)/pageSize, first.TotalPages)

		var all []model.Product
		for page := 0; page < first.TotalPages; page++ {
			result, err := f.queries.SortByPrice(ctx, direction, page, pageSize)
			require.NoError(t, err)
			require.NotEmpty(t, result.Content)
			require.LessOrEqual(t, len(result.Content), pageSize)
			require.Equal(t, page == first.TotalPages-1, result.IsLastPage)
			all = append(all, result.Content...)
		}
		require.Len(t, all, inStock)

		for i := 1; i < len(all); i++ {
			require.True(t, all[i].InStock())
			if direction == service.Ascending {
				require.True(t, all[i-1].Price.LessThanOrEqual(all[i].Price))
			} else {
				require.True(t, all[i-1].Price.GreaterThanOrEqual(all[i].Price))
			}
		}

		beyond, err := f.queries.SortByPrice(ctx, direction, first.TotalPages, pageSize)
		require.NoError(t, err)
		assert.Empty(t, beyond.Content)
		assert.True(t, beyond.IsLastPage)
	})
}
