package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogservice/pkg/catalog/domain/model"
)

func TestCategoryStatistics(t *testing.T) {
	f := setup()
	ctx := context.Background()
	vendor := f.vendor(t, "TechCorp")
	f.product(t, vendor.ID, model.Mobile, "1.00", 1)
	f.product(t, vendor.ID, model.Mobile, "1.00", 0)
	f.product(t, vendor.ID, model.Laptop, "1.00", 1)
	f.product(t, vendor.ID, model.Laptop, "1.00", 1)
	f.product(t, vendor.ID, model.Laptop, "1.00", 1)
	f.product(t, vendor.ID, model.Desktop, "1.00", 1)

	stats, err := f.aggregations.CategoryStatistics(ctx)

	require.NoError(t, err)
	assert.Equal(t, []model.CategoryCount{
		{Category: model.Laptop, Count: 3},
		{Category: model.Mobile, Count: 2},
		{Category: model.Desktop, Count: 1},
	}, stats)

	total := 0
	for _, s := range stats {
		total += s.Count
	}
	assert.Equal(t, 6, total)
}

func TestCategoryStatisticsBreaksTiesByName(t *testing.T) {
	f := setup()
	vendor := f.vendor(t, "TechCorp")
	f.product(t, vendor.ID, model.Mobile, "1.00", 1)
	f.product(t, vendor.ID, model.Desktop, "1.00", 1)

	stats, err := f.aggregations.CategoryStatistics(context.Background())

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, model.Desktop, stats[0].Category)
	assert.Equal(t, model.Mobile, stats[1].Category)
}

func TestVendorsWithProductCount(t *testing.T) {
	f := setup()
	techCorp := f.vendor(t, "TechCorp")
	electroWorld := f.vendor(t, "ElectroWorld")
	gadgetHub := f.vendor(t, "GadgetHub")
	f.product(t, techCorp.ID, model.Mobile, "1.00", 1)
	f.product(t, gadgetHub.ID, model.Mobile, "1.00", 0)
	f.product(t, gadgetHub.ID, model.Laptop, "1.00", 1)
	f.product(t, gadgetHub.ID, model.Desktop, "1.00", 1)

	counts, err := f.aggregations.VendorsWithProductCount(context.Background())

	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, gadgetHub.ID, counts[0].Vendor.ID)
	assert.Equal(t, 3, counts[0].ProductCount)
	assert.Equal(t, techCorp.ID, counts[1].Vendor.ID)
	assert.Equal(t, 1, counts[1].ProductCount)
	assert.Equal(t, electroWorld.ID, counts[2].Vendor.ID)
	assert.Equal(t, 0, counts[2].ProductCount)
}

func TestProductsWithCustomerCount(t *testing.T) {
	f := setup()
	ctx := context.Background()
	vendor := f.vendor(t, "TechCorp")
	rahul := f.customer(t, "Rahul")
	priya := f.customer(t, "Priya")
	phone := f.product(t, vendor.ID, model.Mobile, "10.00", 10)
	laptop := f.product(t, vendor.ID, model.Laptop, "20.00", 10)

	for _, customerID := range []uuid.UUID{rahul.ID, rahul.ID, priya.ID} {
		_, err := f.purchases.Purchase(ctx, customerID, phone.ID, 1)
		require.NoError(t, err)
	}

	counts, err := f.aggregations.ProductsWithCustomerCount(ctx)

	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, phone.ID, counts[0].Product.ID)
	assert.Equal(t, 2, counts[0].CustomerCount)
	assert.Equal(t, 7, counts[0].Product.StockQuantity)
	assert.Equal(t, laptop.ID, counts[1].Product.ID)
	assert.Equal(t, 0, counts[1].CustomerCount)
}

func TestAggregationsOnEmptyStore(t *testing.T) {
	f := setup()
	ctx := context.Background()

	stats, err := f.aggregations.CategoryStatistics(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)

	vendors, err := f.aggregations.VendorsWithProductCount(ctx)
	require.NoError(t, err)
	assert.Empty(t, vendors)

	products, err := f.aggregations.ProductsWithCustomerCount(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}
