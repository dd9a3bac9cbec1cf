package service

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"catalogservice/pkg/catalog/domain/model"
	domainservice "catalogservice/pkg/catalog/domain/service"
)

type sampleProduct struct {
	title       string
	description string
	category    model.Category
	price       string
	stock       int
	vendor      int
}

var (
	sampleVendors = [][2]string{
		{"TechCorp", "Mumbai"},
		{"ElectroWorld", "Delhi"},
		{"GadgetHub", "Bangalore"},
	}
	sampleProducts = []sampleProduct{
		{"iPhone 15 Pro", "Latest Apple smartphone with A17 Pro chip", model.Mobile, "99999.00", 50, 0},
		{"Samsung Galaxy S24", "Premium Android smartphone", model.Mobile, "79999.00", 30, 1},
		{"OnePlus 12", "Flagship killer smartphone", model.Mobile, "64999.00", 25, 2},
		{"MacBook Pro M3", "Professional laptop for developers", model.Laptop, "199999.00", 15, 0},
		{"Dell XPS 13", "Ultra-portable business laptop", model.Laptop, "89999.00", 20, 1},
		{"HP Spectre x360", "2-in-1 convertible laptop", model.Laptop, "109999.00", 18, 2},
		{"iMac 24-inch", "All-in-one desktop computer", model.Desktop, "129999.00", 10, 0},
		{"HP Pavilion Desktop", "Budget-friendly desktop PC", model.Desktop, "45999.00", 12, 1},
		{"Alienware Aurora R15", "High-performance gaming desktop", model.Desktop, "189999.00", 8, 2},
		{"Google Pixel 8", "AI-powered Android phone", model.Mobile, "69999.00", 35, 0},
		{"Lenovo ThinkPad X1", "Business ultrabook", model.Laptop, "149999.00", 22, 1},
		{"Custom Gaming PC", "High-end gaming desktop", model.Desktop, "159999.00", 6, 2},
	}
	sampleCustomers = [][2]string{
		{"Rahul Sharma", "Mumbai"},
		{"Priya Patel", "Delhi"},
		{"Amit Kumar", "Bangalore"},
		{"Sneha Singh", "Chennai"},
		{"Vikram Reddy", "Hyderabad"},
	}
)

// SeedSampleCatalog fills an empty catalog with demo vendors, products and
// customers. It reports false and does nothing when vendors already exist.
func SeedSampleCatalog(ctx context.Context, uow domainservice.UnitOfWork, catalog CatalogService) (bool, error) {
	var existing int
	err := uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		vendors, err := provider.VendorRepository().ListAll()
		existing = len(vendors)
		return err
	})
	if err != nil {
		return false, err
	}
	if existing > 0 {
		log.WithField("vendors", existing).Info("catalog already populated, skipping seed")
		return false, nil
	}

	vendors := make([]*model.Vendor, 0, len(sampleVendors))
	for _, v := range sampleVendors {
		vendor, err := catalog.CreateVendor(ctx, v[0], v[1])
		if err != nil {
			return false, err
		}
		vendors = append(vendors, vendor)
	}

	for _, p := range sampleProducts {
		_, err := catalog.CreateProduct(ctx, ProductInput{
			Title:         p.title,
			Description:   p.description,
			Category:      p.category,
			Price:         decimal.RequireFromString(p.price),
			StockQuantity: p.stock,
			VendorID:      vendors[p.vendor].ID,
		})
		if err != nil {
			return false, err
		}
	}

	for _, c := range sampleCustomers {
		if _, err := catalog.CreateCustomer(ctx, c[0], c[1]); err != nil {
			return false, err
		}
	}

	log.WithFields(log.Fields{
		"vendors":   len(sampleVendors),
		"products":  len(sampleProducts),
		"customers": len(sampleCustomers),
	}).Info("sample catalog seeded")
	return true, nil
}
