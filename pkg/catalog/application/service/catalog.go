package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"catalogservice/pkg/catalog/domain/model"
	domainservice "catalogservice/pkg/catalog/domain/service"
)

type ProductInput struct {
	Title         string
	Description   string
	Category      model.Category
	Price         decimal.Decimal
	StockQuantity int
	VendorID      uuid.UUID
}

// CatalogService covers catalog administration: everything that creates or
// replaces catalog entities outside of a purchase.
type CatalogService interface {
	CreateVendor(ctx context.Context, name, city string) (*model.Vendor, error)
	CreateCustomer(ctx context.Context, name, city string) (*model.Customer, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	ReplaceProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*model.Product, error)
	RestockProduct(ctx context.Context, productID uuid.UUID, quantity int) (*model.Product, error)
	FindProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	FindVendor(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	VendorsByCity(ctx context.Context, city string) ([]model.Vendor, error)
	CustomersByCity(ctx context.Context, city string) ([]model.Customer, error)
}

func NewCatalogService(uow domainservice.UnitOfWork, dispatcher model.EventDispatcher) CatalogService {
	return &catalogService{
		uow:        uow,
		dispatcher: dispatcher,
	}
}

type catalogService struct {
	uow        domainservice.UnitOfWork
	dispatcher model.EventDispatcher
}

func (s *catalogService) CreateVendor(ctx context.Context, name, city string) (*model.Vendor, error) {
	var vendor *model.Vendor
	err := s.uow.Execute(ctx, func(provider domainservice.RepositoryProvider) error {
		repo := provider.VendorRepository()
		id, err := repo.NextID()
		if err != nil {
			return err
		}
		vendor = &model.Vendor{ID: id, Name: name, City: city}
		return repo.Store(vendor)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(model.VendorCreated{VendorID: vendor.ID, Name: name})
	return vendor, nil
}

func (s *catalogService) CreateCustomer(ctx context.Context, name, city string) (*model.Customer, error) {
	var customer *model.Customer
	err := s.uow.Execute(ctx, func(provider domainservice.RepositoryProvider) error {
		repo := provider.CustomerRepository()
		id, err := repo.NextID()
		if err != nil {
			return err
		}
		customer = &model.Customer{ID: id, Name: name, City: city}
		return repo.Store(customer)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(model.CustomerCreated{CustomerID: customer.ID, Name: name})
	return customer, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.uow.Execute(ctx, func(provider domainservice.RepositoryProvider) error {
		if _, err := provider.VendorRepository().Find(input.VendorID); err != nil {
			return err
		}

		repo := provider.ProductRepository()
		id, err := repo.NextID()
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		product = &model.Product{
			ID:            id,
			Title:         input.Title,
			Description:   input.Description,
			Category:      input.Category,
			Price:         input.Price,
			StockQuantity: input.StockQuantity,
			VendorID:      input.VendorID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return repo.Store(product)
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(model.ProductCreated{ProductID: product.ID, VendorID: product.VendorID, Title: product.Title})
	return product, nil
}

func (s *catalogService) ReplaceProduct(ctx context.Context, productID uuid.UUID, input ProductInput) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var product *model.Product
	err := s.executeOnProduct(ctx, productID, func(provider domainservice.RepositoryProvider, p *model.Product) error {
		if _, err := provider.VendorRepository().Find(input.VendorID); err != nil {
			return err
		}
		p.Title = input.Title
		p.Description = input.Description
		p.Category = input.Category
		p.Price = input.Price
		p.StockQuantity = input.StockQuantity
		p.VendorID = input.VendorID
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(model.ProductReplaced{ProductID: productID})
	return product, nil
}

func (s *catalogService) RestockProduct(ctx context.Context, productID uuid.UUID, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	var product *model.Product
	err := s.executeOnProduct(ctx, productID, func(_ domainservice.RepositoryProvider, p *model.Product) error {
		if err := p.Restock(quantity); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(model.ProductRestocked{
		ProductID:    productID,
		ChangeAmount: quantity,
		NewQuantity:  product.StockQuantity,
	})
	return product, nil
}

func (s *catalogService) FindProduct(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	var product *model.Product
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		product, err = provider.ProductRepository().Find(productID)
		return err
	})
	return product, err
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		products, err = provider.ProductRepository().ListAll()
		return err
	})
	return products, err
}

func (s *catalogService) FindVendor(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error) {
	var vendor *model.Vendor
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		vendor, err = provider.VendorRepository().Find(vendorID)
		return err
	})
	return vendor, err
}

func (s *catalogService) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		vendors, err = provider.VendorRepository().ListAll()
		return err
	})
	return vendors, err
}

func (s *catalogService) VendorsByCity(ctx context.Context, city string) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		vendors, err = provider.VendorRepository().FindByCity(city)
		return err
	})
	return vendors, err
}

func (s *catalogService) CustomersByCity(ctx context.Context, city string) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.uow.ExecuteReadOnly(ctx, func(provider domainservice.RepositoryProvider) error {
		var err error
		customers, err = provider.CustomerRepository().FindByCity(city)
		return err
	})
	return customers, err
}

func (s *catalogService) executeOnProduct(
	ctx context.Context,
	productID uuid.UUID,
	action func(provider domainservice.RepositoryProvider, p *model.Product) error,
) error {
	return s.uow.Execute(ctx, func(provider domainservice.RepositoryProvider) error {
		repo := provider.ProductRepository()
		product, err := repo.FindForUpdate(productID)
		if err != nil {
			return err
		}

		if err := action(provider, product); err != nil {
			return err
		}

		product.UpdatedAt = time.Now().UTC()
		return repo.Store(product)
	})
}

func (s *catalogService) dispatchEvents(events ...model.Event) {
	for _, event := range events {
		if err := s.dispatcher.Dispatch(event); err != nil {
			log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
		}
	}
}

func validateProductInput(input ProductInput) error {
	if !input.Category.Valid() {
		return model.ErrUnknownCategory
	}
	if input.Price.IsNegative() {
		return model.ErrNegativePrice
	}
	if input.StockQuantity < 0 {
		return model.ErrNegativeStock
	}
	if input.StockQuantity > model.MaxStockQuantity {
		return model.ErrStockOverflow
	}
	return nil
}
