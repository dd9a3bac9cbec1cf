package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalogservice/pkg/catalog/domain/model"
)

type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

func ParseSortDirection(s string) (SortDirection, error) {
	d := SortDirection(strings.ToUpper(strings.TrimSpace(s)))
	if d != Ascending && d != Descending {
		return "", model.ErrInvalidArgument
	}
	return d, nil
}

type Page struct {
	Content       []model.Product
	CurrentPage   int
	PageSize      int
	TotalElements int
	TotalPages    int
	IsFirstPage   bool
	IsLastPage    bool
}

type QueryService interface {
	FilterByCategory(ctx context.Context, category model.Category) ([]model.Product, error)
	SortByPrice(ctx context.Context, direction SortDirection, page, pageSize int) (*Page, error)
	ByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Product, error)
	ProductsByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Product, error)
}

func NewQueryService(uow UnitOfWork) QueryService {
	return &queryService{uow: uow}
}

type queryService struct {
	uow UnitOfWork
}

func (s *queryService) FilterByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	if !category.Valid() {
		return nil, model.ErrUnknownCategory
	}

	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Product, 0)
	for _, p := range products {
		if p.Category == category && p.InStock() {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *queryService) SortByPrice(ctx context.Context, direction SortDirection, page, pageSize int) (*Page, error) {
	if direction != Ascending && direction != Descending {
		return nil, model.ErrInvalidArgument
	}
	if page < 0 || pageSize <= 0 {
		return nil, model.ErrInvalidArgument
	}

	products, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.InStock() {
			available = append(available, p)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		if direction == Descending {
			return available[i].Price.GreaterThan(available[j].Price)
		}
		return available[i].Price.LessThan(available[j].Price)
	})

	return paginate(available, page, pageSize), nil
}

func (s *queryService) ByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]model.Product, error) {
	if min.GreaterThan(max) {
		return []model.Product{}, nil
	}

	var products []model.Product
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		var err error
		products, err = provider.ProductRepository().FindByPriceRange(min, max)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *queryService) ProductsByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		if _, err := provider.VendorRepository().Find(vendorID); err != nil {
			return err
		}
		var err error
		products, err = provider.ProductRepository().FindByVendor(vendorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *queryService) listAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		var err error
		products, err = provider.ProductRepository().ListAll()
		return err
	})
	return products, err
}

// paginate treats every page at or after the final one as last, so an empty
// listing reports page 0 as both first and last.
func paginate(products []model.Product, page, pageSize int) *Page {
	total := len(products)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	content := make([]model.Product, 0)
	if page < totalPages {
		// start < total whenever page < totalPages.
		start := page * pageSize
		end := total
		if total-start > pageSize {
			end = start + pageSize
		}
		content = append(content, products[start:end]...)
	}

	return &Page{
		Content:       content,
		CurrentPage:   page,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		IsFirstPage:   page == 0,
		IsLastPage:    page >= totalPages-1,
	}
}
