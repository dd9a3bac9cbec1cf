package service

import (
	"context"
	"sort"

	"catalogservice/pkg/catalog/domain/model"
)

type VendorProductCount struct {
	Vendor       model.Vendor
	ProductCount int
}

type ProductCustomerCount struct {
	Product       model.Product
	CustomerCount int
}

type AggregationService interface {
	CategoryStatistics(ctx context.Context) ([]model.CategoryCount, error)
	VendorsWithProductCount(ctx context.Context) ([]VendorProductCount, error)
	ProductsWithCustomerCount(ctx context.Context) ([]ProductCustomerCount, error)
}

func NewAggregationService(uow UnitOfWork) AggregationService {
	return &aggregationService{uow: uow}
}

type aggregationService struct {
	uow UnitOfWork
}

func (s *aggregationService) CategoryStatistics(ctx context.Context) ([]model.CategoryCount, error) {
	var stats []model.CategoryCount
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		var err error
		stats, err = provider.ProductRepository().CountByCategory()
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Category < stats[j].Category
	})
	return stats, nil
}

func (s *aggregationService) VendorsWithProductCount(ctx context.Context) ([]VendorProductCount, error) {
	var result []VendorProductCount
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		vendors, err := provider.VendorRepository().ListAll()
		if err != nil {
			return err
		}
		counts, err := provider.ProductRepository().CountByVendor()
		if err != nil {
			return err
		}

		result = make([]VendorProductCount, 0, len(vendors))
		for _, v := range vendors {
			result = append(result, VendorProductCount{Vendor: v, ProductCount: counts[v.ID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ProductCount > result[j].ProductCount
	})
	return result, nil
}

func (s *aggregationService) ProductsWithCustomerCount(ctx context.Context) ([]ProductCustomerCount, error) {
	var result []ProductCustomerCount
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		products, err := provider.ProductRepository().ListAll()
		if err != nil {
			return err
		}
		counts, err := provider.LedgerRepository().CountDistinctCustomersByProduct()
		if err != nil {
			return err
		}

		result = make([]ProductCustomerCount, 0, len(products))
		for _, p := range products {
			result = append(result, ProductCustomerCount{Product: p, CustomerCount: counts[p.ID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
