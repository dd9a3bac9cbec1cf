package service

import (
	"context"

	"catalogservice/pkg/catalog/domain/model"
)

type RepositoryProvider interface {
	ProductRepository() model.ProductRepository
	VendorRepository() model.VendorRepository
	CustomerRepository() model.CustomerRepository
	LedgerRepository() model.LedgerRepository
}

type UnitOfWork interface {
	// Execute runs f in a single transaction: every write made through the
	// provider commits together, or none does when f returns an error.
	Execute(ctx context.Context, f func(provider RepositoryProvider) error) error
	// ExecuteReadOnly runs f against one consistent snapshot of the stores.
	ExecuteReadOnly(ctx context.Context, f func(provider RepositoryProvider) error) error
}
