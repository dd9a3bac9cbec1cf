package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"catalogservice/pkg/catalog/domain/model"
)

type PurchaseService interface {
	Purchase(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.PurchaseRecord, error)
	PurchasesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.PurchaseRecord, error)
	PurchasesByProduct(ctx context.Context, productID uuid.UUID) ([]model.PurchaseRecord, error)
}

func NewPurchaseService(uow UnitOfWork, dispatcher model.EventDispatcher) PurchaseService {
	return &purchaseService{uow: uow, dispatcher: dispatcher}
}

type purchaseService struct {
	uow        UnitOfWork
	dispatcher model.EventDispatcher
}

func (s *purchaseService) Purchase(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.PurchaseRecord, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	var (
		record *model.PurchaseRecord
		stock  int
	)
	err := s.uow.Execute(ctx, func(provider RepositoryProvider) error {
		if _, err := provider.CustomerRepository().Find(customerID); err != nil {
			return err
		}

		products := provider.ProductRepository()
		product, err := products.FindForUpdate(productID)
		if err != nil {
			return err
		}
		if err := product.Reserve(quantity); err != nil {
			return err
		}

		now := time.Now().UTC()
		product.UpdatedAt = now
		if err := products.Store(product); err != nil {
			return err
		}

		ledger := provider.LedgerRepository()
		recordID, err := ledger.NextID()
		if err != nil {
			return err
		}
		record = &model.PurchaseRecord{
			ID:          recordID,
			CustomerID:  customerID,
			ProductID:   productID,
			Quantity:    quantity,
			TotalCost:   product.Price.Mul(decimal.NewFromInt(int64(quantity))),
			PurchasedAt: now,
		}
		stock = product.StockQuantity
		return ledger.Append(record)
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "purchase of product %s", productID)
	}

	s.dispatch(model.ProductPurchased{
		PurchaseID:    record.ID,
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
		TotalCost:     record.TotalCost,
		StockQuantity: stock,
	})
	return record, nil
}

func (s *purchaseService) PurchasesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.PurchaseRecord, error) {
	var records []model.PurchaseRecord
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		if _, err := provider.CustomerRepository().Find(customerID); err != nil {
			return err
		}
		var err error
		records, err = provider.LedgerRepository().FindByCustomer(customerID)
		return err
	})
	return records, err
}

func (s *purchaseService) PurchasesByProduct(ctx context.Context, productID uuid.UUID) ([]model.PurchaseRecord, error) {
	var records []model.PurchaseRecord
	err := s.uow.ExecuteReadOnly(ctx, func(provider RepositoryProvider) error {
		if _, err := provider.ProductRepository().Find(productID); err != nil {
			return err
		}
		var err error
		records, err = provider.LedgerRepository().FindByProduct(productID)
		return err
	})
	return records, err
}

func (s *purchaseService) dispatch(event model.Event) {
	if err := s.dispatcher.Dispatch(event); err != nil {
		log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
	}
}
