package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
)

var ErrReadOnlyTransaction = errors.New("write attempted in read-only transaction")

// Store keeps the catalog and the ledger in process memory. Writes are staged
// per unit of work and applied under the store lock on commit; products touched
// by a unit of work stay locked until it ends.
type Store struct {
	mu            sync.RWMutex
	products      map[uuid.UUID]model.Product
	productOrder  []uuid.UUID
	vendors       map[uuid.UUID]model.Vendor
	vendorOrder   []uuid.UUID
	customers     map[uuid.UUID]model.Customer
	customerOrder []uuid.UUID
	ledger        []model.PurchaseRecord

	productLocks *keyedLocker
}

var _ service.UnitOfWork = &Store{}

func NewStore() *Store {
	return &Store{
		products:     make(map[uuid.UUID]model.Product),
		vendors:      make(map[uuid.UUID]model.Vendor),
		customers:    make(map[uuid.UUID]model.Customer),
		productLocks: newKeyedLocker(),
	}
}

func (s *Store) Execute(ctx context.Context, f func(provider service.RepositoryProvider) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newTransaction(ctx, s)
	defer tx.releaseLocks()

	if err := f(tx); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) ExecuteReadOnly(ctx context.Context, f func(provider service.RepositoryProvider) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(&transaction{ctx: ctx, store: s, readOnly: true})
}

func (s *Store) commit(tx *transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range tx.productOrder {
		if _, exists := s.products[id]; !exists {
			s.productOrder = append(s.productOrder, id)
		}
		s.products[id] = tx.products[id]
	}
	for _, id := range tx.vendorOrder {
		if _, exists := s.vendors[id]; !exists {
			s.vendorOrder = append(s.vendorOrder, id)
		}
		s.vendors[id] = tx.vendors[id]
	}
	for _, id := range tx.customerOrder {
		if _, exists := s.customers[id]; !exists {
			s.customerOrder = append(s.customerOrder, id)
		}
		s.customers[id] = tx.customers[id]
	}
	s.ledger = append(s.ledger, tx.ledger...)
}

type transaction struct {
	ctx      context.Context
	store    *Store
	readOnly bool

	products      map[uuid.UUID]model.Product
	productOrder  []uuid.UUID
	vendors       map[uuid.UUID]model.Vendor
	vendorOrder   []uuid.UUID
	customers     map[uuid.UUID]model.Customer
	customerOrder []uuid.UUID
	ledger        []model.PurchaseRecord

	heldLocks map[uuid.UUID]struct{}
}

func newTransaction(ctx context.Context, store *Store) *transaction {
	return &transaction{
		ctx:       ctx,
		store:     store,
		products:  make(map[uuid.UUID]model.Product),
		vendors:   make(map[uuid.UUID]model.Vendor),
		customers: make(map[uuid.UUID]model.Customer),
		heldLocks: make(map[uuid.UUID]struct{}),
	}
}

func (tx *transaction) ProductRepository() model.ProductRepository {
	return &productRepository{tx: tx}
}

func (tx *transaction) VendorRepository() model.VendorRepository {
	return &vendorRepository{tx: tx}
}

func (tx *transaction) CustomerRepository() model.CustomerRepository {
	return &customerRepository{tx: tx}
}

func (tx *transaction) LedgerRepository() model.LedgerRepository {
	return &ledgerRepository{tx: tx}
}

// read runs f with the store readable. Read-only transactions already hold
// the read lock for their whole lifetime.
func (tx *transaction) read(f func()) {
	if tx.readOnly {
		f()
		return
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	f()
}

func (tx *transaction) lockProduct(id uuid.UUID) error {
	if tx.readOnly {
		return ErrReadOnlyTransaction
	}
	if _, held := tx.heldLocks[id]; held {
		return nil
	}
	if err := tx.store.productLocks.Lock(tx.ctx, id); err != nil {
		return errors.Wrapf(err, "lock product %s", id)
	}
	tx.heldLocks[id] = struct{}{}
	return nil
}

func (tx *transaction) releaseLocks() {
	for id := range tx.heldLocks {
		tx.store.productLocks.Unlock(id)
	}
	tx.heldLocks = nil
}

// currentProducts returns every product visible to the transaction in
// insertion order, staged changes included.
func (tx *transaction) currentProducts() []model.Product {
	var result []model.Product
	tx.read(func() {
		result = make([]model.Product, 0, len(tx.store.productOrder)+len(tx.productOrder))
		for _, id := range tx.store.productOrder {
			if staged, ok := tx.products[id]; ok {
				result = append(result, staged)
				continue
			}
			result = append(result, tx.store.products[id])
		}
		for _, id := range tx.productOrder {
			if _, committed := tx.store.products[id]; !committed {
				result = append(result, tx.products[id])
			}
		}
	})
	return result
}

func (tx *transaction) currentLedger() []model.PurchaseRecord {
	var result []model.PurchaseRecord
	tx.read(func() {
		result = make([]model.PurchaseRecord, 0, len(tx.store.ledger)+len(tx.ledger))
		result = append(result, tx.store.ledger...)
		result = append(result, tx.ledger...)
	})
	return result
}
