package memory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"catalogservice/pkg/catalog/domain/model"
)

type productRepository struct {
	tx *transaction
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Store(product *model.Product) error {
	if err := r.tx.lockProduct(product.ID); err != nil {
		return err
	}
	if _, staged := r.tx.products[product.ID]; !staged {
		r.tx.productOrder = append(r.tx.productOrder, product.ID)
	}
	r.tx.products[product.ID] = *product
	return nil
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	if staged, ok := r.tx.products[id]; ok {
		return &staged, nil
	}

	var (
		product model.Product
		ok      bool
	)
	r.tx.read(func() {
		product, ok = r.tx.store.products[id]
	})
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &product, nil
}

func (r *productRepository) FindForUpdate(id uuid.UUID) (*model.Product, error) {
	if err := r.tx.lockProduct(id); err != nil {
		return nil, err
	}
	return r.Find(id)
}

func (r *productRepository) ListAll() ([]model.Product, error) {
	return r.tx.currentProducts(), nil
}

func (r *productRepository) FindByVendor(vendorID uuid.UUID) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool { return p.VendorID == vendorID }), nil
}

func (r *productRepository) FindByPriceRange(min, max decimal.Decimal) ([]model.Product, error) {
	return r.filter(func(p model.Product) bool {
		return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
	}), nil
}

func (r *productRepository) CountByCategory() ([]model.CategoryCount, error) {
	var (
		result []model.CategoryCount
		index  = make(map[model.Category]int)
	)
	for _, p := range r.tx.currentProducts() {
		i, ok := index[p.Category]
		if !ok {
			i = len(result)
			index[p.Category] = i
			result = append(result, model.CategoryCount{Category: p.Category})
		}
		result[i].Count++
	}
	return result, nil
}

func (r *productRepository) CountByVendor() (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, p := range r.tx.currentProducts() {
		counts[p.VendorID]++
	}
	return counts, nil
}

func (r *productRepository) filter(match func(p model.Product) bool) []model.Product {
	result := make([]model.Product, 0)
	for _, p := range r.tx.currentProducts() {
		if match(p) {
			result = append(result, p)
		}
	}
	return result
}

type vendorRepository struct {
	tx *transaction
}

func (r *vendorRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *vendorRepository) Store(vendor *model.Vendor) error {
	if r.tx.readOnly {
		return ErrReadOnlyTransaction
	}
	if _, staged := r.tx.vendors[vendor.ID]; !staged {
		r.tx.vendorOrder = append(r.tx.vendorOrder, vendor.ID)
	}
	r.tx.vendors[vendor.ID] = *vendor
	return nil
}

func (r *vendorRepository) Find(id uuid.UUID) (*model.Vendor, error) {
	if staged, ok := r.tx.vendors[id]; ok {
		return &staged, nil
	}

	var (
		vendor model.Vendor
		ok     bool
	)
	r.tx.read(func() {
		vendor, ok = r.tx.store.vendors[id]
	})
	if !ok {
		return nil, model.ErrVendorNotFound
	}
	return &vendor, nil
}

func (r *vendorRepository) ListAll() ([]model.Vendor, error) {
	var result []model.Vendor
	r.tx.read(func() {
		result = make([]model.Vendor, 0, len(r.tx.store.vendorOrder)+len(r.tx.vendorOrder))
		for _, id := range r.tx.store.vendorOrder {
			if staged, ok := r.tx.vendors[id]; ok {
				result = append(result, staged)
				continue
			}
			result = append(result, r.tx.store.vendors[id])
		}
		for _, id := range r.tx.vendorOrder {
			if _, committed := r.tx.store.vendors[id]; !committed {
				result = append(result, r.tx.vendors[id])
			}
		}
	})
	return result, nil
}

func (r *vendorRepository) FindByCity(city string) ([]model.Vendor, error) {
	vendors, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	result := make([]model.Vendor, 0)
	for _, v := range vendors {
		if v.City == city {
			result = append(result, v)
		}
	}
	return result, nil
}

type customerRepository struct {
	tx *transaction
}

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Store(customer *model.Customer) error {
	if r.tx.readOnly {
		return ErrReadOnlyTransaction
	}
	if _, staged := r.tx.customers[customer.ID]; !staged {
		r.tx.customerOrder = append(r.tx.customerOrder, customer.ID)
	}
	r.tx.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepository) Find(id uuid.UUID) (*model.Customer, error) {
	if staged, ok := r.tx.customers[id]; ok {
		return &staged, nil
	}

	var (
		customer model.Customer
		ok       bool
	)
	r.tx.read(func() {
		customer, ok = r.tx.store.customers[id]
	})
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	return &customer, nil
}

func (r *customerRepository) FindByCity(city string) ([]model.Customer, error) {
	result := make([]model.Customer, 0)
	r.tx.read(func() {
		for _, id := range r.tx.store.customerOrder {
			c := r.tx.store.customers[id]
			if staged, ok := r.tx.customers[id]; ok {
				c = staged
			}
			if c.City == city {
				result = append(result, c)
			}
		}
		for _, id := range r.tx.customerOrder {
			if _, committed := r.tx.store.customers[id]; committed {
				continue
			}
			if c := r.tx.customers[id]; c.City == city {
				result = append(result, c)
			}
		}
	})
	return result, nil
}

type ledgerRepository struct {
	tx *transaction
}

func (r *ledgerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *ledgerRepository) Append(record *model.PurchaseRecord) error {
	if r.tx.readOnly {
		return ErrReadOnlyTransaction
	}
	if record.Quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	r.tx.ledger = append(r.tx.ledger, *record)
	return nil
}

func (r *ledgerRepository) FindByCustomer(customerID uuid.UUID) ([]model.PurchaseRecord, error) {
	result := make([]model.PurchaseRecord, 0)
	for _, record := range r.tx.currentLedger() {
		if record.CustomerID == customerID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *ledgerRepository) FindByProduct(productID uuid.UUID) ([]model.PurchaseRecord, error) {
	result := make([]model.PurchaseRecord, 0)
	for _, record := range r.tx.currentLedger() {
		if record.ProductID == productID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *ledgerRepository) CountDistinctCustomersByProduct() (map[uuid.UUID]int, error) {
	seen := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, record := range r.tx.currentLedger() {
		customers, ok := seen[record.ProductID]
		if !ok {
			customers = make(map[uuid.UUID]struct{})
			seen[record.ProductID] = customers
		}
		customers[record.CustomerID] = struct{}{}
	}

	counts := make(map[uuid.UUID]int, len(seen))
	for productID, customers := range seen {
		counts[productID] = len(customers)
	}
	return counts, nil
}
