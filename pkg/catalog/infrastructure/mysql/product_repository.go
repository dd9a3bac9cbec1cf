package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"catalogservice/pkg/catalog/domain/model"
)

const productColumns = `product_id, title, description, category, price, stock_quantity, vendor_id, created_at, updated_at`

type sqlxProduct struct {
	ID            uuid.UUID       `db:"product_id"`
	Title         string          `db:"title"`
	Description   string          `db:"description"`
	Category      string          `db:"category"`
	Price         decimal.Decimal `db:"price"`
	StockQuantity int             `db:"stock_quantity"`
	VendorID      uuid.UUID       `db:"vendor_id"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (p sqlxProduct) toModel() model.Product {
	return model.Product{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      model.Category(p.Category),
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		VendorID:      p.VendorID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type productRepository struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Store(product *model.Product) error {
	_, err := r.tx.ExecContext(r.ctx, `
		INSERT INTO product (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			description = VALUES(description),
			category = VALUES(category),
			price = VALUES(price),
			stock_quantity = VALUES(stock_quantity),
			vendor_id = VALUES(vendor_id),
			updated_at = VALUES(updated_at)`,
		product.ID,
		product.Title,
		product.Description,
		string(product.Category),
		product.Price,
		product.StockQuantity,
		product.VendorID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return errors.Wrap(err, "failed to store product")
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	return r.find(`SELECT `+productColumns+` FROM product WHERE product_id = ?`, id)
}

func (r *productRepository) FindForUpdate(id uuid.UUID) (*model.Product, error) {
	return r.find(`SELECT `+productColumns+` FROM product WHERE product_id = ? FOR UPDATE`, id)
}

func (r *productRepository) ListAll() ([]model.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM product ORDER BY seq`)
}

func (r *productRepository) FindByVendor(vendorID uuid.UUID) ([]model.Product, error) {
	return r.list(`SELECT `+productColumns+` FROM product WHERE vendor_id = ? ORDER BY seq`, vendorID)
}

func (r *productRepository) FindByPriceRange(min, max decimal.Decimal) ([]model.Product, error) {
	return r.list(`SELECT `+productColumns+` FROM product WHERE price BETWEEN ? AND ? ORDER BY seq`, min, max)
}

func (r *productRepository) CountByCategory() ([]model.CategoryCount, error) {
	var rows []struct {
		Category string `db:"category"`
		Count    int    `db:"count"`
	}
	err := r.tx.SelectContext(r.ctx, &rows, `
		SELECT category, COUNT(*) AS count
		FROM product
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products by category")
	}

	result := make([]model.CategoryCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.CategoryCount{Category: model.Category(row.Category), Count: row.Count})
	}
	return result, nil
}

func (r *productRepository) CountByVendor() (map[uuid.UUID]int, error) {
	var rows []struct {
		VendorID uuid.UUID `db:"vendor_id"`
		Count    int       `db:"count"`
	}
	err := r.tx.SelectContext(r.ctx, &rows, `
		SELECT vendor_id, COUNT(*) AS count
		FROM product
		GROUP BY vendor_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products by vendor")
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.VendorID] = row.Count
	}
	return counts, nil
}

func (r *productRepository) find(query string, args ...interface{}) (*model.Product, error) {
	var row sqlxProduct
	err := r.tx.GetContext(r.ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find product")
	}
	product := row.toModel()
	return &product, nil
}

func (r *productRepository) list(query string, args ...interface{}) ([]model.Product, error) {
	var rows []sqlxProduct
	if err := r.tx.SelectContext(r.ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}
