package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"catalogservice/pkg/catalog/domain/model"
)

type sqlxVendor struct {
	ID   uuid.UUID `db:"vendor_id"`
	Name string    `db:"name"`
	City string    `db:"city"`
}

type vendorRepository struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (r *vendorRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *vendorRepository) Store(vendor *model.Vendor) error {
	_, err := r.tx.ExecContext(r.ctx, `
		INSERT INTO vendor (vendor_id, name, city) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), city = VALUES(city)`,
		vendor.ID, vendor.Name, vendor.City,
	)
	return errors.Wrap(err, "failed to store vendor")
}

func (r *vendorRepository) Find(id uuid.UUID) (*model.Vendor, error) {
	var row sqlxVendor
	err := r.tx.GetContext(r.ctx, &row, `SELECT vendor_id, name, city FROM vendor WHERE vendor_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrVendorNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find vendor")
	}
	return &model.Vendor{ID: row.ID, Name: row.Name, City: row.City}, nil
}

func (r *vendorRepository) ListAll() ([]model.Vendor, error) {
	return r.list(`SELECT vendor_id, name, city FROM vendor ORDER BY seq`)
}

func (r *vendorRepository) FindByCity(city string) ([]model.Vendor, error) {
	return r.list(`SELECT vendor_id, name, city FROM vendor WHERE city = ? ORDER BY seq`, city)
}

func (r *vendorRepository) list(query string, args ...interface{}) ([]model.Vendor, error) {
	var rows []sqlxVendor
	if err := r.tx.SelectContext(r.ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list vendors")
	}

	vendors := make([]model.Vendor, 0, len(rows))
	for _, row := range rows {
		vendors = append(vendors, model.Vendor{ID: row.ID, Name: row.Name, City: row.City})
	}
	return vendors, nil
}
