package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"catalogservice/pkg/catalog/domain/model"
)

type sqlxCustomer struct {
	ID   uuid.UUID `db:"customer_id"`
	Name string    `db:"name"`
	City string    `db:"city"`
}

type customerRepository struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Store(customer *model.Customer) error {
	_, err := r.tx.ExecContext(r.ctx, `
		INSERT INTO customer (customer_id, name, city) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), city = VALUES(city)`,
		customer.ID, customer.Name, customer.City,
	)
	return errors.Wrap(err, "failed to store customer")
}

func (r *customerRepository) Find(id uuid.UUID) (*model.Customer, error) {
	var row sqlxCustomer
	err := r.tx.GetContext(r.ctx, &row, `SELECT customer_id, name, city FROM customer WHERE customer_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find customer")
	}
	return &model.Customer{ID: row.ID, Name: row.Name, City: row.City}, nil
}

func (r *customerRepository) FindByCity(city string) ([]model.Customer, error) {
	var rows []sqlxCustomer
	err := r.tx.SelectContext(r.ctx, &rows, `SELECT customer_id, name, city FROM customer WHERE city = ? ORDER BY seq`, city)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}

	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, model.Customer{ID: row.ID, Name: row.Name, City: row.City})
	}
	return customers, nil
}
