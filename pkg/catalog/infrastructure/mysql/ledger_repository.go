package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"catalogservice/pkg/catalog/domain/model"
)

const purchaseRecordColumns = `purchase_id, customer_id, product_id, quantity, total_cost, purchased_at`

type sqlxPurchaseRecord struct {
	ID          uuid.UUID       `db:"purchase_id"`
	CustomerID  uuid.UUID       `db:"customer_id"`
	ProductID   uuid.UUID       `db:"product_id"`
	Quantity    int             `db:"quantity"`
	TotalCost   decimal.Decimal `db:"total_cost"`
	PurchasedAt time.Time       `db:"purchased_at"`
}

// ledgerRepository only ever inserts into purchase_record.
type ledgerRepository struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (r *ledgerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *ledgerRepository) Append(record *model.PurchaseRecord) error {
	_, err := r.tx.ExecContext(r.ctx,
		`INSERT INTO purchase_record (`+purchaseRecordColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CustomerID,
		record.ProductID,
		record.Quantity,
		record.TotalCost,
		record.PurchasedAt,
	)
	return errors.Wrap(err, "failed to append purchase record")
}

func (r *ledgerRepository) FindByCustomer(customerID uuid.UUID) ([]model.PurchaseRecord, error) {
	return r.list(`SELECT `+purchaseRecordColumns+` FROM purchase_record WHERE customer_id = ? ORDER BY seq`, customerID)
}

func (r *ledgerRepository) FindByProduct(productID uuid.UUID) ([]model.PurchaseRecord, error) {
	return r.list(`SELECT `+purchaseRecordColumns+` FROM purchase_record WHERE product_id = ? ORDER BY seq`, productID)
}

func (r *ledgerRepository) CountDistinctCustomersByProduct() (map[uuid.UUID]int, error) {
	var rows []struct {
		ProductID uuid.UUID `db:"product_id"`
		Count     int       `db:"count"`
	}
	err := r.tx.SelectContext(r.ctx, &rows, `
		SELECT product_id, COUNT(DISTINCT customer_id) AS count
		FROM purchase_record
		GROUP BY product_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count customers by product")
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.ProductID] = row.Count
	}
	return counts, nil
}

func (r *ledgerRepository) list(query string, args ...interface{}) ([]model.PurchaseRecord, error) {
	var rows []sqlxPurchaseRecord
	if err := r.tx.SelectContext(r.ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list purchase records")
	}

	records := make([]model.PurchaseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.PurchaseRecord{
			ID:          row.ID,
			CustomerID:  row.CustomerID,
			ProductID:   row.ProductID,
			Quantity:    row.Quantity,
			TotalCost:   row.TotalCost,
			PurchasedAt: row.PurchasedAt,
		})
	}
	return records, nil
}
