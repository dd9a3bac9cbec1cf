package mysql

import (
	"context"
	"database/sql"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"catalogservice/pkg/catalog/domain/model"
	"catalogservice/pkg/catalog/domain/service"
)

const (
	errDeadlock        = 1213
	errLockWaitTimeout = 1205

	maxTransactionAttempts = 5
)

func NewUnitOfWork(db *sqlx.DB) service.UnitOfWork {
	return &unitOfWork{db: db}
}

type unitOfWork struct {
	db *sqlx.DB
}

// Execute retries the whole transaction when InnoDB picks it as a deadlock
// victim or gives up waiting for a row lock. Other errors roll back and return.
func (u *unitOfWork) Execute(ctx context.Context, f func(provider service.RepositoryProvider) error) error {
	var err error
	for attempt := 1; attempt <= maxTransactionAttempts; attempt++ {
		err = u.execute(ctx, nil, f)
		if !isRetryable(err) {
			return err
		}
		log.WithError(err).WithField("attempt", attempt).Warn("transaction conflict, retrying")
	}
	return err
}

func (u *unitOfWork) ExecuteReadOnly(ctx context.Context, f func(provider service.RepositoryProvider) error) error {
	return u.execute(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, f)
}

func (u *unitOfWork) execute(ctx context.Context, opts *sql.TxOptions, f func(provider service.RepositoryProvider) error) (err error) {
	tx, err := u.db.BeginTxx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				log.WithError(rollbackErr).Error("failed to rollback transaction")
			}
		}
	}()

	if err = f(&repositoryProvider{ctx: ctx, tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func isRetryable(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
}

type repositoryProvider struct {
	ctx context.Context
	tx  *sqlx.Tx
}

func (p *repositoryProvider) ProductRepository() model.ProductRepository {
	return &productRepository{ctx: p.ctx, tx: p.tx}
}

func (p *repositoryProvider) VendorRepository() model.VendorRepository {
	return &vendorRepository{ctx: p.ctx, tx: p.tx}
}

func (p *repositoryProvider) CustomerRepository() model.CustomerRepository {
	return &customerRepository{ctx: p.ctx, tx: p.tx}
}

func (p *repositoryProvider) LedgerRepository() model.LedgerRepository {
	return &ledgerRepository{ctx: p.ctx, tx: p.tx}
}
