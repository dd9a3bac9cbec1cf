package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	domainservice "catalogservice/pkg/catalog/domain/service"
	"catalogservice/pkg/catalog/infrastructure/memory"
	"catalogservice/pkg/catalog/infrastructure/mysql"
	"catalogservice/pkg/catalog/infrastructure/transport"
)

type storage struct {
	uow   domainservice.UnitOfWork
	probe transport.Probe
	db    *sqlx.DB
}

func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func openStorage(ctx context.Context, c *config) (*storage, error) {
	if c.Storage == storageMemory {
		return &storage{uow: memory.NewStore()}, nil
	}

	db, err := openDatabase(ctx, c)
	if err != nil {
		return nil, err
	}
	return &storage{
		uow:   mysql.NewUnitOfWork(db),
		probe: db.PingContext,
		db:    db,
	}, nil
}

func openDatabase(ctx context.Context, c *config) (*sqlx.DB, error) {
	db, err := mysql.NewConnection(ctx, mysql.Config{
		User:               c.DBUser,
		Password:           c.DBPassword,
		Host:               c.DBHost,
		Database:           c.DBName,
		MaxConnections:     c.DBMaxConn,
		ConnectionLifetime: c.DBConnLifetime,
	})
	return db, errors.Wrap(err, "failed to connect to database")
}
