package mysql

import (
	"context"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Config struct {
	User               string
	Password           string
	Host               string
	Database           string
	MaxConnections     int
	ConnectionLifetime time.Duration
}

func DSN(cfg Config) string {
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = cfg.Host
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func NewConnection(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	return Open(ctx, DSN(cfg), cfg.MaxConnections, cfg.ConnectionLifetime)
}

func Open(ctx context.Context, dsn string, maxConnections int, lifetime time.Duration) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if maxConnections > 0 {
		db.SetMaxOpenConns(maxConnections)
		db.SetMaxIdleConns(maxConnections)
	}
	if lifetime > 0 {
		db.SetConnMaxLifetime(lifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}
