package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const appID = "catalog"

const (
	storageMemory = "memory"
	storageMySQL  = "mysql"
)

type config struct {
	ServeRESTAddress string        `envconfig:"serve_rest_address" default:":8080"`
	ServeGRPCAddress string        `envconfig:"serve_grpc_address" default:":8081"`
	LogLevel         string        `envconfig:"log_level" default:"info"`
	Storage          string        `envconfig:"storage" default:"memory"`
	HealthInterval   time.Duration `envconfig:"health_interval" default:"15s"`
	ShutdownTimeout  time.Duration `envconfig:"shutdown_timeout" default:"10s"`

	DBUser         string        `envconfig:"db_user" default:"root"`
	DBPassword     string        `envconfig:"db_password"`
	DBHost         string        `envconfig:"db_host" default:"localhost:3306"`
	DBName         string        `envconfig:"db_name" default:"catalog"`
	DBMaxConn      int           `envconfig:"db_max_conn" default:"10"`
	DBConnLifetime time.Duration `envconfig:"db_conn_lifetime" default:"5m"`
}

func parseEnv() (*config, error) {
	c := new(config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	if c.Storage != storageMemory && c.Storage != storageMySQL {
		return nil, errors.Errorf("unknown storage %q, expected %s or %s", c.Storage, storageMemory, storageMySQL)
	}
	return c, nil
}

func loadConfig() (*config, error) {
	c, err := parseEnv()
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	log.SetLevel(level)
	return c, nil
}
