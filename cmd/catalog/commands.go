package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	appservice "catalogservice/pkg/catalog/application/service"
	domainservice "catalogservice/pkg/catalog/domain/service"
	"catalogservice/pkg/catalog/infrastructure/event"
	"catalogservice/pkg/catalog/infrastructure/mysql"
	"catalogservice/pkg/catalog/infrastructure/transport"
)

func serviceCommand() *cli.Command {
	return &cli.Command{
		Name:  "service",
		Usage: "serve the REST API and the gRPC health service",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "apply database migrations before serving (mysql storage)"},
			&cli.BoolFlag{Name: "seed", Usage: "load the sample catalog when the store is empty"},
		},
		Action: runService,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage != storageMySQL {
				return errors.Errorf("migrate requires %s storage, got %s", storageMySQL, cfg.Storage)
			}

			db, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err = mysql.Migrate(db); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "load the sample catalog when the store is empty",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := openStorage(c.Context, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			return seed(c.Context, s.uow)
		},
	}
}

func runService(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStorage(c.Context, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if c.Bool("migrate") && s.db != nil {
		if err = mysql.Migrate(s.db); err != nil {
			return err
		}
	}
	if c.Bool("seed") {
		if err = seed(c.Context, s.uow); err != nil {
			return err
		}
	}

	dispatcher := event.NewLogDispatcher(log.StandardLogger())
	router := transport.Router(
		domainservice.NewPurchaseService(s.uow, dispatcher),
		domainservice.NewQueryService(s.uow),
		domainservice.NewAggregationService(s.uow),
		appservice.NewCatalogService(s.uow, dispatcher),
	)
	restServer := &http.Server{Addr: cfg.ServeRESTAddress, Handler: router}

	grpcListener, err := net.Listen("tcp", cfg.ServeGRPCAddress)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.ServeGRPCAddress)
	}
	healthServer := transport.NewHealthServer(s.probe)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	killSignalChan := getKillSignalChan()

	g.Go(func() error {
		log.WithField("address", cfg.ServeRESTAddress).Info("starting REST server")
		if err := restServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "REST server failed")
		}
		return nil
	})
	g.Go(func() error {
		log.WithField("address", cfg.ServeGRPCAddress).Info("starting gRPC server")
		return errors.Wrap(healthServer.Server.Serve(grpcListener), "gRPC server failed")
	})
	g.Go(func() error {
		healthServer.Watch(ctx, cfg.HealthInterval)
		return nil
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case killSignal := <-killSignalChan:
			logKillSignal(killSignal)
		}
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer stop()
		healthServer.Shutdown()
		return errors.Wrap(restServer.Shutdown(shutdownCtx), "REST server shutdown")
	})

	return g.Wait()
}

func seed(ctx context.Context, uow domainservice.UnitOfWork) error {
	catalog := appservice.NewCatalogService(uow, event.NewLogDispatcher(log.StandardLogger()))
	seeded, err := appservice.SeedSampleCatalog(ctx, uow, catalog)
	if err != nil {
		return err
	}
	log.WithField("seeded", seeded).Info("sample catalog checked")
	return nil
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func logKillSignal(killSignal os.Signal) {
	switch killSignal {
	case os.Interrupt:
		log.Info("Got SIGINT...")
	case syscall.SIGTERM:
		log.Info("Got SIGTERM...")
	}
}
