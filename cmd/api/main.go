package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CongoMusahAdama/rrate/internal/booking"
	"github.com/CongoMusahAdama/rrate/internal/cart"
	"github.com/CongoMusahAdama/rrate/internal/checkout"
	"github.com/CongoMusahAdama/rrate/internal/config"
	"github.com/CongoMusahAdama/rrate/internal/domain"
	"github.com/CongoMusahAdama/rrate/internal/filter"
	httpapi "github.com/CongoMusahAdama/rrate/internal/http"
	"github.com/CongoMusahAdama/rrate/internal/logging"
	"github.com/CongoMusahAdama/rrate/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	listings, err := storage.LoadListingsFromFile(cfg.CatalogPath)
	if err != nil {
		return err
	}

	catalog, closeCatalog, err := openCatalog(ctx, cfg, listings, logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	bands, err := filter.LoadBandsFromFile(cfg.PriceBandsPath)
	if err != nil {
		logger.Warn("use default price bands", "reason", err)
	}

	gateway, notifier, closeGateway, err := openGateway(cfg, logger)
	if err != nil {
		return err
	}
	defer closeGateway()

	carts := cart.NewRegistry(cfg.Currency,
		cart.WithMaxSessions(cfg.CartMaxSessions),
		cart.WithSessionTTL(cfg.CartSessionTTL),
	)
	srv := httpapi.NewServer(catalog, carts, checkout.NewService(gateway, logger), logger)
	srv.Bookings = booking.NewService(notifier, logger)
	srv.Bands = bands
	srv.PageSize = cfg.PageSize
	srv.Currency = cfg.Currency
	srv.CORSOrigins = cfg.CORSOrigins

	httpSrv := srv.HTTPServer(cfg.Address)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening", "address", cfg.Address, "listings", len(listings))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// openCatalog serves the seed from memory, or from SQLite when SQLITE_PATH is
// set. The seed is imported into SQLite on every start; existing ids are kept.
func openCatalog(ctx context.Context, cfg *config.Config, listings []domain.Listing, logger *slog.Logger) (storage.Catalog, func(), error) {
	if cfg.SQLitePath == "" {
		mem, err := storage.NewMemoryCatalog(listings...)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}

	db, err := storage.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	inserted, err := db.UpsertMany(ctx, listings)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("sqlite catalog ready", "path", cfg.SQLitePath, "imported", inserted)
	return db, func() { _ = db.Close() }, nil
}

// openGateway returns the checkout gateway and, when a broker is configured,
// the notifier that forwards bookings and enquiries over the same connection.
func openGateway(cfg *config.Config, logger *slog.Logger) (checkout.Gateway, booking.Notifier, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Info("checkout gateway: accept-all")
		return checkout.AcceptAll{}, nil, func() {}, nil
	}

	gw, err := checkout.DialAMQP(checkout.AMQPConfig{
		URL:        cfg.AMQPURL,
		Exchange:   cfg.AMQPExchange,
		RoutingKey: cfg.AMQPRoutingKey,
	}, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("checkout gateway: amqp", "exchange", cfg.AMQPExchange)
	return gw, gw, func() { _ = gw.Close() }, nil
}
