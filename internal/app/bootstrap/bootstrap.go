package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	keyregistry "custodia/contexts/custody-core/key-registry"
	ledgerservice "custodia/contexts/custody-core/ledger-service"
	ledgerbroker "custodia/contexts/custody-core/ledger-service/adapters/broker"
	ledgerpostgres "custodia/contexts/custody-core/ledger-service/adapters/postgres"
	ledgerworkers "custodia/contexts/custody-core/ledger-service/application/workers"
	permissionbroker "custodia/contexts/custody-core/permission-broker"
	brokerworkers "custodia/contexts/custody-core/permission-broker/application/workers"
	trustservice "custodia/contexts/custody-core/trust-service"
	trustpostgres "custodia/contexts/custody-core/trust-service/adapters/postgres"
	"custodia/contexts/custody-core/trust-service/adapters/registry"
	trustworkers "custodia/contexts/custody-core/trust-service/application/workers"
	"custodia/internal/platform/config"
	"custodia/internal/platform/db"
	"custodia/internal/platform/httpserver"
	"custodia/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server       *httpserver.Server
	postgres     *db.Postgres
	brokerRelay  *brokerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	trustRelay   *trustworkers.OutboxRelay
	ledgerRelay  *ledgerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

// Modules is the fully wired in-memory stack used by tests and local runs.
type Modules struct {
	Registry keyregistry.Module
	Trusts   trustservice.Module
	Broker   permissionbroker.Module
	Ledger   ledgerservice.Module
}

// BuildInMemory wires all four modules against their memory stores, chained
// the way production wires them: registry under the trust service, the trust
// directory under the broker, the broker under the ledger.
func BuildInMemory(ledgerID string, logger *slog.Logger) Modules {
	registryModule := keyregistry.NewInMemoryModule(trustservice.IssuerID, logger)
	trustModule := trustservice.NewInMemoryModule(registryModule, logger)
	brokerModule := permissionbroker.NewInMemoryModule(trustModule, logger)
	ledgerModule := ledgerservice.NewInMemoryModule(brokerModule, ledgerID, logger)
	return Modules{
		Registry: registryModule,
		Trusts:   trustModule,
		Broker:   brokerModule,
		Ledger:   ledgerModule,
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	// Holdings and role grants live in memory; trusts and balances are the
	// durable records and go through postgres.
	registryModule := keyregistry.NewInMemoryModule(trustservice.IssuerID, logger)

	trustRepo := trustpostgres.NewRepository(pg.DB, logger)
	trustModule := trustservice.NewModule(trustservice.Dependencies{
		Repository: trustRepo,
		Keys: registry.Adapter{
			Keys:   registryModule.Service,
			Issuer: trustservice.IssuerID,
		},
		Outbox: trustRepo,
		Clock:  trustpostgres.SystemClock{},
		IDGen:  trustpostgres.UUIDGenerator{},
		Logger: logger,
	})

	brokerModule := permissionbroker.NewInMemoryModule(trustModule, logger)

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledgerModule := ledgerservice.NewModule(ledgerservice.Dependencies{
		Repository: ledgerRepo,
		Authorizer: ledgerbroker.Adapter{
			Broker:   brokerModule.Service,
			LedgerID: cfg.LedgerID,
		},
		Outbox:   ledgerRepo,
		Clock:    ledgerpostgres.SystemClock{},
		IDGen:    ledgerpostgres.UUIDGenerator{},
		LedgerID: cfg.LedgerID,
		Logger:   logger,
	})

	app := &APIApp{
		server:       httpserver.New(registryModule, trustModule, brokerModule, ledgerModule, logger, normalizeAddr(cfg.HTTPPort)),
		postgres:     pg,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	// The broker outbox lives in this process, so its relay runs here rather
	// than in the worker.
	if cfg.EnableBrokerOutboxRelay {
		kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, err
		}
		app.brokerRelay = &brokerworkers.OutboxRelay{
			Outbox:    brokerModule.Store,
			Publisher: kafka,
			Clock:     brokerModule.Store,
			BatchSize: 100,
			Logger:    logger,
		}
	}
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	app := &WorkerApp{
		postgres:     pg,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}

	if cfg.EnableTrustOutboxRelay {
		app.trustRelay = &trustworkers.OutboxRelay{
			Outbox:    trustpostgres.NewRepository(pg.DB, logger),
			Publisher: kafka,
			Clock:     trustpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		}
	}
	if cfg.EnableLedgerOutboxRelay {
		app.ledgerRelay = &ledgerworkers.OutboxRelay{
			Outbox:    ledgerpostgres.NewRepository(pg.DB, logger),
			Publisher: kafka,
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		}
	}
	return app, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	if a.brokerRelay != nil {
		go func() {
			ticker := time.NewTicker(a.pollInterval)
			defer ticker.Stop()
			for {
				if err := a.brokerRelay.RunOnce(ctx); err != nil && a.logger != nil {
					a.logger.Error("broker outbox relay failed",
						"event", "bootstrap_broker_relay_failed",
						"module", "internal/app/bootstrap",
						"layer", "platform",
						"error", err.Error(),
					)
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.trustRelay != nil {
			if err := w.trustRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.ledgerRelay != nil {
			if err := w.ledgerRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
