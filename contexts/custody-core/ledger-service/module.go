package ledgerservice

import (
	"log/slog"

	"custodia/contexts/custody-core/ledger-service/adapters/broker"
	httpadapter "custodia/contexts/custody-core/ledger-service/adapters/http"
	"custodia/contexts/custody-core/ledger-service/adapters/memory"
	"custodia/contexts/custody-core/ledger-service/application"
	"custodia/contexts/custody-core/ledger-service/ports"
	permissionbroker "custodia/contexts/custody-core/permission-broker"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Authorizer ports.Authorizer
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	LedgerID   string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Repo:     deps.Repository,
		Auth:     deps.Authorizer,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		LedgerID: deps.LedgerID,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(brokerModule permissionbroker.Module, ledgerID string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Authorizer: broker.Adapter{Broker: brokerModule.Service, LedgerID: ledgerID},
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		LedgerID:   ledgerID,
		Logger:     logger,
	})
	module.Store = store
	return module
}
