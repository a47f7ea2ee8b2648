package trustservice

import (
	"log/slog"

	keyregistry "custodia/contexts/custody-core/key-registry"
	httpadapter "custodia/contexts/custody-core/trust-service/adapters/http"
	"custodia/contexts/custody-core/trust-service/adapters/memory"
	"custodia/contexts/custody-core/trust-service/adapters/registry"
	"custodia/contexts/custody-core/trust-service/application"
	"custodia/contexts/custody-core/trust-service/ports"
)

// IssuerID is the actor identity this module registers with the key registry.
const IssuerID = "custody-core/trust-service"

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Keys       ports.KeyRegistry
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Keys:   deps.Keys,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires this module against an in-memory key registry
// module, with the store backing persistence, clock, ids, and outbox.
func NewInMemoryModule(keys keyregistry.Module, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Keys: registry.Adapter{
			Keys:   keys.Service,
			Issuer: IssuerID,
		},
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
