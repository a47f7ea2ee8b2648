package permissionbroker

import (
	"log/slog"

	httpadapter "custodia/contexts/custody-core/permission-broker/adapters/http"
	"custodia/contexts/custody-core/permission-broker/adapters/memory"
	"custodia/contexts/custody-core/permission-broker/adapters/trustdir"
	"custodia/contexts/custody-core/permission-broker/application"
	"custodia/contexts/custody-core/permission-broker/ports"
	trustservice "custodia/contexts/custody-core/trust-service"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Trusts     ports.TrustDirectory
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Trusts: deps.Trusts,
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

func NewInMemoryModule(trusts trustservice.Module, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Trusts:     trustdir.Adapter{Trusts: trusts.Service},
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
