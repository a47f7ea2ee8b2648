package keyregistry

import (
	"log/slog"

	httpadapter "custodia/contexts/custody-core/key-registry/adapters/http"
	"custodia/contexts/custody-core/key-registry/adapters/memory"
	"custodia/contexts/custody-core/key-registry/application"
	"custodia/contexts/custody-core/key-registry/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Issuer     string
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Issuer: deps.Issuer,
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

func NewInMemoryModule(issuer string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Issuer:     issuer,
		Logger:     logger,
	})
	module.Store = store
	return module
}
