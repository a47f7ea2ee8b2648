package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	keyregistry "custodia/contexts/custody-core/key-registry"
	ledgerservice "custodia/contexts/custody-core/ledger-service"
	permissionbroker "custodia/contexts/custody-core/permission-broker"
	trustservice "custodia/contexts/custody-core/trust-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "custodia/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	registry keyregistry.Module
	trusts   trustservice.Module
	broker   permissionbroker.Module
	ledger   ledgerservice.Module
}

func New(
	registry keyregistry.Module,
	trusts trustservice.Module,
	broker permissionbroker.Module,
	ledger ledgerservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		registry: registry,
		trusts:   trusts,
		broker:   broker,
		ledger:   ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/trust/v1/trusts", s.handleCreateTrust)
	s.mux.HandleFunc("POST /api/trust/v1/keys", s.handleCreateKey)
	s.mux.HandleFunc("POST /api/trust/v1/keys/{key_id}/copies", s.handleCopyKey)
	s.mux.HandleFunc("POST /api/trust/v1/keys/{key_id}/burn", s.handleBurnKey)
	s.mux.HandleFunc("POST /api/trust/v1/keys/{key_id}/soulbind", s.handleSoulbind)
	s.mux.HandleFunc("POST /api/trust/v1/rings/validate", s.handleValidateRing)
	s.mux.HandleFunc("GET /api/trust/v1/trusts/{trust_id}", s.handleGetTrust)

	s.mux.HandleFunc("GET /api/registry/v1/keys/{key_id}/holders", s.handleKeyHolders)
	s.mux.HandleFunc("GET /api/registry/v1/holders/{holder}/keys", s.handleHolderKeys)
	s.mux.HandleFunc("POST /api/registry/v1/keys/{key_id}/transfer", s.handleTransfer)

	s.mux.HandleFunc("POST /api/broker/v1/roles", s.handleSetTrustedRole)
	s.mux.HandleFunc("POST /api/broker/v1/allowances", s.handleSetAllowance)
	s.mux.HandleFunc("GET /api/broker/v1/trusts/{trust_id}/roles/{role}/actors", s.handleTrustedActors)
	s.mux.HandleFunc("GET /api/broker/v1/allowances", s.handleGetAllowance)

	s.mux.HandleFunc("POST /api/ledger/v1/deposits", s.handleDeposit)
	s.mux.HandleFunc("POST /api/ledger/v1/withdrawals", s.handleWithdraw)
	s.mux.HandleFunc("POST /api/ledger/v1/distributions", s.handleDistribute)
	s.mux.HandleFunc("GET /api/ledger/v1/balances", s.handleBalances)
	s.mux.HandleFunc("GET /api/ledger/v1/registry/assets", s.handleAssetRegistry)
	s.mux.HandleFunc("GET /api/ledger/v1/registry/providers", s.handleProviderRegistry)
	s.mux.HandleFunc("GET /api/ledger/v1/balance-sheet", s.handleBalanceSheet)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveActor(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor-Id"))
}

func parseUint(raw string) (uint64, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
