package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	ledgererrors "custodia/contexts/custody-core/ledger-service/domain/errors"
	ledgerhttp "custodia/contexts/custody-core/ledger-service/transport/http"
	brokererrors "custodia/contexts/custody-core/permission-broker/domain/errors"
)

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrOverdraft):
		writeLedgerError(w, http.StatusConflict, "overdraft", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidAmount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidContext):
		writeLedgerError(w, http.StatusBadRequest, "invalid_context", err.Error())
	case errors.Is(err, ledgererrors.ErrAmountOverflow):
		writeLedgerError(w, http.StatusBadRequest, "amount_overflow", err.Error())
	case errors.Is(err, brokererrors.ErrUntrustedProvider):
		writeLedgerError(w, http.StatusForbidden, "untrusted_provider", err.Error())
	case errors.Is(err, brokererrors.ErrUntrustedActor):
		writeLedgerError(w, http.StatusForbidden, "untrusted_actor", err.Error())
	case errors.Is(err, brokererrors.ErrUnapprovedAmount):
		writeLedgerError(w, http.StatusForbidden, "unapproved_amount", err.Error())
	case errors.Is(err, brokererrors.ErrInvalidKey):
		writeLedgerError(w, http.StatusNotFound, "invalid_key", err.Error())
	case errors.Is(err, brokererrors.ErrKeyNotRoot):
		writeLedgerError(w, http.StatusForbidden, "key_not_root", err.Error())
	case errors.Is(err, brokererrors.ErrSizeMismatch):
		writeLedgerError(w, http.StatusBadRequest, "size_mismatch", err.Error())
	case errors.Is(err, brokererrors.ErrMissingRequiredEntry):
		writeLedgerError(w, http.StatusBadRequest, "missing_required_entry", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidInput), errors.Is(err, brokererrors.ErrInvalidInput):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func resolveLedgerContext(w http.ResponseWriter, r *http.Request) (entities.ContextKind, uint64, bool) {
	query := r.URL.Query()
	kind, ok := entities.ParseContext(strings.TrimSpace(query.Get("context")))
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_context", "context must be key, trust or global")
		return "", 0, false
	}
	if kind == entities.GlobalContext {
		return kind, entities.GlobalContextID, true
	}
	contextID, ok := parseUint(query.Get("context_id"))
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_context_id", "context_id must be an unsigned integer")
		return "", 0, false
	}
	return kind, contextID, true
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req ledgerhttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.DepositHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req ledgerhttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.WithdrawHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req ledgerhttp.DistributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.ledger.Handler.DistributeHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	kind, contextID, ok := resolveLedgerContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	assetIDs := query["asset_id"]
	if len(assetIDs) == 0 {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "at least one asset_id is required")
		return
	}

	resp, err := s.ledger.Handler.BalancesHandler(r.Context(), kind, contextID, query.Get("provider_id"), assetIDs)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssetRegistry(w http.ResponseWriter, r *http.Request) {
	kind, contextID, ok := resolveLedgerContext(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.AssetRegistryHandler(r.Context(), kind, contextID, r.URL.Query().Get("provider_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviderRegistry(w http.ResponseWriter, r *http.Request) {
	kind, contextID, ok := resolveLedgerContext(w, r)
	if !ok {
		return
	}

	assetID := strings.TrimSpace(r.URL.Query().Get("asset_id"))
	if assetID == "" {
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", "asset_id is required")
		return
	}

	resp, err := s.ledger.Handler.ProviderRegistryHandler(r.Context(), kind, contextID, assetID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	kind, contextID, ok := resolveLedgerContext(w, r)
	if !ok {
		return
	}

	resp, err := s.ledger.Handler.BalanceSheetHandler(r.Context(), kind, contextID, r.URL.Query().Get("provider_id"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
