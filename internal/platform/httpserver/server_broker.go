package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	brokererrors "custodia/contexts/custody-core/permission-broker/domain/errors"
	brokerhttp "custodia/contexts/custody-core/permission-broker/transport/http"
	trusterrors "custodia/contexts/custody-core/trust-service/domain/errors"
)

func writeBrokerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, brokerhttp.ErrorResponse{Code: code, Message: message})
}

func writeBrokerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, brokererrors.ErrRedundantProvision):
		writeBrokerError(w, http.StatusConflict, "redundant_provision", err.Error())
	case errors.Is(err, brokererrors.ErrNotCurrentActor):
		writeBrokerError(w, http.StatusConflict, "not_current_actor", err.Error())
	case errors.Is(err, brokererrors.ErrUntrustedActor):
		writeBrokerError(w, http.StatusForbidden, "untrusted_actor", err.Error())
	case errors.Is(err, brokererrors.ErrUntrustedProvider):
		writeBrokerError(w, http.StatusForbidden, "untrusted_provider", err.Error())
	case errors.Is(err, brokererrors.ErrUnapprovedAmount):
		writeBrokerError(w, http.StatusForbidden, "unapproved_amount", err.Error())
	case errors.Is(err, brokererrors.ErrInvalidKey):
		writeBrokerError(w, http.StatusNotFound, "invalid_key", err.Error())
	case errors.Is(err, brokererrors.ErrKeyNotRoot):
		writeBrokerError(w, http.StatusForbidden, "key_not_root", err.Error())
	case errors.Is(err, brokererrors.ErrSizeMismatch):
		writeBrokerError(w, http.StatusBadRequest, "size_mismatch", err.Error())
	case errors.Is(err, brokererrors.ErrMissingRequiredEntry):
		writeBrokerError(w, http.StatusBadRequest, "missing_required_entry", err.Error())
	case errors.Is(err, trusterrors.ErrKeyNotHeld):
		writeBrokerError(w, http.StatusForbidden, "key_not_held", err.Error())
	case errors.Is(err, trusterrors.ErrKeyNotRoot):
		writeBrokerError(w, http.StatusForbidden, "key_not_root", err.Error())
	case errors.Is(err, trusterrors.ErrTrustNotFound):
		writeBrokerError(w, http.StatusNotFound, "trust_not_found", err.Error())
	case errors.Is(err, brokererrors.ErrInvalidInput), errors.Is(err, trusterrors.ErrInvalidInput):
		writeBrokerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeBrokerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleSetTrustedRole(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeBrokerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req brokerhttp.SetTrustedRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBrokerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.broker.Handler.SetTrustedRoleHandler(r.Context(), actor, req)
	if err != nil {
		writeBrokerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAllowance(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeBrokerError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req brokerhttp.SetAllowanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBrokerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.broker.Handler.SetAllowanceHandler(r.Context(), actor, req)
	if err != nil {
		writeBrokerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrustedActors(w http.ResponseWriter, r *http.Request) {
	trustID, ok := parseUint(r.PathValue("trust_id"))
	if !ok {
		writeBrokerError(w, http.StatusBadRequest, "invalid_trust_id", "trust_id must be an unsigned integer")
		return
	}

	role := strings.TrimSpace(r.PathValue("role"))
	ledgerID := strings.TrimSpace(r.URL.Query().Get("ledger_id"))
	if role == "" || ledgerID == "" {
		writeBrokerError(w, http.StatusBadRequest, "invalid_request", "role and ledger_id are required")
		return
	}

	resp, err := s.broker.Handler.TrustedActorsHandler(r.Context(), ledgerID, trustID, role)
	if err != nil {
		writeBrokerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAllowance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ledgerID := strings.TrimSpace(query.Get("ledger_id"))
	providerID := strings.TrimSpace(query.Get("provider_id"))
	assetID := strings.TrimSpace(query.Get("asset_id"))
	if ledgerID == "" || providerID == "" || assetID == "" {
		writeBrokerError(w, http.StatusBadRequest, "invalid_request", "ledger_id, provider_id and asset_id are required")
		return
	}

	keyID, ok := parseUint(query.Get("key_id"))
	if !ok {
		writeBrokerError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	resp, err := s.broker.Handler.AllowanceHandler(r.Context(), ledgerID, providerID, keyID, assetID)
	if err != nil {
		writeBrokerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
