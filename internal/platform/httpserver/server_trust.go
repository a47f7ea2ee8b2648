package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	keyerrors "custodia/contexts/custody-core/key-registry/domain/errors"
	trusterrors "custodia/contexts/custody-core/trust-service/domain/errors"
	trusthttp "custodia/contexts/custody-core/trust-service/transport/http"
)

func writeTrustError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, trusthttp.ErrorResponse{Code: code, Message: message})
}

func writeTrustDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trusterrors.ErrKeyNotHeld):
		writeTrustError(w, http.StatusForbidden, "key_not_held", err.Error())
	case errors.Is(err, trusterrors.ErrKeyNotRoot):
		writeTrustError(w, http.StatusForbidden, "key_not_root", err.Error())
	case errors.Is(err, trusterrors.ErrTrustNotFound):
		writeTrustError(w, http.StatusNotFound, "trust_not_found", err.Error())
	case errors.Is(err, trusterrors.ErrTrustKeyNotFound):
		writeTrustError(w, http.StatusNotFound, "trust_key_not_found", err.Error())
	case errors.Is(err, trusterrors.ErrInvalidKeyOnRing):
		writeTrustError(w, http.StatusUnprocessableEntity, "invalid_key_on_ring", err.Error())
	case errors.Is(err, trusterrors.ErrNonTrustKey):
		writeTrustError(w, http.StatusUnprocessableEntity, "non_trust_key", err.Error())
	case errors.Is(err, trusterrors.ErrRootOnRing):
		writeTrustError(w, http.StatusUnprocessableEntity, "root_on_ring", err.Error())
	case errors.Is(err, keyerrors.ErrInsufficientBalance):
		writeTrustError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, keyerrors.ErrSoulBreach):
		writeTrustError(w, http.StatusConflict, "soul_breach", err.Error())
	case errors.Is(err, keyerrors.ErrFloorExceedsBalance):
		writeTrustError(w, http.StatusConflict, "floor_exceeds_balance", err.Error())
	case errors.Is(err, keyerrors.ErrKeyNotFound):
		writeTrustError(w, http.StatusNotFound, "key_not_found", err.Error())
	case errors.Is(err, trusterrors.ErrInvalidInput), errors.Is(err, keyerrors.ErrInvalidInput):
		writeTrustError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeTrustError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateTrust(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeTrustError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req trusthttp.CreateTrustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.CreateTrustHandler(r.Context(), actor, req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeTrustError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	var req trusthttp.CreateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.CreateKeyHandler(r.Context(), actor, req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCopyKey(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeTrustError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	keyID, ok := parseUint(r.PathValue("key_id"))
	if !ok {
		writeTrustError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	var req trusthttp.CopyKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.CopyKeyHandler(r.Context(), actor, keyID, req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBurnKey(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeTrustError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	keyID, ok := parseUint(r.PathValue("key_id"))
	if !ok {
		writeTrustError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	var req trusthttp.BurnKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.BurnKeyHandler(r.Context(), actor, keyID, req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSoulbind(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeTrustError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	keyID, ok := parseUint(r.PathValue("key_id"))
	if !ok {
		writeTrustError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	var req trusthttp.SoulbindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.SoulbindHandler(r.Context(), actor, keyID, req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateRing(w http.ResponseWriter, r *http.Request) {
	var req trusthttp.ValidateRingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrustError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.trusts.Handler.ValidateRingHandler(r.Context(), req)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTrust(w http.ResponseWriter, r *http.Request) {
	trustID, ok := parseUint(r.PathValue("trust_id"))
	if !ok {
		writeTrustError(w, http.StatusBadRequest, "invalid_trust_id", "trust_id must be an unsigned integer")
		return
	}

	resp, err := s.trusts.Handler.GetTrustHandler(r.Context(), trustID)
	if err != nil {
		writeTrustDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
