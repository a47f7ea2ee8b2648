package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	keyerrors "custodia/contexts/custody-core/key-registry/domain/errors"
	registryhttp "custodia/contexts/custody-core/key-registry/transport/http"
)

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{Code: code, Message: message})
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, keyerrors.ErrNotAuthorizedIssuer):
		writeRegistryError(w, http.StatusForbidden, "not_authorized_issuer", err.Error())
	case errors.Is(err, keyerrors.ErrKeyNotFound):
		writeRegistryError(w, http.StatusNotFound, "key_not_found", err.Error())
	case errors.Is(err, keyerrors.ErrKeyExists):
		writeRegistryError(w, http.StatusConflict, "key_exists", err.Error())
	case errors.Is(err, keyerrors.ErrInsufficientBalance):
		writeRegistryError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, keyerrors.ErrSoulBreach):
		writeRegistryError(w, http.StatusConflict, "soul_breach", err.Error())
	case errors.Is(err, keyerrors.ErrFloorExceedsBalance):
		writeRegistryError(w, http.StatusConflict, "floor_exceeds_balance", err.Error())
	case errors.Is(err, keyerrors.ErrInvalidInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleKeyHolders(w http.ResponseWriter, r *http.Request) {
	keyID, ok := parseUint(r.PathValue("key_id"))
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	resp, err := s.registry.Handler.HoldersHandler(r.Context(), keyID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHolderKeys(w http.ResponseWriter, r *http.Request) {
	holder := strings.TrimSpace(r.PathValue("holder"))
	if holder == "" {
		writeRegistryError(w, http.StatusBadRequest, "invalid_holder", "holder is required")
		return
	}

	resp, err := s.registry.Handler.HolderKeysHandler(r.Context(), holder)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	actor := resolveActor(r)
	if actor == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return
	}

	keyID, ok := parseUint(r.PathValue("key_id"))
	if !ok {
		writeRegistryError(w, http.StatusBadRequest, "invalid_key_id", "key_id must be an unsigned integer")
		return
	}

	var req registryhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.TransferHandler(r.Context(), actor, keyID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
