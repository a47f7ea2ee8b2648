package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"custodia/contexts/custody-core/trust-service/application"
	"custodia/contexts/custody-core/trust-service/domain/entities"
	httptransport "custodia/contexts/custody-core/trust-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateTrustHandler(
	ctx context.Context,
	actor string,
	req httptransport.CreateTrustRequest,
) (httptransport.CreateTrustResponse, error) {
	trust, err := h.Service.CreateTrust(ctx, actor, req.Name, req.RootReceiver)
	if err != nil {
		return httptransport.CreateTrustResponse{}, err
	}
	return httptransport.CreateTrustResponse{
		Status: "success",
		Data:   toDTO(trust),
	}, nil
}

func (h Handler) CreateKeyHandler(
	ctx context.Context,
	actor string,
	req httptransport.CreateKeyRequest,
) (httptransport.CreateKeyResponse, error) {
	keyID, err := h.Service.CreateKey(ctx, actor, req.UsingKeyID, req.Alias, req.Receiver, req.Soulbind)
	if err != nil {
		return httptransport.CreateKeyResponse{}, err
	}
	return httptransport.CreateKeyResponse{
		Status: "success",
		KeyID:  keyID,
	}, nil
}

func (h Handler) CopyKeyHandler(
	ctx context.Context,
	actor string,
	targetKeyID uint64,
	req httptransport.CopyKeyRequest,
) (httptransport.StatusResponse, error) {
	if err := h.Service.CopyKey(ctx, actor, req.UsingKeyID, targetKeyID, req.Receiver, req.Soulbind); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) BurnKeyHandler(
	ctx context.Context,
	actor string,
	targetKeyID uint64,
	req httptransport.BurnKeyRequest,
) (httptransport.StatusResponse, error) {
	if err := h.Service.BurnKey(ctx, actor, req.UsingKeyID, targetKeyID, req.Holder, req.Amount); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SoulbindHandler(
	ctx context.Context,
	actor string,
	targetKeyID uint64,
	req httptransport.SoulbindRequest,
) (httptransport.StatusResponse, error) {
	if err := h.Service.SetSoulboundFloor(ctx, actor, req.UsingKeyID, req.Holder, targetKeyID, req.Floor); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) ValidateRingHandler(
	ctx context.Context,
	req httptransport.ValidateRingRequest,
) (httptransport.StatusResponse, error) {
	if err := h.Service.ValidateKeyRing(ctx, req.TrustID, req.KeyIDs, req.AllowRoot); err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) GetTrustHandler(ctx context.Context, trustID uint64) (httptransport.GetTrustResponse, error) {
	trust, err := h.Service.GetTrust(ctx, trustID)
	if err != nil {
		return httptransport.GetTrustResponse{}, err
	}
	return httptransport.GetTrustResponse{
		Status: "success",
		Data:   toDTO(trust),
	}, nil
}

func toDTO(trust entities.Trust) httptransport.TrustDTO {
	return httptransport.TrustDTO{
		TrustID:   trust.TrustID,
		Name:      trust.Name,
		RootKeyID: trust.RootKeyID,
		KeyCount:  trust.KeyCount,
		CreatedAt: trust.CreatedAt.UTC().Format(time.RFC3339),
	}
}
