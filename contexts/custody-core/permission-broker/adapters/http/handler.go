package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"custodia/contexts/custody-core/permission-broker/application"
	httptransport "custodia/contexts/custody-core/permission-broker/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SetTrustedRoleHandler(
	ctx context.Context,
	actor string,
	req httptransport.SetTrustedRoleRequest,
) (httptransport.StatusResponse, error) {
	err := h.Service.SetTrustedRole(ctx, actor, req.TrustID, req.Role, req.LedgerID, req.Actor, req.Trusted, req.Alias)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) SetAllowanceHandler(
	ctx context.Context,
	actor string,
	req httptransport.SetAllowanceRequest,
) (httptransport.StatusResponse, error) {
	err := h.Service.SetWithdrawalAllowance(ctx, actor, req.LedgerID, req.ProviderID, req.KeyID, req.AssetID, req.Amount)
	if err != nil {
		return httptransport.StatusResponse{}, err
	}
	return httptransport.StatusResponse{Status: "success"}, nil
}

func (h Handler) TrustedActorsHandler(
	ctx context.Context,
	ledgerID string,
	trustID uint64,
	role string,
) (httptransport.TrustedActorsResponse, error) {
	items, err := h.Service.TrustedActors(ctx, ledgerID, trustID, role)
	if err != nil {
		return httptransport.TrustedActorsResponse{}, err
	}
	resp := httptransport.TrustedActorsResponse{
		Status: "success",
		Data:   make([]httptransport.TrustedActorDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, httptransport.TrustedActorDTO{
			Actor:   item.Actor,
			Alias:   item.Alias,
			AddedAt: item.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) AllowanceHandler(
	ctx context.Context,
	ledgerID string,
	providerID string,
	keyID uint64,
	assetID string,
) (httptransport.AllowanceResponse, error) {
	remaining, err := h.Service.AllowanceOf(ctx, ledgerID, providerID, keyID, assetID)
	if err != nil {
		return httptransport.AllowanceResponse{}, err
	}
	return httptransport.AllowanceResponse{
		Status:    "success",
		Remaining: remaining,
	}, nil
}
