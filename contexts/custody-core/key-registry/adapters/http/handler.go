package httpadapter

import (
	"context"
	"log/slog"

	"custodia/contexts/custody-core/key-registry/application"
	"custodia/contexts/custody-core/key-registry/domain/entities"
	httptransport "custodia/contexts/custody-core/key-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) TransferHandler(
	ctx context.Context,
	actor string,
	keyID uint64,
	req httptransport.TransferRequest,
) (httptransport.TransferResponse, error) {
	fromHolding, toHolding, err := h.Service.Transfer(ctx, actor, req.To, keyID, req.Amount)
	if err != nil {
		return httptransport.TransferResponse{}, err
	}
	return httptransport.TransferResponse{
		Status: "success",
		From:   toDTO(fromHolding),
		To:     toDTO(toHolding),
	}, nil
}

func (h Handler) HoldersHandler(ctx context.Context, keyID uint64) (httptransport.HoldersResponse, error) {
	items, err := h.Service.HoldersOf(ctx, keyID)
	if err != nil {
		return httptransport.HoldersResponse{}, err
	}
	resp := httptransport.HoldersResponse{
		Status: "success",
		Data:   make([]httptransport.HoldingDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toDTO(item))
	}
	return resp, nil
}

func (h Handler) HolderKeysHandler(ctx context.Context, holder string) (httptransport.HolderKeysResponse, error) {
	items, err := h.Service.KeysOf(ctx, holder)
	if err != nil {
		return httptransport.HolderKeysResponse{}, err
	}
	resp := httptransport.HolderKeysResponse{
		Status: "success",
		Data:   make([]httptransport.HoldingDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toDTO(item))
	}
	return resp, nil
}

func toDTO(holding entities.Holding) httptransport.HoldingDTO {
	return httptransport.HoldingDTO{
		Holder:       holding.Holder,
		KeyID:        holding.KeyID,
		Balance:      holding.Balance,
		Floor:        holding.Floor,
		Transferable: holding.Transferable(),
	}
}
