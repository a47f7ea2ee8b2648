package httpadapter

import (
	"context"
	"log/slog"

	"custodia/contexts/custody-core/ledger-service/application"
	"custodia/contexts/custody-core/ledger-service/domain/entities"
	httptransport "custodia/contexts/custody-core/ledger-service/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

// DepositHandler records a deposit; the caller identity is the provider.
func (h Handler) DepositHandler(
	ctx context.Context,
	actor string,
	req httptransport.DepositRequest,
) (httptransport.MovementResponse, error) {
	result, err := h.Service.Deposit(ctx, actor, req.KeyID, req.AssetID, req.Amount)
	if err != nil {
		return httptransport.MovementResponse{}, err
	}
	return httptransport.MovementResponse{
		Status:  "success",
		TrustID: result.TrustID,
		KeyID:   result.KeyID,
		AssetID: result.AssetID,
		Amount:  result.Amount,
		Balance: httptransport.BalanceAfterDTO{
			Key:    result.After.Key,
			Trust:  result.After.Trust,
			Global: result.After.Global,
		},
	}, nil
}

func (h Handler) WithdrawHandler(
	ctx context.Context,
	actor string,
	req httptransport.WithdrawRequest,
) (httptransport.MovementResponse, error) {
	result, err := h.Service.Withdraw(ctx, actor, req.KeyID, req.AssetID, req.Amount)
	if err != nil {
		return httptransport.MovementResponse{}, err
	}
	return httptransport.MovementResponse{
		Status:  "success",
		TrustID: result.TrustID,
		KeyID:   result.KeyID,
		AssetID: result.AssetID,
		Amount:  result.Amount,
		Balance: httptransport.BalanceAfterDTO{
			Key:    result.After.Key,
			Trust:  result.After.Trust,
			Global: result.After.Global,
		},
	}, nil
}

// DistributeHandler records a split of root key funds; the caller identity is
// the scribe.
func (h Handler) DistributeHandler(
	ctx context.Context,
	actor string,
	req httptransport.DistributeRequest,
) (httptransport.DistributionResponse, error) {
	result, err := h.Service.Distribute(ctx, actor, req.ProviderID, req.AssetID, req.RootKeyID, req.DestKeyIDs, req.Amounts)
	if err != nil {
		return httptransport.DistributionResponse{}, err
	}
	return httptransport.DistributionResponse{
		Status:      "success",
		TrustID:     result.TrustID,
		RootKeyID:   result.RootKeyID,
		AssetID:     result.AssetID,
		RootBalance: result.RootBalance,
	}, nil
}

func (h Handler) BalancesHandler(
	ctx context.Context,
	kind entities.ContextKind,
	contextID uint64,
	providerID string,
	assetIDs []string,
) (httptransport.BalancesResponse, error) {
	amounts, err := h.Service.BalancesOf(ctx, kind, contextID, providerID, assetIDs)
	if err != nil {
		return httptransport.BalancesResponse{}, err
	}
	return httptransport.BalancesResponse{
		Status:  "success",
		Amounts: amounts,
	}, nil
}

func (h Handler) AssetRegistryHandler(
	ctx context.Context,
	kind entities.ContextKind,
	contextID uint64,
	providerID string,
) (httptransport.RegistryResponse, error) {
	assets, err := h.Service.AssetRegistry(ctx, kind, contextID, providerID)
	if err != nil {
		return httptransport.RegistryResponse{}, err
	}
	return httptransport.RegistryResponse{
		Status: "success",
		Data:   assets,
	}, nil
}

func (h Handler) ProviderRegistryHandler(
	ctx context.Context,
	kind entities.ContextKind,
	contextID uint64,
	assetID string,
) (httptransport.RegistryResponse, error) {
	providers, err := h.Service.ProviderRegistry(ctx, kind, contextID, assetID)
	if err != nil {
		return httptransport.RegistryResponse{}, err
	}
	return httptransport.RegistryResponse{
		Status: "success",
		Data:   providers,
	}, nil
}

func (h Handler) BalanceSheetHandler(
	ctx context.Context,
	kind entities.ContextKind,
	contextID uint64,
	providerID string,
) (httptransport.BalanceSheetResponse, error) {
	sheet, err := h.Service.BalanceSheet(ctx, kind, contextID, providerID)
	if err != nil {
		return httptransport.BalanceSheetResponse{}, err
	}
	return httptransport.BalanceSheetResponse{
		Status:  "success",
		Assets:  sheet.Assets,
		Amounts: sheet.Amounts,
	}, nil
}
