package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DepositRequest struct {
	KeyID   uint64 `json:"key_id"`
	AssetID string `json:"asset_id"`
	Amount  uint64 `json:"amount"`
}

type WithdrawRequest struct {
	KeyID   uint64 `json:"key_id"`
	AssetID string `json:"asset_id"`
	Amount  uint64 `json:"amount"`
}

type DistributeRequest struct {
	ProviderID string   `json:"provider_id"`
	AssetID    string   `json:"asset_id"`
	RootKeyID  uint64   `json:"root_key_id"`
	DestKeyIDs []uint64 `json:"dest_key_ids"`
	Amounts    []uint64 `json:"amounts"`
}

type BalanceAfterDTO struct {
	Key    uint64 `json:"key"`
	Trust  uint64 `json:"trust"`
	Global uint64 `json:"global"`
}

type MovementResponse struct {
	Status  string          `json:"status"`
	TrustID uint64          `json:"trust_id"`
	KeyID   uint64          `json:"key_id"`
	AssetID string          `json:"asset_id"`
	Amount  uint64          `json:"amount"`
	Balance BalanceAfterDTO `json:"balance"`
}

type DistributionResponse struct {
	Status      string `json:"status"`
	TrustID     uint64 `json:"trust_id"`
	RootKeyID   uint64 `json:"root_key_id"`
	AssetID     string `json:"asset_id"`
	RootBalance uint64 `json:"root_balance"`
}

type BalancesResponse struct {
	Status  string   `json:"status"`
	Amounts []uint64 `json:"amounts"`
}

type RegistryResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
}

type BalanceSheetResponse struct {
	Status  string   `json:"status"`
	Assets  []string `json:"assets"`
	Amounts []uint64 `json:"amounts"`
}
