package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SetTrustedRoleRequest struct {
	TrustID  uint64 `json:"trust_id"`
	Role     string `json:"role"`
	LedgerID string `json:"ledger_id"`
	Actor    string `json:"actor"`
	Trusted  bool   `json:"trusted"`
	Alias    string `json:"alias,omitempty"`
}

type SetAllowanceRequest struct {
	LedgerID   string `json:"ledger_id"`
	ProviderID string `json:"provider_id"`
	KeyID      uint64 `json:"key_id"`
	AssetID    string `json:"asset_id"`
	Amount     uint64 `json:"amount"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type TrustedActorDTO struct {
	Actor   string `json:"actor"`
	Alias   string `json:"alias,omitempty"`
	AddedAt string `json:"added_at"`
}

type TrustedActorsResponse struct {
	Status string            `json:"status"`
	Data   []TrustedActorDTO `json:"data"`
}

type AllowanceResponse struct {
	Status    string `json:"status"`
	Remaining uint64 `json:"remaining"`
}
