package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TrustDTO struct {
	TrustID   uint64 `json:"trust_id"`
	Name      string `json:"name"`
	RootKeyID uint64 `json:"root_key_id"`
	KeyCount  uint64 `json:"key_count"`
	CreatedAt string `json:"created_at"`
}

type CreateTrustRequest struct {
	Name         string `json:"name"`
	RootReceiver string `json:"root_receiver"`
}

type CreateTrustResponse struct {
	Status string   `json:"status"`
	Data   TrustDTO `json:"data"`
}

type CreateKeyRequest struct {
	UsingKeyID uint64 `json:"using_key_id"`
	Alias      string `json:"alias"`
	Receiver   string `json:"receiver"`
	Soulbind   bool   `json:"soulbind"`
}

type CreateKeyResponse struct {
	Status string `json:"status"`
	KeyID  uint64 `json:"key_id"`
}

type CopyKeyRequest struct {
	UsingKeyID uint64 `json:"using_key_id"`
	Receiver   string `json:"receiver"`
	Soulbind   bool   `json:"soulbind"`
}

type BurnKeyRequest struct {
	UsingKeyID uint64 `json:"using_key_id"`
	Holder     string `json:"holder"`
	Amount     uint64 `json:"amount"`
}

type SoulbindRequest struct {
	UsingKeyID uint64 `json:"using_key_id"`
	Holder     string `json:"holder"`
	Floor      uint64 `json:"floor"`
}

type ValidateRingRequest struct {
	TrustID   uint64   `json:"trust_id"`
	KeyIDs    []uint64 `json:"key_ids"`
	AllowRoot bool     `json:"allow_root"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type GetTrustResponse struct {
	Status string   `json:"status"`
	Data   TrustDTO `json:"data"`
}
