package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HoldingDTO struct {
	Holder       string `json:"holder"`
	KeyID        uint64 `json:"key_id"`
	Balance      uint64 `json:"balance"`
	Floor        uint64 `json:"floor"`
	Transferable uint64 `json:"transferable"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

type TransferResponse struct {
	Status string     `json:"status"`
	From   HoldingDTO `json:"from"`
	To     HoldingDTO `json:"to"`
}

type HoldersResponse struct {
	Status string       `json:"status"`
	Data   []HoldingDTO `json:"data"`
}

type HolderKeysResponse struct {
	Status string       `json:"status"`
	Data   []HoldingDTO `json:"data"`
}
