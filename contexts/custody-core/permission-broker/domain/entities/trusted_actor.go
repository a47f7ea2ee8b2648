package entities

import "time"

// Roles known to the core. Role labels are open-ended so policy modules can
// provision their own without a broker change.
const (
	RoleProvider = "provider"
	RoleScribe   = "scribe"
)

// TrustedActor is one member of a (ledger, trust, role) set.
type TrustedActor struct {
	LedgerID string    `json:"ledger_id"`
	TrustID  uint64    `json:"trust_id"`
	Role     string    `json:"role"`
	Actor    string    `json:"actor"`
	Alias    string    `json:"alias"`
	AddedAt  time.Time `json:"added_at"`
}

// Allowance is a withdrawal budget. Remaining is overwritten by the trust's
// root-key holder and decremented by the ledger on each withdrawal.
type Allowance struct {
	LedgerID   string `json:"ledger_id"`
	ProviderID string `json:"provider_id"`
	KeyID      uint64 `json:"key_id"`
	AssetID    string `json:"asset_id"`
	Remaining  uint64 `json:"remaining"`
}
