package entities

import "time"

// Trust is an isolated accounting domain with its own key namespace and root
// authority. KeyCount increases monotonically as keys are issued; trusts are
// never deleted.
type Trust struct {
	TrustID   uint64    `json:"trust_id"`
	Name      string    `json:"name"`
	RootKeyID uint64    `json:"root_key_id"`
	KeyCount  uint64    `json:"key_count"`
	CreatedAt time.Time `json:"created_at"`
}
