package entities

// Key is the registry record for one capability key id.
// TrustID is immutable once the key is registered; Root is true only for the
// key minted alongside trust creation.
type Key struct {
	KeyID   uint64 `json:"key_id"`
	TrustID uint64 `json:"trust_id"`
	Alias   string `json:"alias"`
	Root    bool   `json:"root"`
}

// Holding is one holder's position in a key. Floor caps how much of the
// balance may be transferred away: transferable = Balance - Floor.
type Holding struct {
	Holder  string `json:"holder"`
	KeyID   uint64 `json:"key_id"`
	Balance uint64 `json:"balance"`
	Floor   uint64 `json:"floor"`
}

// Transferable returns the amount the holder may move without breaching the
// soulbound floor.
func (h Holding) Transferable() uint64 {
	if h.Floor >= h.Balance {
		return 0
	}
	return h.Balance - h.Floor
}
