package entities

// ContextKind selects one of the three nested balance views.
type ContextKind string

const (
	KeyContext    ContextKind = "key"
	TrustContext  ContextKind = "trust"
	GlobalContext ContextKind = "global"
)

// GlobalContextID is the single context id used in the global view.
const GlobalContextID uint64 = 0

func ParseContext(raw string) (ContextKind, bool) {
	switch ContextKind(raw) {
	case KeyContext, TrustContext, GlobalContext:
		return ContextKind(raw), true
	default:
		return "", false
	}
}

// BalanceAfter carries the post-operation balance at all three levels so
// callers can reconcile without extra reads.
type BalanceAfter struct {
	Key    uint64 `json:"key"`
	Trust  uint64 `json:"trust"`
	Global uint64 `json:"global"`
}

// BalanceSheet pairs a context's registered assets with their amounts.
type BalanceSheet struct {
	Assets  []string `json:"assets"`
	Amounts []uint64 `json:"amounts"`
}
