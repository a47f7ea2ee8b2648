package ports

import (
	"context"
	"time"

	"custodia/contexts/custody-core/permission-broker/domain/entities"
	sharedevents "custodia/internal/shared/events"
)

type Repository interface {
	AddTrustedActor(ctx context.Context, member entities.TrustedActor) error
	RemoveTrustedActor(ctx context.Context, ledgerID string, trustID uint64, role string, actor string) error
	IsTrusted(ctx context.Context, ledgerID string, trustID uint64, role string, actor string) (bool, error)
	ListTrustedActors(ctx context.Context, ledgerID string, trustID uint64, role string) ([]entities.TrustedActor, error)

	// SetAllowance overwrites; ConsumeAllowance decrements atomically and
	// fails ErrUnapprovedAmount without mutating when the budget is short.
	SetAllowance(ctx context.Context, allowance entities.Allowance) error
	GetAllowance(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string) (uint64, error)
	ConsumeAllowance(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error)
}

// TrustDirectory is the broker's view of the trust service.
type TrustDirectory interface {
	KeyTrust(ctx context.Context, keyID uint64) (trustID uint64, root bool, found bool, err error)
	RequireRootHolder(ctx context.Context, actor string, trustID uint64) (rootKeyID uint64, err error)
	ValidateKeyRing(ctx context.Context, trustID uint64, keyIDs []uint64, allowRoot bool) error
}

type TrustedRoleChangedEvent struct {
	Actor       string `json:"actor"`
	TrustID     uint64 `json:"trust_id"`
	RootKeyID   uint64 `json:"root_key_id"`
	LedgerID    string `json:"ledger_id"`
	TargetActor string `json:"target_actor"`
	Trusted     bool   `json:"trusted"`
	Role        string `json:"role"`
}

type AllowanceAssignedEvent struct {
	Actor      string `json:"actor"`
	KeyID      uint64 `json:"key_id"`
	LedgerID   string `json:"ledger_id"`
	ProviderID string `json:"provider_id"`
	AssetID    string `json:"asset_id"`
	Amount     uint64 `json:"amount"`
}

type EventEnvelope = sharedevents.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
