package ports

import (
	"context"
	"time"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	sharedevents "custodia/internal/shared/events"
)

// Repository owns balance and registry state. Each write method is one atomic
// unit: all precondition checks happen before any cell or registry changes,
// and a failure leaves state untouched.
type Repository interface {
	Deposit(ctx context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error)
	Withdraw(ctx context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error)

	// Distribute debits the root key and credits each destination key; trust
	// and global balances are untouched since the move stays within the trust.
	// Returns the root key's remaining balance.
	Distribute(ctx context.Context, rootKeyID uint64, providerID string, assetID string, destKeyIDs []uint64, amounts []uint64) (uint64, error)

	Balances(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string, assetIDs []string) ([]uint64, error)
	AssetRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string) ([]string, error)
	ProviderRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, assetID string) ([]string, error)
}

// Authorizer is the ledger's view of the permission broker, with this
// ledger's identity bound by the adapter.
type Authorizer interface {
	AuthorizeDeposit(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (trustID uint64, err error)
	AuthorizeWithdrawal(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (trustID uint64, err error)
	ConsumeAllowance(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) error
	AuthorizeDistribution(ctx context.Context, scribeID string, providerID string, assetID string, rootKeyID uint64, destKeyIDs []uint64, amounts []uint64) (trustID uint64, err error)
}

type DepositRecordedEvent struct {
	ProviderID    string `json:"provider_id"`
	TrustID       uint64 `json:"trust_id"`
	KeyID         uint64 `json:"key_id"`
	AssetID       string `json:"asset_id"`
	Amount        uint64 `json:"amount"`
	KeyBalance    uint64 `json:"key_balance"`
	TrustBalance  uint64 `json:"trust_balance"`
	GlobalBalance uint64 `json:"global_balance"`
}

type WithdrawalRecordedEvent struct {
	ProviderID    string `json:"provider_id"`
	TrustID       uint64 `json:"trust_id"`
	KeyID         uint64 `json:"key_id"`
	AssetID       string `json:"asset_id"`
	Amount        uint64 `json:"amount"`
	KeyBalance    uint64 `json:"key_balance"`
	TrustBalance  uint64 `json:"trust_balance"`
	GlobalBalance uint64 `json:"global_balance"`
}

type DistributionRecordedEvent struct {
	ScribeID    string   `json:"scribe_id"`
	ProviderID  string   `json:"provider_id"`
	AssetID     string   `json:"asset_id"`
	RootKeyID   uint64   `json:"root_key_id"`
	TrustID     uint64   `json:"trust_id"`
	DestKeyIDs  []uint64 `json:"dest_key_ids"`
	Amounts     []uint64 `json:"amounts"`
	RootBalance uint64   `json:"root_balance"`
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
