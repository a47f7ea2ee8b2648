package ports

import (
	"context"
	"time"

	"custodia/contexts/custody-core/trust-service/domain/entities"
	sharedevents "custodia/internal/shared/events"
)

type Repository interface {
	CreateTrust(ctx context.Context, trust entities.Trust) error
	GetTrust(ctx context.Context, trustID uint64) (entities.Trust, error)
	IncrementKeyCount(ctx context.Context, trustID uint64) (uint64, error)

	// NextTrustID and NextKeyID are monotonic counters. The key counter is
	// global across all trusts.
	NextTrustID(ctx context.Context) (uint64, error)
	NextKeyID(ctx context.Context) (uint64, error)
}

// KeyRegistry is the trust service's view of the capability key registry.
// The adapter binds this module's issuer identity to every call.
type KeyRegistry interface {
	RegisterKey(ctx context.Context, keyID uint64, trustID uint64, alias string, root bool) error
	MintKey(ctx context.Context, keyID uint64, holder string, amount uint64, soulbind bool) error
	BurnKey(ctx context.Context, keyID uint64, holder string, amount uint64) error
	SetFloor(ctx context.Context, keyID uint64, holder string, floor uint64) error
	KeyInfo(ctx context.Context, keyID uint64) (trustID uint64, root bool, found bool, err error)
	BalanceOf(ctx context.Context, keyID uint64, holder string) (uint64, error)
}

type TrustCreatedEvent struct {
	Creator      string `json:"creator"`
	TrustID      uint64 `json:"trust_id"`
	Name         string `json:"name"`
	RootReceiver string `json:"root_receiver"`
	RootKeyID    uint64 `json:"root_key_id"`
}

type KeyMintedEvent struct {
	Minter   string `json:"minter"`
	TrustID  uint64 `json:"trust_id"`
	KeyID    uint64 `json:"key_id"`
	Alias    string `json:"alias"`
	Receiver string `json:"receiver"`
	Soulbind bool   `json:"soulbind"`
}

type KeyBurnedEvent struct {
	Burner  string `json:"burner"`
	TrustID uint64 `json:"trust_id"`
	KeyID   uint64 `json:"key_id"`
	Holder  string `json:"holder"`
	Amount  uint64 `json:"amount"`
}

type SoulboundFloorSetEvent struct {
	Setter string `json:"setter"`
	Holder string `json:"holder"`
	KeyID  uint64 `json:"key_id"`
	Floor  uint64 `json:"floor"`
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
