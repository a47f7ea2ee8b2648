package memory

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
	"custodia/contexts/custody-core/ledger-service/domain/services"
	"custodia/contexts/custody-core/ledger-service/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	book   *services.Book
	outbox map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		book:   services.NewBook(),
		outbox: make(map[string]outboxRecord),
	}
}

func (s *Store) Deposit(_ context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.book.Credit(entities.KeyContext, keyID, providerID, assetID, amount)
	trust := s.book.Credit(entities.TrustContext, trustID, providerID, assetID, amount)
	global := s.book.Credit(entities.GlobalContext, entities.GlobalContextID, providerID, assetID, amount)
	return entities.BalanceAfter{Key: key, Trust: trust, Global: global}, nil
}

func (s *Store) Withdraw(_ context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.book.Amount(entities.KeyContext, keyID, providerID, assetID) < amount {
		return entities.BalanceAfter{}, domainerrors.ErrOverdraft
	}
	key, err := s.book.Debit(entities.KeyContext, keyID, providerID, assetID, amount)
	if err != nil {
		return entities.BalanceAfter{}, err
	}
	trust, err := s.book.Debit(entities.TrustContext, trustID, providerID, assetID, amount)
	if err != nil {
		return entities.BalanceAfter{}, err
	}
	global, err := s.book.Debit(entities.GlobalContext, entities.GlobalContextID, providerID, assetID, amount)
	if err != nil {
		return entities.BalanceAfter{}, err
	}
	return entities.BalanceAfter{Key: key, Trust: trust, Global: global}, nil
}

func (s *Store) Distribute(_ context.Context, rootKeyID uint64, providerID string, assetID string, destKeyIDs []uint64, amounts []uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total uint64
	for _, amount := range amounts {
		if amount > math.MaxUint64-total {
			return 0, domainerrors.ErrAmountOverflow
		}
		total += amount
	}
	if s.book.Amount(entities.KeyContext, rootKeyID, providerID, assetID) < total {
		return 0, domainerrors.ErrOverdraft
	}

	remaining, err := s.book.Debit(entities.KeyContext, rootKeyID, providerID, assetID, total)
	if err != nil {
		return 0, err
	}
	for i, destKeyID := range destKeyIDs {
		s.book.Credit(entities.KeyContext, destKeyID, providerID, assetID, amounts[i])
	}
	return remaining, nil
}

func (s *Store) Balances(_ context.Context, kind entities.ContextKind, contextID uint64, providerID string, assetIDs []string) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amounts := make([]uint64, len(assetIDs))
	for i, assetID := range assetIDs {
		if providerID == "" {
			amounts[i] = s.book.AmountAny(kind, contextID, assetID)
			continue
		}
		amounts[i] = s.book.Amount(kind, contextID, providerID, assetID)
	}
	return amounts, nil
}

func (s *Store) AssetRegistry(_ context.Context, kind entities.ContextKind, contextID uint64, providerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.book.Assets(kind, contextID, providerID), nil
}

func (s *Store) ProviderRegistry(_ context.Context, kind entities.ContextKind, contextID uint64, assetID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.book.Providers(kind, contextID, assetID), nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID := uuid.NewString()
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.EntityID,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAtUTC,
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.Status == outboxStatusPending {
			items = append(items, record.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrInvalidInput
	}
	record.Status = outboxStatusPublished
	record.PublishedAt = &publishedAt
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
