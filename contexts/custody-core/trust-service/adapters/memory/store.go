package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"custodia/contexts/custody-core/trust-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/trust-service/domain/errors"
	"custodia/contexts/custody-core/trust-service/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Store struct {
	mu sync.RWMutex

	trusts   map[uint64]entities.Trust
	trustSeq uint64
	keySeq   uint64
	outbox   map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		trusts: make(map[uint64]entities.Trust),
		outbox: make(map[string]outboxRecord),
	}
}

func (s *Store) CreateTrust(_ context.Context, trust entities.Trust) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trusts[trust.TrustID]; exists {
		return domainerrors.ErrInvalidInput
	}
	s.trusts[trust.TrustID] = trust
	return nil
}

func (s *Store) GetTrust(_ context.Context, trustID uint64) (entities.Trust, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trust, ok := s.trusts[trustID]
	if !ok {
		return entities.Trust{}, domainerrors.ErrTrustNotFound
	}
	return trust, nil
}

func (s *Store) IncrementKeyCount(_ context.Context, trustID uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trust, ok := s.trusts[trustID]
	if !ok {
		return 0, domainerrors.ErrTrustNotFound
	}
	trust.KeyCount++
	s.trusts[trustID] = trust
	return trust.KeyCount, nil
}

func (s *Store) NextTrustID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trustSeq++
	return s.trustSeq, nil
}

func (s *Store) NextKeyID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keySeq++
	return s.keySeq, nil
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
