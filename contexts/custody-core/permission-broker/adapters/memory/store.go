package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"custodia/contexts/custody-core/permission-broker/domain/entities"
	domainerrors "custodia/contexts/custody-core/permission-broker/domain/errors"
	"custodia/contexts/custody-core/permission-broker/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type roleKey struct {
	LedgerID string
	TrustID  uint64
	Role     string
}

type allowanceKey struct {
	LedgerID   string
	ProviderID string
	KeyID      uint64
	AssetID    string
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

type Store struct {
	mu sync.RWMutex

	roles      map[roleKey]map[string]entities.TrustedActor
	allowances map[allowanceKey]uint64
	outbox     map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		roles:      make(map[roleKey]map[string]entities.TrustedActor),
		allowances: make(map[allowanceKey]uint64),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) AddTrustedActor(_ context.Context, member entities.TrustedActor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := roleKey{LedgerID: member.LedgerID, TrustID: member.TrustID, Role: member.Role}
	set := s.roles[key]
	if set == nil {
		set = make(map[string]entities.TrustedActor)
		s.roles[key] = set
	}
	if _, exists := set[member.Actor]; exists {
		return domainerrors.ErrRedundantProvision
	}
	set[member.Actor] = member
	return nil
}

func (s *Store) RemoveTrustedActor(_ context.Context, ledgerID string, trustID uint64, role string, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := roleKey{LedgerID: ledgerID, TrustID: trustID, Role: role}
	set := s.roles[key]
	if set == nil {
		return domainerrors.ErrNotCurrentActor
	}
	if _, exists := set[actor]; !exists {
		return domainerrors.ErrNotCurrentActor
	}
	delete(set, actor)
	if len(set) == 0 {
		delete(s.roles, key)
	}
	return nil
}

func (s *Store) IsTrusted(_ context.Context, ledgerID string, trustID uint64, role string, actor string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.roles[roleKey{LedgerID: ledgerID, TrustID: trustID, Role: role}]
	if set == nil {
		return false, nil
	}
	_, exists := set[actor]
	return exists, nil
}

func (s *Store) ListTrustedActors(_ context.Context, ledgerID string, trustID uint64, role string) ([]entities.TrustedActor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.roles[roleKey{LedgerID: ledgerID, TrustID: trustID, Role: role}]
	items := make([]entities.TrustedActor, 0, len(set))
	for _, member := range set {
		items = append(items, member)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Actor < items[j].Actor
	})
	return items, nil
}

func (s *Store) SetAllowance(_ context.Context, allowance entities.Allowance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := allowanceKey{
		LedgerID:   allowance.LedgerID,
		ProviderID: allowance.ProviderID,
		KeyID:      allowance.KeyID,
		AssetID:    allowance.AssetID,
	}
	if allowance.Remaining == 0 {
		delete(s.allowances, key)
		return nil
	}
	s.allowances[key] = allowance.Remaining
	return nil
}

func (s *Store) GetAllowance(_ context.Context, ledgerID string, providerID string, keyID uint64, assetID string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.allowances[allowanceKey{LedgerID: ledgerID, ProviderID: providerID, KeyID: keyID, AssetID: assetID}], nil
}

func (s *Store) ConsumeAllowance(_ context.Context, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := allowanceKey{LedgerID: ledgerID, ProviderID: providerID, KeyID: keyID, AssetID: assetID}
	remaining := s.allowances[key]
	if remaining < amount {
		return 0, domainerrors.ErrUnapprovedAmount
	}
	remaining -= amount
	if remaining == 0 {
		delete(s.allowances, key)
	} else {
		s.allowances[key] = remaining
	}
	return remaining, nil
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
