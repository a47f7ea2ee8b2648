package memory

import (
	"context"
	"sort"
	"sync"

	"custodia/contexts/custody-core/key-registry/domain/entities"
	domainerrors "custodia/contexts/custody-core/key-registry/domain/errors"
)

type Store struct {
	mu sync.RWMutex

	keys     map[uint64]entities.Key
	holdings map[uint64]map[string]entities.Holding
	byHolder map[string]map[uint64]struct{}
}

func NewStore() *Store {
	return &Store{
		keys:     make(map[uint64]entities.Key),
		holdings: make(map[uint64]map[string]entities.Holding),
		byHolder: make(map[string]map[uint64]struct{}),
	}
}

func (s *Store) CreateKey(_ context.Context, key entities.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key.KeyID]; exists {
		return domainerrors.ErrKeyExists
	}
	s.keys[key.KeyID] = key
	return nil
}

func (s *Store) GetKey(_ context.Context, keyID uint64) (entities.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[keyID]
	if !ok {
		return entities.Key{}, domainerrors.ErrKeyNotFound
	}
	return key, nil
}

func (s *Store) Mint(_ context.Context, keyID uint64, holder string, amount uint64, soulbind bool) (entities.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[keyID]; !ok {
		return entities.Holding{}, domainerrors.ErrKeyNotFound
	}
	holding := s.holdings[keyID][holder]
	holding.Holder = holder
	holding.KeyID = keyID
	holding.Balance += amount
	if soulbind {
		holding.Floor += amount
	}
	s.putHolding(holding)
	return holding, nil
}

func (s *Store) Burn(_ context.Context, keyID uint64, holder string, amount uint64) (entities.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[keyID]; !ok {
		return entities.Holding{}, domainerrors.ErrKeyNotFound
	}
	holding, ok := s.holdings[keyID][holder]
	if !ok || holding.Balance < amount {
		return entities.Holding{}, domainerrors.ErrInsufficientBalance
	}
	holding.Balance -= amount
	// Floor never exceeds balance: burning below a soulbound floor lowers it.
	if holding.Floor > holding.Balance {
		holding.Floor = holding.Balance
	}
	s.putHolding(holding)
	return holding, nil
}

func (s *Store) SetFloor(_ context.Context, keyID uint64, holder string, floor uint64) (entities.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[keyID]; !ok {
		return entities.Holding{}, domainerrors.ErrKeyNotFound
	}
	holding, ok := s.holdings[keyID][holder]
	if !ok {
		holding = entities.Holding{Holder: holder, KeyID: keyID}
	}
	if floor > holding.Balance {
		return entities.Holding{}, domainerrors.ErrFloorExceedsBalance
	}
	holding.Floor = floor
	s.putHolding(holding)
	return holding, nil
}

func (s *Store) Transfer(_ context.Context, keyID uint64, from string, to string, amount uint64) (entities.Holding, entities.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[keyID]; !ok {
		return entities.Holding{}, entities.Holding{}, domainerrors.ErrKeyNotFound
	}
	fromHolding, ok := s.holdings[keyID][from]
	if !ok || fromHolding.Balance < amount {
		return entities.Holding{}, entities.Holding{}, domainerrors.ErrInsufficientBalance
	}
	if fromHolding.Balance-amount < fromHolding.Floor {
		return entities.Holding{}, entities.Holding{}, domainerrors.ErrSoulBreach
	}
	toHolding := s.holdings[keyID][to]
	toHolding.Holder = to
	toHolding.KeyID = keyID

	fromHolding.Balance -= amount
	toHolding.Balance += amount
	s.putHolding(fromHolding)
	s.putHolding(toHolding)
	return fromHolding, toHolding, nil
}

func (s *Store) GetHolding(_ context.Context, keyID uint64, holder string) (entities.Holding, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	holding, ok := s.holdings[keyID][holder]
	return holding, ok, nil
}

func (s *Store) HoldersOf(_ context.Context, keyID uint64) ([]entities.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Holding, 0, len(s.holdings[keyID]))
	for _, holding := range s.holdings[keyID] {
		items = append(items, holding)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Holder < items[j].Holder
	})
	return items, nil
}

func (s *Store) KeysOf(_ context.Context, holder string) ([]entities.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Holding, 0, len(s.byHolder[holder]))
	for keyID := range s.byHolder[holder] {
		if holding, ok := s.holdings[keyID][holder]; ok {
			items = append(items, holding)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].KeyID < items[j].KeyID
	})
	return items, nil
}

// putHolding stores the holding and keeps holder/key indexes aligned with
// zero-crossings: a holder is indexed iff its balance is nonzero.
func (s *Store) putHolding(holding entities.Holding) {
	perKey := s.holdings[holding.KeyID]
	if perKey == nil {
		perKey = make(map[string]entities.Holding)
		s.holdings[holding.KeyID] = perKey
	}
	if holding.Balance == 0 {
		delete(perKey, holding.Holder)
		if keys := s.byHolder[holding.Holder]; keys != nil {
			delete(keys, holding.KeyID)
			if len(keys) == 0 {
				delete(s.byHolder, holding.Holder)
			}
		}
		return
	}
	perKey[holding.Holder] = holding
	keys := s.byHolder[holding.Holder]
	if keys == nil {
		keys = make(map[uint64]struct{})
		s.byHolder[holding.Holder] = keys
	}
	keys[holding.KeyID] = struct{}{}
}
