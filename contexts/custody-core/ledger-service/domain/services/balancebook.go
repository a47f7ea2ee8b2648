package services

import (
	"sort"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
)

type cellKey struct {
	Kind     entities.ContextKind
	ID       uint64
	Provider string
	Asset    string
}

type contextKey struct {
	Kind entities.ContextKind
	ID   uint64
}

// Book holds balance cells and the registries derived from them. Registry
// membership is updated only inside Credit and Debit, on zero-crossings, so
// an asset/provider pair is registered iff its balance is nonzero.
//
// Book is not safe for concurrent use; callers hold their own lock.
type Book struct {
	amounts map[cellKey]uint64
	// per context: asset -> providers with a nonzero balance in that asset
	registry map[contextKey]map[string]map[string]struct{}
}

func NewBook() *Book {
	return &Book{
		amounts:  make(map[cellKey]uint64),
		registry: make(map[contextKey]map[string]map[string]struct{}),
	}
}

func (b *Book) Amount(kind entities.ContextKind, id uint64, provider string, asset string) uint64 {
	return b.amounts[cellKey{Kind: kind, ID: id, Provider: provider, Asset: asset}]
}

// AmountAny sums the asset's balance across every provider in the context.
func (b *Book) AmountAny(kind entities.ContextKind, id uint64, asset string) uint64 {
	var total uint64
	for provider := range b.registry[contextKey{Kind: kind, ID: id}][asset] {
		total += b.Amount(kind, id, provider, asset)
	}
	return total
}

func (b *Book) Credit(kind entities.ContextKind, id uint64, provider string, asset string, amount uint64) uint64 {
	if amount == 0 {
		return b.Amount(kind, id, provider, asset)
	}
	key := cellKey{Kind: kind, ID: id, Provider: provider, Asset: asset}
	current := b.amounts[key]
	next := current + amount
	b.amounts[key] = next
	if current == 0 {
		b.register(kind, id, provider, asset)
	}
	return next
}

func (b *Book) Debit(kind entities.ContextKind, id uint64, provider string, asset string, amount uint64) (uint64, error) {
	if amount == 0 {
		return b.Amount(kind, id, provider, asset), nil
	}
	key := cellKey{Kind: kind, ID: id, Provider: provider, Asset: asset}
	current := b.amounts[key]
	if current < amount {
		return 0, domainerrors.ErrOverdraft
	}
	next := current - amount
	if next == 0 {
		delete(b.amounts, key)
		b.unregister(kind, id, provider, asset)
		return 0, nil
	}
	b.amounts[key] = next
	return next, nil
}

// Assets lists the context's registered assets; with provider set, only
// assets where that provider holds a nonzero balance.
func (b *Book) Assets(kind entities.ContextKind, id uint64, provider string) []string {
	assets := make([]string, 0)
	for asset, providers := range b.registry[contextKey{Kind: kind, ID: id}] {
		if provider != "" {
			if _, ok := providers[provider]; !ok {
				continue
			}
		}
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

func (b *Book) Providers(kind entities.ContextKind, id uint64, asset string) []string {
	providers := make([]string, 0, len(b.registry[contextKey{Kind: kind, ID: id}][asset]))
	for provider := range b.registry[contextKey{Kind: kind, ID: id}][asset] {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

func (b *Book) register(kind entities.ContextKind, id uint64, provider string, asset string) {
	ctx := contextKey{Kind: kind, ID: id}
	assets := b.registry[ctx]
	if assets == nil {
		assets = make(map[string]map[string]struct{})
		b.registry[ctx] = assets
	}
	providers := assets[asset]
	if providers == nil {
		providers = make(map[string]struct{})
		assets[asset] = providers
	}
	providers[provider] = struct{}{}
}

func (b *Book) unregister(kind entities.ContextKind, id uint64, provider string, asset string) {
	ctx := contextKey{Kind: kind, ID: id}
	assets := b.registry[ctx]
	providers := assets[asset]
	delete(providers, provider)
	if len(providers) == 0 {
		delete(assets, asset)
	}
	if len(assets) == 0 {
		delete(b.registry, ctx)
	}
}
