package services

import (
	"errors"
	"math/rand"
	"testing"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
)

func TestBookCreditDebitRoundTrip(t *testing.T) {
	book := NewBook()

	if got := book.Credit(entities.KeyContext, 7, "prov-a", "gold", 100); got != 100 {
		t.Fatalf("credit returned %d, want 100", got)
	}
	if got := book.Amount(entities.KeyContext, 7, "prov-a", "gold"); got != 100 {
		t.Fatalf("amount is %d, want 100", got)
	}

	remaining, err := book.Debit(entities.KeyContext, 7, "prov-a", "gold", 40)
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if remaining != 60 {
		t.Fatalf("remaining is %d, want 60", remaining)
	}
}

func TestBookDebitRejectsOverdraft(t *testing.T) {
	book := NewBook()
	book.Credit(entities.KeyContext, 1, "prov-a", "gold", 10)

	if _, err := book.Debit(entities.KeyContext, 1, "prov-a", "gold", 11); !errors.Is(err, domainerrors.ErrOverdraft) {
		t.Fatalf("expected overdraft, got %v", err)
	}
	if got := book.Amount(entities.KeyContext, 1, "prov-a", "gold"); got != 10 {
		t.Fatalf("failed debit mutated the cell: %d", got)
	}
}

func TestBookRegistryTracksZeroCrossings(t *testing.T) {
	book := NewBook()

	book.Credit(entities.TrustContext, 3, "prov-a", "gold", 5)
	book.Credit(entities.TrustContext, 3, "prov-b", "gold", 5)
	book.Credit(entities.TrustContext, 3, "prov-a", "silver", 1)

	assets := book.Assets(entities.TrustContext, 3, "")
	if len(assets) != 2 || assets[0] != "gold" || assets[1] != "silver" {
		t.Fatalf("unexpected asset registry: %v", assets)
	}
	providers := book.Providers(entities.TrustContext, 3, "gold")
	if len(providers) != 2 || providers[0] != "prov-a" || providers[1] != "prov-b" {
		t.Fatalf("unexpected provider registry: %v", providers)
	}

	if _, err := book.Debit(entities.TrustContext, 3, "prov-a", "gold", 5); err != nil {
		t.Fatalf("debit to zero failed: %v", err)
	}
	providers = book.Providers(entities.TrustContext, 3, "gold")
	if len(providers) != 1 || providers[0] != "prov-b" {
		t.Fatalf("provider not erased on zero-crossing: %v", providers)
	}
	assets = book.Assets(entities.TrustContext, 3, "prov-a")
	if len(assets) != 1 || assets[0] != "silver" {
		t.Fatalf("per-provider asset view wrong after zero-crossing: %v", assets)
	}

	if _, err := book.Debit(entities.TrustContext, 3, "prov-b", "gold", 5); err != nil {
		t.Fatalf("debit to zero failed: %v", err)
	}
	if assets := book.Assets(entities.TrustContext, 3, ""); len(assets) != 1 || assets[0] != "silver" {
		t.Fatalf("asset not erased once no provider holds it: %v", assets)
	}
}

func TestBookAmountAnySumsProviders(t *testing.T) {
	book := NewBook()
	book.Credit(entities.GlobalContext, entities.GlobalContextID, "prov-a", "gold", 30)
	book.Credit(entities.GlobalContext, entities.GlobalContextID, "prov-b", "gold", 12)

	if got := book.AmountAny(entities.GlobalContext, entities.GlobalContextID, "gold"); got != 42 {
		t.Fatalf("aggregate is %d, want 42", got)
	}
}

// Registry membership must always equal "balance is nonzero", no matter the
// order of operations.
func TestBookRegistryMatchesBalancesUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	book := NewBook()
	providers := []string{"prov-a", "prov-b", "prov-c"}
	assets := []string{"gold", "silver", "copper"}

	for i := 0; i < 2000; i++ {
		provider := providers[rng.Intn(len(providers))]
		asset := assets[rng.Intn(len(assets))]
		amount := uint64(rng.Intn(20))
		if rng.Intn(2) == 0 {
			book.Credit(entities.KeyContext, 1, provider, asset, amount)
		} else {
			_, _ = book.Debit(entities.KeyContext, 1, provider, asset, amount)
		}
	}

	for _, provider := range providers {
		for _, asset := range assets {
			balance := book.Amount(entities.KeyContext, 1, provider, asset)
			registered := false
			for _, p := range book.Providers(entities.KeyContext, 1, asset) {
				if p == provider {
					registered = true
				}
			}
			if (balance > 0) != registered {
				t.Fatalf("registry drift for %s/%s: balance=%d registered=%v", provider, asset, balance, registered)
			}
		}
	}
}
