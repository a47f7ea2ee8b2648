package application

import (
	"context"
	"errors"
	"testing"

	keymemory "custodia/contexts/custody-core/key-registry/adapters/memory"
	keyapplication "custodia/contexts/custody-core/key-registry/application"
	"custodia/contexts/custody-core/permission-broker/adapters/memory"
	"custodia/contexts/custody-core/permission-broker/adapters/trustdir"
	"custodia/contexts/custody-core/permission-broker/domain/entities"
	domainerrors "custodia/contexts/custody-core/permission-broker/domain/errors"
	trustmemory "custodia/contexts/custody-core/trust-service/adapters/memory"
	"custodia/contexts/custody-core/trust-service/adapters/registry"
	trustapplication "custodia/contexts/custody-core/trust-service/application"
	trusterrors "custodia/contexts/custody-core/trust-service/domain/errors"
)

const (
	issuer   = "custody-core/trust-service"
	ledgerID = "ledger-test"
)

type fixture struct {
	broker Service
	trusts trustapplication.Service
	store  *memory.Store

	trustID   uint64
	rootKeyID uint64
	keyID     uint64
}

// newFixture builds a trust owned by alice with one plain key held by bob.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	keyService := keyapplication.Service{
		Repo:   keymemory.NewStore(),
		Issuer: issuer,
	}
	trustStore := trustmemory.NewStore()
	trustService := trustapplication.Service{
		Repo:  trustStore,
		Keys:  registry.Adapter{Keys: keyService, Issuer: issuer},
		Clock: trustStore,
		IDGen: trustStore,
	}

	store := memory.NewStore()
	broker := Service{
		Repo:   store,
		Trusts: trustdir.Adapter{Trusts: trustService},
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	}

	trust, err := trustService.CreateTrust(ctx, "founder", "family-trust", "alice")
	if err != nil {
		t.Fatalf("create trust failed: %v", err)
	}
	keyID, err := trustService.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)
	if err != nil {
		t.Fatalf("create key failed: %v", err)
	}

	return &fixture{
		broker:    broker,
		trusts:    trustService,
		store:     store,
		trustID:   trust.TrustID,
		rootKeyID: trust.RootKeyID,
		keyID:     keyID,
	}
}

func (f *fixture) trustProvider(t *testing.T, provider string) {
	t.Helper()
	if err := f.broker.SetTrustedRole(context.Background(), "alice", f.trustID, entities.RoleProvider, ledgerID, provider, true, ""); err != nil {
		t.Fatalf("trust provider failed: %v", err)
	}
}

func TestSetTrustedRoleRequiresRootHolder(t *testing.T) {
	f := newFixture(t)

	err := f.broker.SetTrustedRole(context.Background(), "bob", f.trustID, entities.RoleProvider, ledgerID, "prov-a", true, "")
	if !errors.Is(err, trusterrors.ErrKeyNotHeld) {
		t.Fatalf("expected key not held, got %v", err)
	}
}

func TestSetTrustedRoleRejectsRedundantAndAbsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trustProvider(t, "prov-a")

	err := f.broker.SetTrustedRole(ctx, "alice", f.trustID, entities.RoleProvider, ledgerID, "prov-a", true, "")
	if !errors.Is(err, domainerrors.ErrRedundantProvision) {
		t.Fatalf("expected redundant provision, got %v", err)
	}
	err = f.broker.SetTrustedRole(ctx, "alice", f.trustID, entities.RoleProvider, ledgerID, "prov-b", false, "")
	if !errors.Is(err, domainerrors.ErrNotCurrentActor) {
		t.Fatalf("expected not current actor, got %v", err)
	}
}

func TestTrustedRoleSetsAreScopedPerLedgerAndRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trustProvider(t, "prov-a")

	trusted, err := f.broker.IsTrusted(ctx, ledgerID, f.trustID, entities.RoleProvider, "prov-a")
	if err != nil || !trusted {
		t.Fatalf("provider should be trusted: %v %v", trusted, err)
	}
	trusted, _ = f.broker.IsTrusted(ctx, "other-ledger", f.trustID, entities.RoleProvider, "prov-a")
	if trusted {
		t.Fatalf("trust must not leak across ledgers")
	}
	trusted, _ = f.broker.IsTrusted(ctx, ledgerID, f.trustID, entities.RoleScribe, "prov-a")
	if trusted {
		t.Fatalf("trust must not leak across roles")
	}
}

func TestAuthorizeDepositRequiresTrustedProvider(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.broker.AuthorizeDeposit(ctx, ledgerID, "prov-a", f.keyID, "gold", 5); !errors.Is(err, domainerrors.ErrUntrustedActor) {
		t.Fatalf("expected untrusted actor, got %v", err)
	}

	f.trustProvider(t, "prov-a")
	trustID, err := f.broker.AuthorizeDeposit(ctx, ledgerID, "prov-a", f.keyID, "gold", 5)
	if err != nil || trustID != f.trustID {
		t.Fatalf("deposit authorization failed: trust=%d err=%v", trustID, err)
	}

	if _, err := f.broker.AuthorizeDeposit(ctx, ledgerID, "prov-a", 999, "gold", 5); !errors.Is(err, domainerrors.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestAuthorizeWithdrawalIsCheckOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trustProvider(t, "prov-a")

	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", f.keyID, "gold", 10); err != nil {
		t.Fatalf("set allowance failed: %v", err)
	}

	if _, err := f.broker.AuthorizeWithdrawal(ctx, ledgerID, "prov-a", f.keyID, "gold", 11); !errors.Is(err, domainerrors.ErrUnapprovedAmount) {
		t.Fatalf("expected unapproved amount, got %v", err)
	}
	if _, err := f.broker.AuthorizeWithdrawal(ctx, ledgerID, "prov-a", f.keyID, "gold", 10); err != nil {
		t.Fatalf("authorization failed: %v", err)
	}

	// The check does not decrement; only ConsumeAllowance does.
	remaining, err := f.broker.AllowanceOf(ctx, ledgerID, "prov-a", f.keyID, "gold")
	if err != nil || remaining != 10 {
		t.Fatalf("allowance is %d (%v), want 10", remaining, err)
	}
	if err := f.broker.ConsumeAllowance(ctx, ledgerID, "prov-a", f.keyID, "gold", 4); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	remaining, _ = f.broker.AllowanceOf(ctx, ledgerID, "prov-a", f.keyID, "gold")
	if remaining != 6 {
		t.Fatalf("allowance is %d, want 6", remaining)
	}
}

func TestSetAllowanceOverwritesAndZeroRevokes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", f.keyID, "gold", 10); err != nil {
		t.Fatalf("set allowance failed: %v", err)
	}
	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", f.keyID, "gold", 3); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	remaining, _ := f.broker.AllowanceOf(ctx, ledgerID, "prov-a", f.keyID, "gold")
	if remaining != 3 {
		t.Fatalf("allowance is %d, want 3 (overwrite, not add)", remaining)
	}

	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", f.keyID, "gold", 0); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	remaining, _ = f.broker.AllowanceOf(ctx, ledgerID, "prov-a", f.keyID, "gold")
	if remaining != 0 {
		t.Fatalf("allowance is %d, want 0", remaining)
	}
}

func TestSetAllowanceGateChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.broker.SetWithdrawalAllowance(ctx, "bob", ledgerID, "prov-a", f.keyID, "gold", 10); !errors.Is(err, trusterrors.ErrKeyNotHeld) {
		t.Fatalf("expected key not held, got %v", err)
	}
	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", 999, "gold", 10); !errors.Is(err, domainerrors.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestAuthorizeDistributionCheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", 999, []uint64{f.keyID}, []uint64{1}); !errors.Is(err, domainerrors.ErrInvalidKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.keyID, []uint64{f.keyID}, []uint64{1}); !errors.Is(err, domainerrors.ErrKeyNotRoot) {
		t.Fatalf("expected key not root, got %v", err)
	}
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, []uint64{f.keyID}, []uint64{1}); !errors.Is(err, domainerrors.ErrUntrustedProvider) {
		t.Fatalf("expected untrusted provider, got %v", err)
	}

	f.trustProvider(t, "prov-a")
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, []uint64{f.keyID}, []uint64{1}); !errors.Is(err, domainerrors.ErrUntrustedActor) {
		t.Fatalf("expected untrusted scribe, got %v", err)
	}

	if err := f.broker.SetTrustedRole(ctx, "alice", f.trustID, entities.RoleScribe, ledgerID, "scribe-1", true, ""); err != nil {
		t.Fatalf("trust scribe failed: %v", err)
	}
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, nil, nil); !errors.Is(err, domainerrors.ErrMissingRequiredEntry) {
		t.Fatalf("expected missing entry, got %v", err)
	}
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, []uint64{f.keyID}, []uint64{1, 2}); !errors.Is(err, domainerrors.ErrSizeMismatch) {
		t.Fatalf("expected size mismatch, got %v", err)
	}
	if _, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, []uint64{f.rootKeyID}, []uint64{1}); !errors.Is(err, trusterrors.ErrRootOnRing) {
		t.Fatalf("expected root on ring, got %v", err)
	}

	trustID, err := f.broker.AuthorizeDistribution(ctx, ledgerID, "scribe-1", "prov-a", "gold", f.rootKeyID, []uint64{f.keyID}, []uint64{1})
	if err != nil || trustID != f.trustID {
		t.Fatalf("distribution authorization failed: trust=%d err=%v", trustID, err)
	}
}

func TestOperationsAppendOutboxEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trustProvider(t, "prov-a")
	if err := f.broker.SetWithdrawalAllowance(ctx, "alice", ledgerID, "prov-a", f.keyID, "gold", 10); err != nil {
		t.Fatalf("set allowance failed: %v", err)
	}

	pending, err := f.store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("listing outbox failed: %v", err)
	}
	counts := map[string]int{}
	for _, msg := range pending {
		counts[msg.EventType]++
	}
	if counts["custody.broker.trusted_role_changed"] != 1 || counts["custody.broker.allowance_assigned"] != 1 {
		t.Fatalf("unexpected outbox contents: %v", counts)
	}
}

func TestTrustedActorsListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trustProvider(t, "prov-b")
	f.trustProvider(t, "prov-a")

	actors, err := f.broker.TrustedActors(ctx, ledgerID, f.trustID, entities.RoleProvider)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(actors) != 2 || actors[0].Actor != "prov-a" || actors[1].Actor != "prov-b" {
		t.Fatalf("unexpected actor list: %v", actors)
	}
}
