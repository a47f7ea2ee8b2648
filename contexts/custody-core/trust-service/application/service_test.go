package application

import (
	"context"
	"errors"
	"testing"

	keymemory "custodia/contexts/custody-core/key-registry/adapters/memory"
	keyapplication "custodia/contexts/custody-core/key-registry/application"
	keyerrors "custodia/contexts/custody-core/key-registry/domain/errors"
	"custodia/contexts/custody-core/trust-service/adapters/memory"
	"custodia/contexts/custody-core/trust-service/adapters/registry"
	domainerrors "custodia/contexts/custody-core/trust-service/domain/errors"
)

const issuer = "custody-core/trust-service"

func newTestService(t *testing.T) (Service, keyapplication.Service, *memory.Store) {
	t.Helper()
	keyService := keyapplication.Service{
		Repo:   keymemory.NewStore(),
		Issuer: issuer,
	}
	store := memory.NewStore()
	service := Service{
		Repo:   store,
		Keys:   registry.Adapter{Keys: keyService, Issuer: issuer},
		Outbox: store,
		Clock:  store,
		IDGen:  store,
	}
	return service, keyService, store
}

func TestCreateTrustMintsRootKey(t *testing.T) {
	service, keyService, _ := newTestService(t)
	ctx := context.Background()

	trust, err := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	if err != nil {
		t.Fatalf("create trust failed: %v", err)
	}
	if trust.TrustID == 0 || trust.RootKeyID == 0 || trust.KeyCount != 1 {
		t.Fatalf("unexpected trust: %+v", trust)
	}

	balance, err := keyService.BalanceOf(ctx, trust.RootKeyID, "alice")
	if err != nil || balance != 1 {
		t.Fatalf("root holder balance is %d (%v), want 1", balance, err)
	}
	trustID, root, found, err := service.KeyTrust(ctx, trust.RootKeyID)
	if err != nil || !found || !root || trustID != trust.TrustID {
		t.Fatalf("root key resolution wrong: trust=%d root=%v found=%v err=%v", trustID, root, found, err)
	}
}

func TestCreateKeyRequiresRootAuthority(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	trust, err := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	if err != nil {
		t.Fatalf("create trust failed: %v", err)
	}

	if _, err := service.CreateKey(ctx, "bob", trust.RootKeyID, "ops", "bob", false); !errors.Is(err, domainerrors.ErrKeyNotHeld) {
		t.Fatalf("expected key not held, got %v", err)
	}

	keyID, err := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)
	if err != nil {
		t.Fatalf("create key failed: %v", err)
	}

	// A plain key grants no minting authority even to its holder.
	if _, err := service.CreateKey(ctx, "bob", keyID, "more", "bob", false); !errors.Is(err, domainerrors.ErrKeyNotRoot) {
		t.Fatalf("expected key not root, got %v", err)
	}

	got, err := service.GetTrust(ctx, trust.TrustID)
	if err != nil || got.KeyCount != 2 {
		t.Fatalf("key count is %d (%v), want 2", got.KeyCount, err)
	}
}

func TestCopyKeyMintsIntoExistingKey(t *testing.T) {
	service, keyService, _ := newTestService(t)
	ctx := context.Background()

	trust, _ := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	keyID, err := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)
	if err != nil {
		t.Fatalf("create key failed: %v", err)
	}

	if err := service.CopyKey(ctx, "alice", trust.RootKeyID, keyID, "carol", false); err != nil {
		t.Fatalf("copy key failed: %v", err)
	}
	balance, err := keyService.BalanceOf(ctx, keyID, "carol")
	if err != nil || balance != 1 {
		t.Fatalf("copy receiver balance is %d (%v), want 1", balance, err)
	}
}

func TestCopyKeyRejectsForeignTrustKey(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	first, _ := service.CreateTrust(ctx, "founder", "first", "alice")
	second, _ := service.CreateTrust(ctx, "founder", "second", "dave")
	foreignKeyID, err := service.CreateKey(ctx, "dave", second.RootKeyID, "ops", "dave", false)
	if err != nil {
		t.Fatalf("create key failed: %v", err)
	}

	if err := service.CopyKey(ctx, "alice", first.RootKeyID, foreignKeyID, "bob", false); !errors.Is(err, domainerrors.ErrTrustKeyNotFound) {
		t.Fatalf("expected trust key not found, got %v", err)
	}
}

func TestBurnKeyRemovesUnits(t *testing.T) {
	service, keyService, _ := newTestService(t)
	ctx := context.Background()

	trust, _ := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	keyID, _ := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)

	if err := service.BurnKey(ctx, "alice", trust.RootKeyID, keyID, "bob", 1); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	balance, err := keyService.BalanceOf(ctx, keyID, "bob")
	if err != nil || balance != 0 {
		t.Fatalf("balance after burn is %d (%v), want 0", balance, err)
	}

	if err := service.BurnKey(ctx, "alice", trust.RootKeyID, keyID, "bob", 1); !errors.Is(err, keyerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestSoulboundFloorBlocksTransfers(t *testing.T) {
	service, keyService, _ := newTestService(t)
	ctx := context.Background()

	trust, _ := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	keyID, _ := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)

	if err := service.SetSoulboundFloor(ctx, "alice", trust.RootKeyID, "bob", keyID, 1); err != nil {
		t.Fatalf("set floor failed: %v", err)
	}
	if _, _, err := keyService.Transfer(ctx, "bob", "carol", keyID, 1); !errors.Is(err, keyerrors.ErrSoulBreach) {
		t.Fatalf("expected soul breach, got %v", err)
	}

	// Floor zero unbinds.
	if err := service.SetSoulboundFloor(ctx, "alice", trust.RootKeyID, "bob", keyID, 0); err != nil {
		t.Fatalf("unbind failed: %v", err)
	}
	if _, _, err := keyService.Transfer(ctx, "bob", "carol", keyID, 1); err != nil {
		t.Fatalf("transfer after unbind failed: %v", err)
	}
}

func TestValidateKeyRing(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	trust, _ := service.CreateTrust(ctx, "founder", "first", "alice")
	other, _ := service.CreateTrust(ctx, "founder", "second", "dave")
	keyID, _ := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false)
	foreignKeyID, _ := service.CreateKey(ctx, "dave", other.RootKeyID, "ops", "dave", false)

	if err := service.ValidateKeyRing(ctx, trust.TrustID, []uint64{keyID}, false); err != nil {
		t.Fatalf("valid ring rejected: %v", err)
	}
	if err := service.ValidateKeyRing(ctx, trust.TrustID, []uint64{keyID, 999}, false); !errors.Is(err, domainerrors.ErrInvalidKeyOnRing) {
		t.Fatalf("expected invalid key on ring, got %v", err)
	}
	if err := service.ValidateKeyRing(ctx, trust.TrustID, []uint64{foreignKeyID}, false); !errors.Is(err, domainerrors.ErrNonTrustKey) {
		t.Fatalf("expected non trust key, got %v", err)
	}
	if err := service.ValidateKeyRing(ctx, trust.TrustID, []uint64{trust.RootKeyID}, false); !errors.Is(err, domainerrors.ErrRootOnRing) {
		t.Fatalf("expected root on ring, got %v", err)
	}
	if err := service.ValidateKeyRing(ctx, trust.TrustID, []uint64{trust.RootKeyID, keyID}, true); err != nil {
		t.Fatalf("allowRoot ring rejected: %v", err)
	}
}

func TestOperationsAppendOutboxEvents(t *testing.T) {
	service, _, store := newTestService(t)
	ctx := context.Background()

	trust, err := service.CreateTrust(ctx, "founder", "family-trust", "alice")
	if err != nil {
		t.Fatalf("create trust failed: %v", err)
	}
	if _, err := service.CreateKey(ctx, "alice", trust.RootKeyID, "ops", "bob", false); err != nil {
		t.Fatalf("create key failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("outbox list failed: %v", err)
	}
	// trust.created + root key.minted + key.minted
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending events, got %d", len(pending))
	}
	counts := make(map[string]int)
	for _, message := range pending {
		counts[message.EventType]++
	}
	if counts["custody.trust.created"] != 1 || counts["custody.key.minted"] != 2 {
		t.Fatalf("unexpected event mix: %v", counts)
	}
}
