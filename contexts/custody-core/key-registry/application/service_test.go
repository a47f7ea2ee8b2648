package application

import (
	"context"
	"errors"
	"testing"

	"custodia/contexts/custody-core/key-registry/adapters/memory"
	"custodia/contexts/custody-core/key-registry/domain/entities"
	domainerrors "custodia/contexts/custody-core/key-registry/domain/errors"
)

const issuer = "issuer-1"

func newTestService() Service {
	return Service{
		Repo:   memory.NewStore(),
		Issuer: issuer,
	}
}

func registerAndMint(t *testing.T, service Service, keyID uint64, holder string, amount uint64) {
	t.Helper()
	ctx := context.Background()
	if err := service.Register(ctx, issuer, entities.Key{KeyID: keyID, TrustID: 1, Alias: "key"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := service.Mint(ctx, issuer, keyID, holder, amount, false); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
}

func TestMutationsAreIssuerGated(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	if err := service.Register(ctx, "stranger", entities.Key{KeyID: 1, TrustID: 1}); !errors.Is(err, domainerrors.ErrNotAuthorizedIssuer) {
		t.Fatalf("register: expected issuer gate, got %v", err)
	}
	if _, err := service.Mint(ctx, "stranger", 1, "alice", 1, false); !errors.Is(err, domainerrors.ErrNotAuthorizedIssuer) {
		t.Fatalf("mint: expected issuer gate, got %v", err)
	}
	if _, err := service.Burn(ctx, "", 1, "alice", 1); !errors.Is(err, domainerrors.ErrNotAuthorizedIssuer) {
		t.Fatalf("burn: expected issuer gate, got %v", err)
	}
	if _, err := service.SetSoulboundFloor(ctx, "stranger", 1, "alice", 1); !errors.Is(err, domainerrors.ErrNotAuthorizedIssuer) {
		t.Fatalf("set floor: expected issuer gate, got %v", err)
	}
}

func TestRegisterRejectsDuplicateKeyID(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	if err := service.Register(ctx, issuer, entities.Key{KeyID: 1, TrustID: 1}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := service.Register(ctx, issuer, entities.Key{KeyID: 1, TrustID: 2}); !errors.Is(err, domainerrors.ErrKeyExists) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestMintThenBalance(t *testing.T) {
	service := newTestService()
	registerAndMint(t, service, 1, "alice", 3)

	balance, err := service.BalanceOf(context.Background(), 1, "alice")
	if err != nil || balance != 3 {
		t.Fatalf("balance is %d (%v), want 3", balance, err)
	}
	if balance, _ := service.BalanceOf(context.Background(), 1, "bob"); balance != 0 {
		t.Fatalf("absent holder should read zero, got %d", balance)
	}
}

func TestBurnClampsFloorToBalance(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	registerAndMint(t, service, 1, "alice", 5)

	if _, err := service.SetSoulboundFloor(ctx, issuer, 1, "alice", 5); err != nil {
		t.Fatalf("set floor failed: %v", err)
	}
	holding, err := service.Burn(ctx, issuer, 1, "alice", 2)
	if err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	if holding.Balance != 3 || holding.Floor != 3 {
		t.Fatalf("floor not clamped: balance=%d floor=%d", holding.Balance, holding.Floor)
	}
}

func TestBurnRejectsInsufficientBalance(t *testing.T) {
	service := newTestService()
	registerAndMint(t, service, 1, "alice", 2)

	if _, err := service.Burn(context.Background(), issuer, 1, "alice", 3); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestSetFloorRejectsFloorAboveBalance(t *testing.T) {
	service := newTestService()
	registerAndMint(t, service, 1, "alice", 2)

	if _, err := service.SetSoulboundFloor(context.Background(), issuer, 1, "alice", 3); !errors.Is(err, domainerrors.ErrFloorExceedsBalance) {
		t.Fatalf("expected floor error, got %v", err)
	}
}

func TestTransferMovesUnits(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	registerAndMint(t, service, 1, "alice", 10)

	fromHolding, toHolding, err := service.Transfer(ctx, "alice", "bob", 1, 4)
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if fromHolding.Balance != 6 || toHolding.Balance != 4 {
		t.Fatalf("unexpected balances after transfer: from=%d to=%d", fromHolding.Balance, toHolding.Balance)
	}
}

func TestTransferRespectsSoulboundFloor(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	registerAndMint(t, service, 1, "alice", 10)

	if _, err := service.SetSoulboundFloor(ctx, issuer, 1, "alice", 8); err != nil {
		t.Fatalf("set floor failed: %v", err)
	}
	if _, _, err := service.Transfer(ctx, "alice", "bob", 1, 3); !errors.Is(err, domainerrors.ErrSoulBreach) {
		t.Fatalf("expected soul breach, got %v", err)
	}
	if _, _, err := service.Transfer(ctx, "alice", "bob", 1, 2); err != nil {
		t.Fatalf("transfer down to the floor should pass: %v", err)
	}

	transferable, err := service.TransferableOf(ctx, 1, "alice")
	if err != nil || transferable != 0 {
		t.Fatalf("transferable is %d (%v), want 0", transferable, err)
	}
}

func TestSoulbindAtMintRaisesFloor(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	if err := service.Register(ctx, issuer, entities.Key{KeyID: 1, TrustID: 1}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	holding, err := service.Mint(ctx, issuer, 1, "alice", 4, true)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if holding.Floor != 4 {
		t.Fatalf("soulbound mint floor is %d, want 4", holding.Floor)
	}
	if _, _, err := service.Transfer(ctx, "alice", "bob", 1, 1); !errors.Is(err, domainerrors.ErrSoulBreach) {
		t.Fatalf("expected soul breach on soulbound units, got %v", err)
	}
}

func TestHolderIndexesFollowZeroCrossings(t *testing.T) {
	service := newTestService()
	ctx := context.Background()
	registerAndMint(t, service, 1, "alice", 3)

	if _, _, err := service.Transfer(ctx, "alice", "bob", 1, 3); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	holders, err := service.HoldersOf(ctx, 1)
	if err != nil {
		t.Fatalf("holders read failed: %v", err)
	}
	if len(holders) != 1 || holders[0].Holder != "bob" {
		t.Fatalf("alice should be dropped from the holder index: %v", holders)
	}

	keys, err := service.KeysOf(ctx, "alice")
	if err != nil {
		t.Fatalf("keys read failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("alice should hold no keys: %v", keys)
	}
}

func TestHoldersOfUnknownKeyFails(t *testing.T) {
	service := newTestService()

	if _, err := service.HoldersOf(context.Background(), 42); !errors.Is(err, domainerrors.ErrKeyNotFound) {
		t.Fatalf("expected key not found, got %v", err)
	}
}
