package unit

import (
	"context"
	"errors"
	"testing"

	keyerrors "custodia/contexts/custody-core/key-registry/domain/errors"
	keyhttp "custodia/contexts/custody-core/key-registry/transport/http"
	ledgerhttp "custodia/contexts/custody-core/ledger-service/transport/http"
	brokererrors "custodia/contexts/custody-core/permission-broker/domain/errors"
	brokerhttp "custodia/contexts/custody-core/permission-broker/transport/http"
	trusthttp "custodia/contexts/custody-core/trust-service/transport/http"
)

func TestSoulboundFloorBlocksHolderTransfers(t *testing.T) {
	h := newCustodyHarness(t)
	ctx := context.Background()

	bound, err := h.modules.Trusts.Handler.CreateKeyHandler(ctx, "alice", trusthttp.CreateKeyRequest{
		UsingKeyID: h.rootKeyID,
		Alias:      "badge",
		Receiver:   "bob",
		Soulbind:   true,
	})
	if err != nil {
		t.Fatalf("create soulbound key failed: %v", err)
	}

	_, err = h.modules.Registry.Handler.TransferHandler(ctx, "bob", bound.KeyID, keyhttp.TransferRequest{
		To:     "carol",
		Amount: 1,
	})
	if !errors.Is(err, keyerrors.ErrSoulBreach) {
		t.Fatalf("soulbound transfer: got %v", err)
	}

	// Dropping the floor to zero unbinds the unit.
	_, err = h.modules.Trusts.Handler.SoulbindHandler(ctx, "alice", bound.KeyID, trusthttp.SoulbindRequest{
		UsingKeyID: h.rootKeyID,
		Holder:     "bob",
		Floor:      0,
	})
	if err != nil {
		t.Fatalf("unbind failed: %v", err)
	}
	resp, err := h.modules.Registry.Handler.TransferHandler(ctx, "bob", bound.KeyID, keyhttp.TransferRequest{
		To:     "carol",
		Amount: 1,
	})
	if err != nil {
		t.Fatalf("transfer after unbind failed: %v", err)
	}
	if resp.To.Balance != 1 || resp.From.Balance != 0 {
		t.Fatalf("transfer balances from=%d to=%d, want 0/1", resp.From.Balance, resp.To.Balance)
	}
}

func TestRevokedProviderLosesAccess(t *testing.T) {
	h := newCustodyHarness(t)
	ctx := context.Background()
	h.setRole(t, "provider", "exchange-1", true)
	h.deposit(t, "exchange-1", h.opsKeyID, "gold", 50)
	h.setAllowance(t, "exchange-1", h.opsKeyID, "gold", 50)

	h.setRole(t, "provider", "exchange-1", false)

	_, err := h.modules.Ledger.Handler.DepositHandler(ctx, "exchange-1", ledgerhttp.DepositRequest{
		KeyID:   h.opsKeyID,
		AssetID: "gold",
		Amount:  5,
	})
	if !errors.Is(err, brokererrors.ErrUntrustedActor) {
		t.Fatalf("revoked provider deposit: got %v", err)
	}
	_, err = h.modules.Ledger.Handler.WithdrawHandler(ctx, "exchange-1", ledgerhttp.WithdrawRequest{
		KeyID:   h.opsKeyID,
		AssetID: "gold",
		Amount:  5,
	})
	if !errors.Is(err, brokererrors.ErrUntrustedActor) {
		t.Fatalf("revoked provider withdrawal must fail before allowance checks, got %v", err)
	}
}

func TestTrustedRoleLifecycle(t *testing.T) {
	h := newCustodyHarness(t)
	ctx := context.Background()

	_, err := h.modules.Broker.Handler.SetTrustedRoleHandler(ctx, "alice", brokerhttp.SetTrustedRoleRequest{
		TrustID:  h.trustID,
		Role:     "provider",
		LedgerID: testLedgerID,
		Actor:    "exchange-1",
		Trusted:  true,
		Alias:    "primary exchange",
	})
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	_, err = h.modules.Broker.Handler.SetTrustedRoleHandler(ctx, "alice", brokerhttp.SetTrustedRoleRequest{
		TrustID:  h.trustID,
		Role:     "provider",
		LedgerID: testLedgerID,
		Actor:    "exchange-1",
		Trusted:  true,
	})
	if !errors.Is(err, brokererrors.ErrRedundantProvision) {
		t.Fatalf("duplicate grant: got %v", err)
	}
	_, err = h.modules.Broker.Handler.SetTrustedRoleHandler(ctx, "alice", brokerhttp.SetTrustedRoleRequest{
		TrustID:  h.trustID,
		Role:     "provider",
		LedgerID: testLedgerID,
		Actor:    "exchange-9",
		Trusted:  false,
	})
	if !errors.Is(err, brokererrors.ErrNotCurrentActor) {
		t.Fatalf("revoking an absent actor: got %v", err)
	}

	listed, err := h.modules.Broker.Handler.TrustedActorsHandler(ctx, testLedgerID, h.trustID, "provider")
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(listed.Data) != 1 || listed.Data[0].Actor != "exchange-1" || listed.Data[0].Alias != "primary exchange" {
		t.Fatalf("unexpected trusted actors: %+v", listed.Data)
	}
}
