package application

import (
	"context"
	"errors"
	"math"
	"testing"

	"custodia/contexts/custody-core/ledger-service/adapters/memory"
	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
)

type stubAuthorizer struct {
	trustID      uint64
	authorizeErr error
	consumeErr   error
	consumed     []uint64
}

func (a *stubAuthorizer) AuthorizeDeposit(_ context.Context, _ string, _ uint64, _ string, _ uint64) (uint64, error) {
	return a.trustID, a.authorizeErr
}

func (a *stubAuthorizer) AuthorizeWithdrawal(_ context.Context, _ string, _ uint64, _ string, _ uint64) (uint64, error) {
	return a.trustID, a.authorizeErr
}

func (a *stubAuthorizer) ConsumeAllowance(_ context.Context, _ string, _ uint64, _ string, amount uint64) error {
	if a.consumeErr != nil {
		return a.consumeErr
	}
	a.consumed = append(a.consumed, amount)
	return nil
}

func (a *stubAuthorizer) AuthorizeDistribution(_ context.Context, _ string, _ string, _ string, _ uint64, _ []uint64, _ []uint64) (uint64, error) {
	return a.trustID, a.authorizeErr
}

func newTestService(auth *stubAuthorizer) (*Service, *memory.Store) {
	store := memory.NewStore()
	return &Service{
		Repo:     store,
		Auth:     auth,
		Outbox:   store,
		Clock:    store,
		IDGen:    store,
		LedgerID: "ledger-test",
	}, store
}

func TestDepositUpdatesAllThreeLevels(t *testing.T) {
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	result, err := service.Deposit(ctx, "prov-a", 4, "gold", 25)
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if result.After.Key != 25 || result.After.Trust != 25 || result.After.Global != 25 {
		t.Fatalf("unexpected post-balances: %+v", result.After)
	}
	if result.TrustID != 9 {
		t.Fatalf("trust id is %d, want 9", result.TrustID)
	}
}

func TestDepositRejectsZeroAmount(t *testing.T) {
	service, _ := newTestService(&stubAuthorizer{trustID: 9})

	if _, err := service.Deposit(context.Background(), "prov-a", 4, "gold", 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestWithdrawConsumesAllowanceAfterCommit(t *testing.T) {
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "prov-a", 4, "gold", 50); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	result, err := service.Withdraw(ctx, "prov-a", 4, "gold", 20)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if result.After.Key != 30 || result.After.Trust != 30 || result.After.Global != 30 {
		t.Fatalf("unexpected post-balances: %+v", result.After)
	}
	if len(auth.consumed) != 1 || auth.consumed[0] != 20 {
		t.Fatalf("allowance consumption not recorded: %v", auth.consumed)
	}
}

func TestWithdrawOverdraftLeavesAllowanceUntouched(t *testing.T) {
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "prov-a", 4, "gold", 10); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := service.Withdraw(ctx, "prov-a", 4, "gold", 11); !errors.Is(err, domainerrors.ErrOverdraft) {
		t.Fatalf("expected overdraft, got %v", err)
	}
	if len(auth.consumed) != 0 {
		t.Fatalf("allowance consumed on failed withdrawal: %v", auth.consumed)
	}

	amounts, err := service.BalancesOf(ctx, entities.KeyContext, 4, "prov-a", []string{"gold"})
	if err != nil {
		t.Fatalf("balances read failed: %v", err)
	}
	if amounts[0] != 10 {
		t.Fatalf("failed withdrawal mutated balance: %d", amounts[0])
	}
}

func TestWithdrawAuthorizationFailureLeavesBalances(t *testing.T) {
	denied := errors.New("allowance too small")
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "prov-a", 4, "gold", 10); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	auth.authorizeErr = denied
	if _, err := service.Withdraw(ctx, "prov-a", 4, "gold", 5); !errors.Is(err, denied) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	auth.authorizeErr = nil

	amounts, err := service.BalancesOf(ctx, entities.KeyContext, 4, "prov-a", []string{"gold"})
	if err != nil {
		t.Fatalf("balances read failed: %v", err)
	}
	if amounts[0] != 10 {
		t.Fatalf("denied withdrawal mutated balance: %d", amounts[0])
	}
}

func TestDistributeConservesTrustAndGlobal(t *testing.T) {
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "prov-a", 1, "gold", 100); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	result, err := service.Distribute(ctx, "scribe-1", "prov-a", "gold", 1, []uint64{2, 3}, []uint64{30, 20})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if result.RootBalance != 50 {
		t.Fatalf("root balance is %d, want 50", result.RootBalance)
	}

	amounts, err := service.BalancesOf(ctx, entities.KeyContext, 2, "prov-a", []string{"gold"})
	if err != nil || amounts[0] != 30 {
		t.Fatalf("dest 2 balance wrong: %v %v", amounts, err)
	}
	trustAmounts, err := service.BalancesOf(ctx, entities.TrustContext, 9, "prov-a", []string{"gold"})
	if err != nil || trustAmounts[0] != 100 {
		t.Fatalf("trust balance changed by distribution: %v %v", trustAmounts, err)
	}
	globalAmounts, err := service.BalancesOf(ctx, entities.GlobalContext, entities.GlobalContextID, "prov-a", []string{"gold"})
	if err != nil || globalAmounts[0] != 100 {
		t.Fatalf("global balance changed by distribution: %v %v", globalAmounts, err)
	}
}

func TestDistributeRejectsOverflowingTotals(t *testing.T) {
	service, _ := newTestService(&stubAuthorizer{trustID: 9})

	_, err := service.Distribute(context.Background(), "scribe-1", "prov-a", "gold", 1,
		[]uint64{2, 3}, []uint64{math.MaxUint64, 1})
	if !errors.Is(err, domainerrors.ErrAmountOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestBalanceSheetPairsRegistryWithAmounts(t *testing.T) {
	auth := &stubAuthorizer{trustID: 9}
	service, _ := newTestService(auth)
	ctx := context.Background()

	if _, err := service.Deposit(ctx, "prov-a", 4, "gold", 7); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := service.Deposit(ctx, "prov-b", 4, "silver", 3); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	sheet, err := service.BalanceSheet(ctx, entities.KeyContext, 4, "")
	if err != nil {
		t.Fatalf("balance sheet failed: %v", err)
	}
	if len(sheet.Assets) != 2 || sheet.Assets[0] != "gold" || sheet.Assets[1] != "silver" {
		t.Fatalf("unexpected assets: %v", sheet.Assets)
	}
	if sheet.Amounts[0] != 7 || sheet.Amounts[1] != 3 {
		t.Fatalf("unexpected amounts: %v", sheet.Amounts)
	}
}

func TestReadsRejectUnknownContext(t *testing.T) {
	service, _ := newTestService(&stubAuthorizer{trustID: 9})

	if _, err := service.BalancesOf(context.Background(), "tenant", 1, "", []string{"gold"}); !errors.Is(err, domainerrors.ErrInvalidContext) {
		t.Fatalf("expected invalid context, got %v", err)
	}
	if _, err := service.AssetRegistry(context.Background(), "", 1, ""); !errors.Is(err, domainerrors.ErrInvalidContext) {
		t.Fatalf("expected invalid context, got %v", err)
	}
}
