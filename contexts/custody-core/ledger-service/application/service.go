package application

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
	"custodia/contexts/custody-core/ledger-service/ports"
)

// Service executes ledger writes and the read surface. Writes are serialized
// by a mutex so broker authorization, the balance commit, and the allowance
// decrement happen as one unit; the host model admits no mid-operation
// interleaving and neither does this service.
type Service struct {
	Repo     ports.Repository
	Auth     ports.Authorizer
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	LedgerID string
	Logger   *slog.Logger

	writeMu sync.Mutex
}

type DepositResult struct {
	TrustID uint64
	KeyID   uint64
	AssetID string
	Amount  uint64
	After   entities.BalanceAfter
}

type WithdrawalResult struct {
	TrustID uint64
	KeyID   uint64
	AssetID string
	Amount  uint64
	After   entities.BalanceAfter
}

type DistributionResult struct {
	TrustID     uint64
	RootKeyID   uint64
	AssetID     string
	DestKeyIDs  []uint64
	Amounts     []uint64
	RootBalance uint64
}

func (s *Service) Deposit(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (DepositResult, error) {
	providerID = strings.TrimSpace(providerID)
	assetID = strings.TrimSpace(assetID)
	if providerID == "" || assetID == "" {
		return DepositResult{}, domainerrors.ErrInvalidInput
	}
	if amount == 0 {
		return DepositResult{}, domainerrors.ErrInvalidAmount
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	trustID, err := s.Auth.AuthorizeDeposit(ctx, providerID, keyID, assetID, amount)
	if err != nil {
		return DepositResult{}, err
	}
	after, err := s.Repo.Deposit(ctx, trustID, keyID, providerID, assetID, amount)
	if err != nil {
		return DepositResult{}, err
	}

	if err := s.appendEvent(ctx, "custody.ledger.deposit", keyID, ports.DepositRecordedEvent{
		ProviderID:    providerID,
		TrustID:       trustID,
		KeyID:         keyID,
		AssetID:       assetID,
		Amount:        amount,
		KeyBalance:    after.Key,
		TrustBalance:  after.Trust,
		GlobalBalance: after.Global,
	}); err != nil {
		return DepositResult{}, err
	}

	ResolveLogger(s.Logger).Info("deposit recorded",
		"event", "ledger_deposit",
		"module", "custody-core/ledger-service",
		"layer", "application",
		"ledger_id", s.LedgerID,
		"provider_id", providerID,
		"trust_id", trustID,
		"key_id", keyID,
		"asset_id", assetID,
		"amount", amount,
	)
	return DepositResult{
		TrustID: trustID,
		KeyID:   keyID,
		AssetID: assetID,
		Amount:  amount,
		After:   after,
	}, nil
}

func (s *Service) Withdraw(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (WithdrawalResult, error) {
	providerID = strings.TrimSpace(providerID)
	assetID = strings.TrimSpace(assetID)
	if providerID == "" || assetID == "" {
		return WithdrawalResult{}, domainerrors.ErrInvalidInput
	}
	if amount == 0 {
		return WithdrawalResult{}, domainerrors.ErrInvalidAmount
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	trustID, err := s.Auth.AuthorizeWithdrawal(ctx, providerID, keyID, assetID, amount)
	if err != nil {
		return WithdrawalResult{}, err
	}
	// Overdraft is rejected before the repository mutates anything, and the
	// allowance is consumed only after the balances committed.
	after, err := s.Repo.Withdraw(ctx, trustID, keyID, providerID, assetID, amount)
	if err != nil {
		return WithdrawalResult{}, err
	}
	if err := s.Auth.ConsumeAllowance(ctx, providerID, keyID, assetID, amount); err != nil {
		return WithdrawalResult{}, err
	}

	if err := s.appendEvent(ctx, "custody.ledger.withdrawal", keyID, ports.WithdrawalRecordedEvent{
		ProviderID:    providerID,
		TrustID:       trustID,
		KeyID:         keyID,
		AssetID:       assetID,
		Amount:        amount,
		KeyBalance:    after.Key,
		TrustBalance:  after.Trust,
		GlobalBalance: after.Global,
	}); err != nil {
		return WithdrawalResult{}, err
	}

	ResolveLogger(s.Logger).Info("withdrawal recorded",
		"event", "ledger_withdrawal",
		"module", "custody-core/ledger-service",
		"layer", "application",
		"ledger_id", s.LedgerID,
		"provider_id", providerID,
		"trust_id", trustID,
		"key_id", keyID,
		"asset_id", assetID,
		"amount", amount,
	)
	return WithdrawalResult{
		TrustID: trustID,
		KeyID:   keyID,
		AssetID: assetID,
		Amount:  amount,
		After:   after,
	}, nil
}

func (s *Service) Distribute(ctx context.Context, scribeID string, providerID string, assetID string, rootKeyID uint64, destKeyIDs []uint64, amounts []uint64) (DistributionResult, error) {
	scribeID = strings.TrimSpace(scribeID)
	providerID = strings.TrimSpace(providerID)
	assetID = strings.TrimSpace(assetID)
	if scribeID == "" || providerID == "" || assetID == "" {
		return DistributionResult{}, domainerrors.ErrInvalidInput
	}
	if _, err := sumAmounts(amounts); err != nil {
		return DistributionResult{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	trustID, err := s.Auth.AuthorizeDistribution(ctx, scribeID, providerID, assetID, rootKeyID, destKeyIDs, amounts)
	if err != nil {
		return DistributionResult{}, err
	}
	rootBalance, err := s.Repo.Distribute(ctx, rootKeyID, providerID, assetID, destKeyIDs, amounts)
	if err != nil {
		return DistributionResult{}, err
	}

	if err := s.appendEvent(ctx, "custody.ledger.distribution", rootKeyID, ports.DistributionRecordedEvent{
		ScribeID:    scribeID,
		ProviderID:  providerID,
		AssetID:     assetID,
		RootKeyID:   rootKeyID,
		TrustID:     trustID,
		DestKeyIDs:  destKeyIDs,
		Amounts:     amounts,
		RootBalance: rootBalance,
	}); err != nil {
		return DistributionResult{}, err
	}

	ResolveLogger(s.Logger).Info("distribution recorded",
		"event", "ledger_distribution",
		"module", "custody-core/ledger-service",
		"layer", "application",
		"ledger_id", s.LedgerID,
		"scribe_id", scribeID,
		"provider_id", providerID,
		"trust_id", trustID,
		"root_key_id", rootKeyID,
		"asset_id", assetID,
		"destinations", len(destKeyIDs),
	)
	return DistributionResult{
		TrustID:     trustID,
		RootKeyID:   rootKeyID,
		AssetID:     assetID,
		DestKeyIDs:  destKeyIDs,
		Amounts:     amounts,
		RootBalance: rootBalance,
	}, nil
}

func (s *Service) BalancesOf(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string, assetIDs []string) ([]uint64, error) {
	if !validContext(kind) {
		return nil, domainerrors.ErrInvalidContext
	}
	return s.Repo.Balances(ctx, kind, contextID, strings.TrimSpace(providerID), assetIDs)
}

func (s *Service) AssetRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string) ([]string, error) {
	if !validContext(kind) {
		return nil, domainerrors.ErrInvalidContext
	}
	return s.Repo.AssetRegistry(ctx, kind, contextID, strings.TrimSpace(providerID))
}

func (s *Service) ProviderRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, assetID string) ([]string, error) {
	if !validContext(kind) {
		return nil, domainerrors.ErrInvalidContext
	}
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ProviderRegistry(ctx, kind, contextID, assetID)
}

func (s *Service) BalanceSheet(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string) (entities.BalanceSheet, error) {
	if !validContext(kind) {
		return entities.BalanceSheet{}, domainerrors.ErrInvalidContext
	}
	providerID = strings.TrimSpace(providerID)
	assets, err := s.Repo.AssetRegistry(ctx, kind, contextID, providerID)
	if err != nil {
		return entities.BalanceSheet{}, err
	}
	amounts, err := s.Repo.Balances(ctx, kind, contextID, providerID, assets)
	if err != nil {
		return entities.BalanceSheet{}, err
	}
	return entities.BalanceSheet{
		Assets:  assets,
		Amounts: amounts,
	}, nil
}

func validContext(kind entities.ContextKind) bool {
	switch kind {
	case entities.KeyContext, entities.TrustContext, entities.GlobalContext:
		return true
	default:
		return false
	}
}

func sumAmounts(amounts []uint64) (uint64, error) {
	var total uint64
	for _, amount := range amounts {
		if amount > math.MaxUint64-total {
			return 0, domainerrors.ErrAmountOverflow
		}
		total += amount
	}
	return total, nil
}

func (s *Service) appendEvent(ctx context.Context, eventType string, entityID uint64, payload any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.newID(ctx)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  "custody-core/ledger-service",
		OccurredAtUTC:  s.now(),
		EntityType:     "key",
		EntityID:       strconv.FormatUint(entityID, 10),
		PayloadVersion: 1,
		Payload:        payload,
	})
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s *Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", domainerrors.ErrInvalidInput
	}
	return s.IDGen.NewID(ctx)
}
