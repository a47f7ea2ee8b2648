package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"custodia/contexts/custody-core/permission-broker/domain/entities"
	domainerrors "custodia/contexts/custody-core/permission-broker/domain/errors"
	"custodia/contexts/custody-core/permission-broker/ports"
)

type Service struct {
	Repo   ports.Repository
	Trusts ports.TrustDirectory
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// SetTrustedRole toggles an actor's membership in a (ledger, trust, role)
// set. The caller must hold the trust's root key.
func (s Service) SetTrustedRole(ctx context.Context, caller string, trustID uint64, role string, ledgerID string, actor string, trusted bool, alias string) error {
	caller = strings.TrimSpace(caller)
	role = strings.TrimSpace(role)
	ledgerID = strings.TrimSpace(ledgerID)
	actor = strings.TrimSpace(actor)
	if caller == "" || role == "" || ledgerID == "" || actor == "" {
		return domainerrors.ErrInvalidInput
	}

	rootKeyID, err := s.Trusts.RequireRootHolder(ctx, caller, trustID)
	if err != nil {
		return err
	}

	if trusted {
		err = s.Repo.AddTrustedActor(ctx, entities.TrustedActor{
			LedgerID: ledgerID,
			TrustID:  trustID,
			Role:     role,
			Actor:    actor,
			Alias:    strings.TrimSpace(alias),
			AddedAt:  s.now(),
		})
	} else {
		err = s.Repo.RemoveTrustedActor(ctx, ledgerID, trustID, role, actor)
	}
	if err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "custody.broker.trusted_role_changed", "trust", trustID, ports.TrustedRoleChangedEvent{
		Actor:       caller,
		TrustID:     trustID,
		RootKeyID:   rootKeyID,
		LedgerID:    ledgerID,
		TargetActor: actor,
		Trusted:     trusted,
		Role:        role,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("trusted role changed",
		"event", "trusted_role_changed",
		"module", "custody-core/permission-broker",
		"layer", "application",
		"trust_id", trustID,
		"ledger_id", ledgerID,
		"role", role,
		"target_actor", actor,
		"trusted", trusted,
	)
	return nil
}

// SetWithdrawalAllowance overwrites the budget for (ledger, provider, key,
// asset). The caller must hold the root key of the trust owning keyID.
func (s Service) SetWithdrawalAllowance(ctx context.Context, caller string, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) error {
	caller = strings.TrimSpace(caller)
	ledgerID = strings.TrimSpace(ledgerID)
	providerID = strings.TrimSpace(providerID)
	assetID = strings.TrimSpace(assetID)
	if caller == "" || ledgerID == "" || providerID == "" || assetID == "" {
		return domainerrors.ErrInvalidInput
	}

	trustID, _, found, err := s.Trusts.KeyTrust(ctx, keyID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrInvalidKey
	}
	if _, err := s.Trusts.RequireRootHolder(ctx, caller, trustID); err != nil {
		return err
	}

	if err := s.Repo.SetAllowance(ctx, entities.Allowance{
		LedgerID:   ledgerID,
		ProviderID: providerID,
		KeyID:      keyID,
		AssetID:    assetID,
		Remaining:  amount,
	}); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "custody.broker.allowance_assigned", "key", keyID, ports.AllowanceAssignedEvent{
		Actor:      caller,
		KeyID:      keyID,
		LedgerID:   ledgerID,
		ProviderID: providerID,
		AssetID:    assetID,
		Amount:     amount,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("withdrawal allowance assigned",
		"event", "allowance_assigned",
		"module", "custody-core/permission-broker",
		"layer", "application",
		"ledger_id", ledgerID,
		"provider_id", providerID,
		"key_id", keyID,
		"asset_id", assetID,
		"amount", amount,
	)
	return nil
}

// AuthorizeDeposit admits a provider deposit into keyID. Returns the trust
// the key belongs to.
func (s Service) AuthorizeDeposit(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error) {
	trustID, err := s.resolveKeyTrust(ctx, keyID)
	if err != nil {
		return 0, err
	}
	if err := s.requireTrusted(ctx, ledgerID, trustID, entities.RoleProvider, providerID, domainerrors.ErrUntrustedActor); err != nil {
		return 0, err
	}
	return trustID, nil
}

// AuthorizeWithdrawal performs the trust and budget checks without touching
// the stored allowance; the ledger calls ConsumeAllowance once its own
// overdraft check has passed.
func (s Service) AuthorizeWithdrawal(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error) {
	trustID, err := s.resolveKeyTrust(ctx, keyID)
	if err != nil {
		return 0, err
	}
	if err := s.requireTrusted(ctx, ledgerID, trustID, entities.RoleProvider, providerID, domainerrors.ErrUntrustedActor); err != nil {
		return 0, err
	}
	remaining, err := s.Repo.GetAllowance(ctx, strings.TrimSpace(ledgerID), strings.TrimSpace(providerID), keyID, strings.TrimSpace(assetID))
	if err != nil {
		return 0, err
	}
	if remaining < amount {
		return 0, domainerrors.ErrUnapprovedAmount
	}
	return trustID, nil
}

// ConsumeAllowance decrements the withdrawal budget.
func (s Service) ConsumeAllowance(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string, amount uint64) error {
	remaining, err := s.Repo.ConsumeAllowance(ctx, strings.TrimSpace(ledgerID), strings.TrimSpace(providerID), keyID, strings.TrimSpace(assetID), amount)
	if err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("withdrawal allowance consumed",
		"event", "allowance_consumed",
		"module", "custody-core/permission-broker",
		"layer", "application",
		"ledger_id", ledgerID,
		"provider_id", providerID,
		"key_id", keyID,
		"asset_id", assetID,
		"amount", amount,
		"remaining", remaining,
	)
	return nil
}

// AuthorizeDistribution admits an intra-trust move from the root key to
// destKeyIDs, driven by a trusted scribe against a trusted provider's asset.
func (s Service) AuthorizeDistribution(ctx context.Context, ledgerID string, scribeID string, providerID string, assetID string, rootKeyID uint64, destKeyIDs []uint64, amounts []uint64) (uint64, error) {
	trustID, root, found, err := s.Trusts.KeyTrust(ctx, rootKeyID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domainerrors.ErrInvalidKey
	}
	if !root {
		return 0, domainerrors.ErrKeyNotRoot
	}
	if err := s.requireTrusted(ctx, ledgerID, trustID, entities.RoleProvider, providerID, domainerrors.ErrUntrustedProvider); err != nil {
		return 0, err
	}
	if err := s.requireTrusted(ctx, ledgerID, trustID, entities.RoleScribe, scribeID, domainerrors.ErrUntrustedActor); err != nil {
		return 0, err
	}
	if len(destKeyIDs) == 0 {
		return 0, domainerrors.ErrMissingRequiredEntry
	}
	if len(destKeyIDs) != len(amounts) {
		return 0, domainerrors.ErrSizeMismatch
	}
	if err := s.Trusts.ValidateKeyRing(ctx, trustID, destKeyIDs, false); err != nil {
		return 0, err
	}
	return trustID, nil
}

func (s Service) IsTrusted(ctx context.Context, ledgerID string, trustID uint64, role string, actor string) (bool, error) {
	return s.Repo.IsTrusted(ctx, strings.TrimSpace(ledgerID), trustID, strings.TrimSpace(role), strings.TrimSpace(actor))
}

func (s Service) TrustedActors(ctx context.Context, ledgerID string, trustID uint64, role string) ([]entities.TrustedActor, error) {
	return s.Repo.ListTrustedActors(ctx, strings.TrimSpace(ledgerID), trustID, strings.TrimSpace(role))
}

func (s Service) AllowanceOf(ctx context.Context, ledgerID string, providerID string, keyID uint64, assetID string) (uint64, error) {
	return s.Repo.GetAllowance(ctx, strings.TrimSpace(ledgerID), strings.TrimSpace(providerID), keyID, strings.TrimSpace(assetID))
}

func (s Service) resolveKeyTrust(ctx context.Context, keyID uint64) (uint64, error) {
	trustID, _, found, err := s.Trusts.KeyTrust(ctx, keyID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domainerrors.ErrInvalidKey
	}
	return trustID, nil
}

func (s Service) requireTrusted(ctx context.Context, ledgerID string, trustID uint64, role string, actor string, failure error) error {
	trusted, err := s.Repo.IsTrusted(ctx, strings.TrimSpace(ledgerID), trustID, role, strings.TrimSpace(actor))
	if err != nil {
		return err
	}
	if !trusted {
		return failure
	}
	return nil
}

func (s Service) appendEvent(ctx context.Context, eventType string, entityType string, entityID uint64, payload any) error {
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
		SourceService:  "custody-core/permission-broker",
		OccurredAtUTC:  s.now(),
		EntityType:     entityType,
		EntityID:       strconv.FormatUint(entityID, 10),
		PayloadVersion: 1,
		Payload:        payload,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGen == nil {
		return "", domainerrors.ErrInvalidInput
	}
	return s.IDGen.NewID(ctx)
}
