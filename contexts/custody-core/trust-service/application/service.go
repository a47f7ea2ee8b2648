package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"custodia/contexts/custody-core/trust-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/trust-service/domain/errors"
	"custodia/contexts/custody-core/trust-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Keys   ports.KeyRegistry
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateTrust allocates a trust and mints its root key to rootReceiver.
func (s Service) CreateTrust(ctx context.Context, caller string, name string, rootReceiver string) (entities.Trust, error) {
	caller = strings.TrimSpace(caller)
	name = strings.TrimSpace(name)
	rootReceiver = strings.TrimSpace(rootReceiver)
	if caller == "" || name == "" || rootReceiver == "" {
		return entities.Trust{}, domainerrors.ErrInvalidInput
	}

	trustID, err := s.Repo.NextTrustID(ctx)
	if err != nil {
		return entities.Trust{}, err
	}
	rootKeyID, err := s.Repo.NextKeyID(ctx)
	if err != nil {
		return entities.Trust{}, err
	}
	if err := s.Keys.RegisterKey(ctx, rootKeyID, trustID, name, true); err != nil {
		return entities.Trust{}, err
	}
	if err := s.Keys.MintKey(ctx, rootKeyID, rootReceiver, 1, false); err != nil {
		return entities.Trust{}, err
	}

	trust := entities.Trust{
		TrustID:   trustID,
		Name:      name,
		RootKeyID: rootKeyID,
		KeyCount:  1,
		CreatedAt: s.now(),
	}
	if err := s.Repo.CreateTrust(ctx, trust); err != nil {
		return entities.Trust{}, err
	}

	if err := s.appendEvent(ctx, "custody.trust.created", "trust", trustID, ports.TrustCreatedEvent{
		Creator:      caller,
		TrustID:      trustID,
		Name:         name,
		RootReceiver: rootReceiver,
		RootKeyID:    rootKeyID,
	}); err != nil {
		return entities.Trust{}, err
	}
	if err := s.appendEvent(ctx, "custody.key.minted", "key", rootKeyID, ports.KeyMintedEvent{
		Minter:   caller,
		TrustID:  trustID,
		KeyID:    rootKeyID,
		Alias:    name,
		Receiver: rootReceiver,
	}); err != nil {
		return entities.Trust{}, err
	}

	ResolveLogger(s.Logger).Info("trust created",
		"event", "trust_created",
		"module", "custody-core/trust-service",
		"layer", "application",
		"trust_id", trustID,
		"root_key_id", rootKeyID,
		"root_receiver", rootReceiver,
	)
	return trust, nil
}

// CreateKey mints a fresh key under root-key authority, scoped to the same
// trust as the root key the caller holds.
func (s Service) CreateKey(ctx context.Context, caller string, usingKeyID uint64, alias string, receiver string, soulbind bool) (uint64, error) {
	caller = strings.TrimSpace(caller)
	receiver = strings.TrimSpace(receiver)
	if caller == "" || receiver == "" {
		return 0, domainerrors.ErrInvalidInput
	}
	trust, err := s.requireRootKey(ctx, caller, usingKeyID)
	if err != nil {
		return 0, err
	}

	keyID, err := s.Repo.NextKeyID(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Keys.RegisterKey(ctx, keyID, trust.TrustID, strings.TrimSpace(alias), false); err != nil {
		return 0, err
	}
	if err := s.Keys.MintKey(ctx, keyID, receiver, 1, soulbind); err != nil {
		return 0, err
	}
	if _, err := s.Repo.IncrementKeyCount(ctx, trust.TrustID); err != nil {
		return 0, err
	}

	if err := s.appendEvent(ctx, "custody.key.minted", "key", keyID, ports.KeyMintedEvent{
		Minter:   caller,
		TrustID:  trust.TrustID,
		KeyID:    keyID,
		Alias:    strings.TrimSpace(alias),
		Receiver: receiver,
		Soulbind: soulbind,
	}); err != nil {
		return 0, err
	}

	ResolveLogger(s.Logger).Info("key created",
		"event", "key_created",
		"module", "custody-core/trust-service",
		"layer", "application",
		"trust_id", trust.TrustID,
		"key_id", keyID,
		"receiver", receiver,
		"soulbind", soulbind,
	)
	return keyID, nil
}

// CopyKey mints an additional unit of an existing key to receiver. The
// soulbind flag applies to this copy only.
func (s Service) CopyKey(ctx context.Context, caller string, usingKeyID uint64, targetKeyID uint64, receiver string, soulbind bool) error {
	caller = strings.TrimSpace(caller)
	receiver = strings.TrimSpace(receiver)
	if caller == "" || receiver == "" {
		return domainerrors.ErrInvalidInput
	}
	trust, err := s.requireRootKey(ctx, caller, usingKeyID)
	if err != nil {
		return err
	}
	if err := s.requireTrustKey(ctx, trust, targetKeyID); err != nil {
		return err
	}
	if err := s.Keys.MintKey(ctx, targetKeyID, receiver, 1, soulbind); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "custody.key.minted", "key", targetKeyID, ports.KeyMintedEvent{
		Minter:   caller,
		TrustID:  trust.TrustID,
		KeyID:    targetKeyID,
		Receiver: receiver,
		Soulbind: soulbind,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("key copied",
		"event", "key_copied",
		"module", "custody-core/trust-service",
		"layer", "application",
		"trust_id", trust.TrustID,
		"key_id", targetKeyID,
		"receiver", receiver,
	)
	return nil
}

func (s Service) BurnKey(ctx context.Context, caller string, usingKeyID uint64, targetKeyID uint64, holder string, amount uint64) error {
	caller = strings.TrimSpace(caller)
	holder = strings.TrimSpace(holder)
	if caller == "" || holder == "" || amount == 0 {
		return domainerrors.ErrInvalidInput
	}
	trust, err := s.requireRootKey(ctx, caller, usingKeyID)
	if err != nil {
		return err
	}
	if err := s.requireTrustKey(ctx, trust, targetKeyID); err != nil {
		return err
	}
	if err := s.Keys.BurnKey(ctx, targetKeyID, holder, amount); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "custody.key.burned", "key", targetKeyID, ports.KeyBurnedEvent{
		Burner:  caller,
		TrustID: trust.TrustID,
		KeyID:   targetKeyID,
		Holder:  holder,
		Amount:  amount,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("key burned",
		"event", "key_burned",
		"module", "custody-core/trust-service",
		"layer", "application",
		"trust_id", trust.TrustID,
		"key_id", targetKeyID,
		"holder", holder,
		"amount", amount,
	)
	return nil
}

// SetSoulboundFloor overwrites a holder's floor; floor zero fully unbinds.
func (s Service) SetSoulboundFloor(ctx context.Context, caller string, usingKeyID uint64, holder string, targetKeyID uint64, floor uint64) error {
	caller = strings.TrimSpace(caller)
	holder = strings.TrimSpace(holder)
	if caller == "" || holder == "" {
		return domainerrors.ErrInvalidInput
	}
	trust, err := s.requireRootKey(ctx, caller, usingKeyID)
	if err != nil {
		return err
	}
	if err := s.requireTrustKey(ctx, trust, targetKeyID); err != nil {
		return err
	}
	if err := s.Keys.SetFloor(ctx, targetKeyID, holder, floor); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "custody.key.soulbound_floor_set", "key", targetKeyID, ports.SoulboundFloorSetEvent{
		Setter: caller,
		Holder: holder,
		KeyID:  targetKeyID,
		Floor:  floor,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("soulbound floor set",
		"event", "soulbound_floor_set",
		"module", "custody-core/trust-service",
		"layer", "application",
		"trust_id", trust.TrustID,
		"key_id", targetKeyID,
		"holder", holder,
		"floor", floor,
	)
	return nil
}

// ValidateKeyRing checks that every key id belongs to the trust and that the
// root key is absent unless allowRoot is set.
func (s Service) ValidateKeyRing(ctx context.Context, trustID uint64, keyIDs []uint64, allowRoot bool) error {
	trust, err := s.Repo.GetTrust(ctx, trustID)
	if err != nil {
		return err
	}
	for _, keyID := range keyIDs {
		keyTrustID, root, found, err := s.Keys.KeyInfo(ctx, keyID)
		if err != nil {
			return err
		}
		if !found {
			return domainerrors.ErrInvalidKeyOnRing
		}
		if keyTrustID != trust.TrustID {
			return domainerrors.ErrNonTrustKey
		}
		if root && !allowRoot {
			return domainerrors.ErrRootOnRing
		}
	}
	return nil
}

func (s Service) GetTrust(ctx context.Context, trustID uint64) (entities.Trust, error) {
	return s.Repo.GetTrust(ctx, trustID)
}

// KeyTrust resolves a key to its trust for broker authorization checks.
func (s Service) KeyTrust(ctx context.Context, keyID uint64) (trustID uint64, root bool, found bool, err error) {
	return s.Keys.KeyInfo(ctx, keyID)
}

// RequireRootHolder verifies that actor holds the trust's root key.
func (s Service) RequireRootHolder(ctx context.Context, actor string, trustID uint64) (uint64, error) {
	trust, err := s.Repo.GetTrust(ctx, trustID)
	if err != nil {
		return 0, err
	}
	balance, err := s.Keys.BalanceOf(ctx, trust.RootKeyID, strings.TrimSpace(actor))
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, domainerrors.ErrKeyNotHeld
	}
	return trust.RootKeyID, nil
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
		SourceService:  "custody-core/trust-service",
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
