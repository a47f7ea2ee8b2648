package application

import (
	"context"
	"log/slog"
	"strings"

	"custodia/contexts/custody-core/key-registry/domain/entities"
	domainerrors "custodia/contexts/custody-core/key-registry/domain/errors"
	"custodia/contexts/custody-core/key-registry/ports"
)

type Service struct {
	Repo   ports.Repository
	Issuer string
	Logger *slog.Logger
}

// Register binds a fresh key id to its trust. Ids are allocated by the issuer
// from one global counter, so the registry only checks uniqueness.
func (s Service) Register(ctx context.Context, caller string, key entities.Key) error {
	if err := s.requireIssuer(caller); err != nil {
		return err
	}
	if key.KeyID == 0 {
		return domainerrors.ErrInvalidInput
	}
	if err := s.Repo.CreateKey(ctx, key); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("key registered",
		"event", "key_registered",
		"module", "custody-core/key-registry",
		"layer", "application",
		"key_id", key.KeyID,
		"trust_id", key.TrustID,
		"root", key.Root,
	)
	return nil
}

func (s Service) Mint(ctx context.Context, caller string, keyID uint64, holder string, amount uint64, soulbind bool) (entities.Holding, error) {
	if err := s.requireIssuer(caller); err != nil {
		return entities.Holding{}, err
	}
	if strings.TrimSpace(holder) == "" || amount == 0 {
		return entities.Holding{}, domainerrors.ErrInvalidInput
	}
	holding, err := s.Repo.Mint(ctx, keyID, strings.TrimSpace(holder), amount, soulbind)
	if err != nil {
		return entities.Holding{}, err
	}
	ResolveLogger(s.Logger).Info("key minted",
		"event", "key_minted",
		"module", "custody-core/key-registry",
		"layer", "application",
		"key_id", keyID,
		"holder", holding.Holder,
		"amount", amount,
		"soulbind", soulbind,
	)
	return holding, nil
}

func (s Service) Burn(ctx context.Context, caller string, keyID uint64, holder string, amount uint64) (entities.Holding, error) {
	if err := s.requireIssuer(caller); err != nil {
		return entities.Holding{}, err
	}
	if strings.TrimSpace(holder) == "" || amount == 0 {
		return entities.Holding{}, domainerrors.ErrInvalidInput
	}
	holding, err := s.Repo.Burn(ctx, keyID, strings.TrimSpace(holder), amount)
	if err != nil {
		return entities.Holding{}, err
	}
	ResolveLogger(s.Logger).Info("key burned",
		"event", "key_burned",
		"module", "custody-core/key-registry",
		"layer", "application",
		"key_id", keyID,
		"holder", holding.Holder,
		"amount", amount,
	)
	return holding, nil
}

func (s Service) SetSoulboundFloor(ctx context.Context, caller string, keyID uint64, holder string, floor uint64) (entities.Holding, error) {
	if err := s.requireIssuer(caller); err != nil {
		return entities.Holding{}, err
	}
	if strings.TrimSpace(holder) == "" {
		return entities.Holding{}, domainerrors.ErrInvalidInput
	}
	holding, err := s.Repo.SetFloor(ctx, keyID, strings.TrimSpace(holder), floor)
	if err != nil {
		return entities.Holding{}, err
	}
	ResolveLogger(s.Logger).Info("soulbound floor set",
		"event", "soulbound_floor_set",
		"module", "custody-core/key-registry",
		"layer", "application",
		"key_id", keyID,
		"holder", holding.Holder,
		"floor", floor,
	)
	return holding, nil
}

// Transfer moves key units between holders. It is holder-initiated and is the
// only mutation not gated on the issuer.
func (s Service) Transfer(ctx context.Context, from string, to string, keyID uint64, amount uint64) (entities.Holding, entities.Holding, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" || from == to || amount == 0 {
		return entities.Holding{}, entities.Holding{}, domainerrors.ErrInvalidInput
	}
	fromHolding, toHolding, err := s.Repo.Transfer(ctx, keyID, from, to, amount)
	if err != nil {
		return entities.Holding{}, entities.Holding{}, err
	}
	ResolveLogger(s.Logger).Info("key transferred",
		"event", "key_transferred",
		"module", "custody-core/key-registry",
		"layer", "application",
		"key_id", keyID,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return fromHolding, toHolding, nil
}

func (s Service) KeyInfo(ctx context.Context, keyID uint64) (entities.Key, error) {
	return s.Repo.GetKey(ctx, keyID)
}

// BalanceOf reports a holder's position; unknown keys and holders read as zero.
func (s Service) BalanceOf(ctx context.Context, keyID uint64, holder string) (uint64, error) {
	holding, found, err := s.Repo.GetHolding(ctx, keyID, strings.TrimSpace(holder))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return holding.Balance, nil
}

func (s Service) TransferableOf(ctx context.Context, keyID uint64, holder string) (uint64, error) {
	holding, found, err := s.Repo.GetHolding(ctx, keyID, strings.TrimSpace(holder))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return holding.Transferable(), nil
}

func (s Service) HoldersOf(ctx context.Context, keyID uint64) ([]entities.Holding, error) {
	if _, err := s.Repo.GetKey(ctx, keyID); err != nil {
		return nil, err
	}
	return s.Repo.HoldersOf(ctx, keyID)
}

func (s Service) KeysOf(ctx context.Context, holder string) ([]entities.Holding, error) {
	if strings.TrimSpace(holder) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.KeysOf(ctx, strings.TrimSpace(holder))
}

func (s Service) requireIssuer(caller string) error {
	if strings.TrimSpace(caller) == "" || strings.TrimSpace(caller) != s.Issuer {
		return domainerrors.ErrNotAuthorizedIssuer
	}
	return nil
}
