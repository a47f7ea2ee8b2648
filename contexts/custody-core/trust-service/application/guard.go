package application

import (
	"context"

	"custodia/contexts/custody-core/trust-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/trust-service/domain/errors"
)

// requireRootKey is the root-gated mutation guard shared by every command:
// the caller must hold usingKeyID and it must be its trust's root key.
func (s Service) requireRootKey(ctx context.Context, caller string, usingKeyID uint64) (entities.Trust, error) {
	balance, err := s.Keys.BalanceOf(ctx, usingKeyID, caller)
	if err != nil {
		return entities.Trust{}, err
	}
	if balance == 0 {
		return entities.Trust{}, domainerrors.ErrKeyNotHeld
	}
	trustID, root, found, err := s.Keys.KeyInfo(ctx, usingKeyID)
	if err != nil {
		return entities.Trust{}, err
	}
	if !found || !root {
		return entities.Trust{}, domainerrors.ErrKeyNotRoot
	}
	trust, err := s.Repo.GetTrust(ctx, trustID)
	if err != nil {
		return entities.Trust{}, err
	}
	return trust, nil
}

// requireTrustKey checks that targetKeyID was minted within the trust.
func (s Service) requireTrustKey(ctx context.Context, trust entities.Trust, targetKeyID uint64) error {
	trustID, _, found, err := s.Keys.KeyInfo(ctx, targetKeyID)
	if err != nil {
		return err
	}
	if !found || trustID != trust.TrustID {
		return domainerrors.ErrTrustKeyNotFound
	}
	return nil
}
