package registry

import (
	"context"
	"errors"

	keyapplication "custodia/contexts/custody-core/key-registry/application"
	keyentities "custodia/contexts/custody-core/key-registry/domain/entities"
	keyerrors "custodia/contexts/custody-core/key-registry/domain/errors"
)

// Adapter satisfies ports.KeyRegistry against the key-registry module,
// binding the trust service's issuer identity to every gated call.
type Adapter struct {
	Keys   keyapplication.Service
	Issuer string
}

func (a Adapter) RegisterKey(ctx context.Context, keyID uint64, trustID uint64, alias string, root bool) error {
	return a.Keys.Register(ctx, a.Issuer, keyentities.Key{
		KeyID:   keyID,
		TrustID: trustID,
		Alias:   alias,
		Root:    root,
	})
}

func (a Adapter) MintKey(ctx context.Context, keyID uint64, holder string, amount uint64, soulbind bool) error {
	_, err := a.Keys.Mint(ctx, a.Issuer, keyID, holder, amount, soulbind)
	return err
}

func (a Adapter) BurnKey(ctx context.Context, keyID uint64, holder string, amount uint64) error {
	_, err := a.Keys.Burn(ctx, a.Issuer, keyID, holder, amount)
	return err
}

func (a Adapter) SetFloor(ctx context.Context, keyID uint64, holder string, floor uint64) error {
	_, err := a.Keys.SetSoulboundFloor(ctx, a.Issuer, keyID, holder, floor)
	return err
}

func (a Adapter) KeyInfo(ctx context.Context, keyID uint64) (uint64, bool, bool, error) {
	key, err := a.Keys.KeyInfo(ctx, keyID)
	if errors.Is(err, keyerrors.ErrKeyNotFound) {
		// Unknown keys are reported as absent; callers decide which
		// membership error applies.
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return key.TrustID, key.Root, true, nil
}

func (a Adapter) BalanceOf(ctx context.Context, keyID uint64, holder string) (uint64, error) {
	return a.Keys.BalanceOf(ctx, keyID, holder)
}
