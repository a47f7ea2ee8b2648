package trustdir

import (
	"context"

	trustapplication "custodia/contexts/custody-core/trust-service/application"
)

// Adapter satisfies ports.TrustDirectory against the trust-service module.
type Adapter struct {
	Trusts trustapplication.Service
}

func (a Adapter) KeyTrust(ctx context.Context, keyID uint64) (uint64, bool, bool, error) {
	return a.Trusts.KeyTrust(ctx, keyID)
}

func (a Adapter) RequireRootHolder(ctx context.Context, actor string, trustID uint64) (uint64, error) {
	return a.Trusts.RequireRootHolder(ctx, actor, trustID)
}

func (a Adapter) ValidateKeyRing(ctx context.Context, trustID uint64, keyIDs []uint64, allowRoot bool) error {
	return a.Trusts.ValidateKeyRing(ctx, trustID, keyIDs, allowRoot)
}
