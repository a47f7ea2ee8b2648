package ports

import (
	"context"

	"custodia/contexts/custody-core/key-registry/domain/entities"
)

// Repository owns key records and per-holder holdings. Every mutation is a
// single atomic step: either the balance change and its index updates both
// apply, or neither does.
type Repository interface {
	CreateKey(ctx context.Context, key entities.Key) error
	GetKey(ctx context.Context, keyID uint64) (entities.Key, error)

	// Mint credits amount to holder. With soulbind set, the holder's floor is
	// raised by the minted amount so the new units cannot be transferred away.
	Mint(ctx context.Context, keyID uint64, holder string, amount uint64, soulbind bool) (entities.Holding, error)
	Burn(ctx context.Context, keyID uint64, holder string, amount uint64) (entities.Holding, error)
	SetFloor(ctx context.Context, keyID uint64, holder string, floor uint64) (entities.Holding, error)
	Transfer(ctx context.Context, keyID uint64, from string, to string, amount uint64) (entities.Holding, entities.Holding, error)

	GetHolding(ctx context.Context, keyID uint64, holder string) (entities.Holding, bool, error)
	HoldersOf(ctx context.Context, keyID uint64) ([]entities.Holding, error)
	KeysOf(ctx context.Context, holder string) ([]entities.Holding, error)
}
