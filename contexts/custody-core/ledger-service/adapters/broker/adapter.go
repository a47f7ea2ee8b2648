// Package broker adapts the permission broker's authorization surface to the
// ledger's Authorizer port, binding this ledger's identity to every call.
package broker

import (
	"context"

	brokerapp "custodia/contexts/custody-core/permission-broker/application"
)

type Adapter struct {
	Broker   brokerapp.Service
	LedgerID string
}

func (a Adapter) AuthorizeDeposit(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error) {
	return a.Broker.AuthorizeDeposit(ctx, a.LedgerID, providerID, keyID, assetID, amount)
}

func (a Adapter) AuthorizeWithdrawal(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) (uint64, error) {
	return a.Broker.AuthorizeWithdrawal(ctx, a.LedgerID, providerID, keyID, assetID, amount)
}

func (a Adapter) ConsumeAllowance(ctx context.Context, providerID string, keyID uint64, assetID string, amount uint64) error {
	return a.Broker.ConsumeAllowance(ctx, a.LedgerID, providerID, keyID, assetID, amount)
}

func (a Adapter) AuthorizeDistribution(ctx context.Context, scribeID string, providerID string, assetID string, rootKeyID uint64, destKeyIDs []uint64, amounts []uint64) (uint64, error) {
	return a.Broker.AuthorizeDistribution(ctx, a.LedgerID, scribeID, providerID, assetID, rootKeyID, destKeyIDs, amounts)
}
