package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	"custodia/contexts/custody-core/ledger-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/ledger-service/domain/errors"
	"custodia/contexts/custody-core/ledger-service/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository keeps one row per nonzero balance cell. The registry views are
// read straight off those rows, so registration and balance can never drift.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type balanceModel struct {
	ContextKind string    `gorm:"column:context_kind;primaryKey"`
	ContextID   uint64    `gorm:"column:context_id;primaryKey"`
	ProviderID  string    `gorm:"column:provider_id;primaryKey"`
	AssetID     string    `gorm:"column:asset_id;primaryKey"`
	Amount      uint64    `gorm:"column:amount"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string { return "custody_balances" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "custody_ledger_outbox" }

func (r *Repository) Deposit(ctx context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error) {
	var after entities.BalanceAfter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key, err := creditCell(tx, entities.KeyContext, keyID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		trust, err := creditCell(tx, entities.TrustContext, trustID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		global, err := creditCell(tx, entities.GlobalContext, entities.GlobalContextID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		after = entities.BalanceAfter{Key: key, Trust: trust, Global: global}
		return nil
	})
	return after, err
}

func (r *Repository) Withdraw(ctx context.Context, trustID uint64, keyID uint64, providerID string, assetID string, amount uint64) (entities.BalanceAfter, error) {
	var after entities.BalanceAfter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key, err := debitCell(tx, entities.KeyContext, keyID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		trust, err := debitCell(tx, entities.TrustContext, trustID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		global, err := debitCell(tx, entities.GlobalContext, entities.GlobalContextID, providerID, assetID, amount)
		if err != nil {
			return err
		}
		after = entities.BalanceAfter{Key: key, Trust: trust, Global: global}
		return nil
	})
	return after, err
}

func (r *Repository) Distribute(ctx context.Context, rootKeyID uint64, providerID string, assetID string, destKeyIDs []uint64, amounts []uint64) (uint64, error) {
	var remaining uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total uint64
		for _, amount := range amounts {
			if amount > math.MaxUint64-total {
				return domainerrors.ErrAmountOverflow
			}
			total += amount
		}
		left, err := debitCell(tx, entities.KeyContext, rootKeyID, providerID, assetID, total)
		if err != nil {
			return err
		}
		for i, destKeyID := range destKeyIDs {
			if _, err := creditCell(tx, entities.KeyContext, destKeyID, providerID, assetID, amounts[i]); err != nil {
				return err
			}
		}
		remaining = left
		return nil
	})
	return remaining, err
}

func creditCell(tx *gorm.DB, kind entities.ContextKind, contextID uint64, providerID string, assetID string, amount uint64) (uint64, error) {
	if amount == 0 {
		return cellAmount(tx, kind, contextID, providerID, assetID)
	}
	var row balanceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
			string(kind), contextID, providerID, assetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = balanceModel{
			ContextKind: string(kind),
			ContextID:   contextID,
			ProviderID:  providerID,
			AssetID:     assetID,
			Amount:      amount,
			UpdatedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}
		return amount, nil
	}
	if err != nil {
		return 0, err
	}
	row.Amount += amount
	if err := tx.Model(&balanceModel{}).
		Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
			string(kind), contextID, providerID, assetID).
		Updates(map[string]any{"amount": row.Amount, "updated_at": time.Now().UTC()}).Error; err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func debitCell(tx *gorm.DB, kind entities.ContextKind, contextID uint64, providerID string, assetID string, amount uint64) (uint64, error) {
	if amount == 0 {
		return cellAmount(tx, kind, contextID, providerID, assetID)
	}
	var row balanceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
			string(kind), contextID, providerID, assetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domainerrors.ErrOverdraft
	}
	if err != nil {
		return 0, err
	}
	if row.Amount < amount {
		return 0, domainerrors.ErrOverdraft
	}
	next := row.Amount - amount
	if next == 0 {
		if err := tx.
			Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
				string(kind), contextID, providerID, assetID).
			Delete(&balanceModel{}).Error; err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err := tx.Model(&balanceModel{}).
		Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
			string(kind), contextID, providerID, assetID).
		Updates(map[string]any{"amount": next, "updated_at": time.Now().UTC()}).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func cellAmount(tx *gorm.DB, kind entities.ContextKind, contextID uint64, providerID string, assetID string) (uint64, error) {
	var row balanceModel
	err := tx.
		Where("context_kind = ? AND context_id = ? AND provider_id = ? AND asset_id = ?",
			string(kind), contextID, providerID, assetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Amount, nil
}

func (r *Repository) Balances(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string, assetIDs []string) ([]uint64, error) {
	amounts := make([]uint64, len(assetIDs))
	for i, assetID := range assetIDs {
		query := r.db.WithContext(ctx).Model(&balanceModel{}).
			Where("context_kind = ? AND context_id = ? AND asset_id = ?", string(kind), contextID, assetID)
		if providerID != "" {
			query = query.Where("provider_id = ?", providerID)
		}
		var total uint64
		if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
			return nil, err
		}
		amounts[i] = total
	}
	return amounts, nil
}

func (r *Repository) AssetRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, providerID string) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&balanceModel{}).
		Where("context_kind = ? AND context_id = ?", string(kind), contextID)
	if providerID != "" {
		query = query.Where("provider_id = ?", providerID)
	}
	var assets []string
	if err := query.Distinct("asset_id").Order("asset_id asc").Pluck("asset_id", &assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *Repository) ProviderRegistry(ctx context.Context, kind entities.ContextKind, contextID uint64, assetID string) ([]string, error) {
	var providers []string
	err := r.db.WithContext(ctx).Model(&balanceModel{}).
		Where("context_kind = ? AND context_id = ? AND asset_id = ?", string(kind), contextID, assetID).
		Distinct("provider_id").
		Order("provider_id asc").
		Pluck("provider_id", &providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope.Payload)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     uuid.NewString(),
		EventType:    envelope.EventType,
		PartitionKey: envelope.EntityID,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAtUTC,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		}).Error
}
