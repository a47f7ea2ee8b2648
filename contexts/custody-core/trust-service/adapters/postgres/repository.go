package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"custodia/contexts/custody-core/trust-service/domain/entities"
	domainerrors "custodia/contexts/custody-core/trust-service/domain/errors"
	"custodia/contexts/custody-core/trust-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	counterTrusts = "trust_ids"
	counterKeys   = "key_ids"

	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

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

type trustModel struct {
	TrustID   uint64    `gorm:"column:trust_id;primaryKey"`
	Name      string    `gorm:"column:name"`
	RootKeyID uint64    `gorm:"column:root_key_id"`
	KeyCount  uint64    `gorm:"column:key_count"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (trustModel) TableName() string { return "custody_trusts" }

type counterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value uint64 `gorm:"column:value"`
}

func (counterModel) TableName() string { return "custody_counters" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "custody_trust_outbox" }

func (r *Repository) CreateTrust(ctx context.Context, trust entities.Trust) error {
	row := trustModel{
		TrustID:   trust.TrustID,
		Name:      trust.Name,
		RootKeyID: trust.RootKeyID,
		KeyCount:  trust.KeyCount,
		CreatedAt: trust.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetTrust(ctx context.Context, trustID uint64) (entities.Trust, error) {
	var row trustModel
	err := r.db.WithContext(ctx).Where("trust_id = ?", trustID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Trust{}, domainerrors.ErrTrustNotFound
	}
	if err != nil {
		return entities.Trust{}, err
	}
	return entities.Trust{
		TrustID:   row.TrustID,
		Name:      row.Name,
		RootKeyID: row.RootKeyID,
		KeyCount:  row.KeyCount,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (r *Repository) IncrementKeyCount(ctx context.Context, trustID uint64) (uint64, error) {
	var count uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row trustModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("trust_id = ?", trustID).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrTrustNotFound
		}
		if err != nil {
			return err
		}
		row.KeyCount++
		count = row.KeyCount
		return tx.Model(&trustModel{}).
			Where("trust_id = ?", trustID).
			Update("key_count", row.KeyCount).Error
	})
	return count, err
}

func (r *Repository) NextTrustID(ctx context.Context) (uint64, error) {
	return r.nextCounter(ctx, counterTrusts)
}

func (r *Repository) NextKeyID(ctx context.Context) (uint64, error) {
	return r.nextCounter(ctx, counterKeys)
}

func (r *Repository) nextCounter(ctx context.Context, name string) (uint64, error) {
	var value uint64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&counterModel{Name: name}).Error; err != nil {
			return err
		}
		var row counterModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&row).Error; err != nil {
			return err
		}
		row.Value++
		if err := tx.Model(&counterModel{}).
			Where("name = ?", name).
			Update("value", row.Value).Error; err != nil {
			return err
		}
		value = row.Value
		return nil
	})
	return value, err
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
