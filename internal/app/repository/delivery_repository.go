package repository

import (
	"context"
	"time"

	"github.com/suwityarat/portfolio/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliveryRepository defines the data access contract for the contact
// delivery ledger.
type DeliveryRepository interface {
	BeginAttempt(ctx context.Context, messageID string) error
	MarkSent(ctx context.Context, messageID string) error
	MarkFailed(ctx context.Context, messageID string, reason string) error
	IsSent(ctx context.Context, messageID string) (bool, error)
	SentSince(ctx context.Context, since time.Time) ([]string, error)
	FailStalePending(ctx context.Context, updatedBefore time.Time) (int64, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository returns a GORM-backed DeliveryRepository.
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

// BeginAttempt inserts a pending row or bumps the attempt count of an
// existing one.
func (r *deliveryRepository) BeginAttempt(ctx context.Context, messageID string) error {
	row := &model.ContactDelivery{
		MessageID: messageID,
		Status:    model.DeliveryStatusPending,
		Attempts:  1,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     model.DeliveryStatusPending,
			"attempts":   gorm.Expr("contact_deliveries.attempts + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(row).Error
}

func (r *deliveryRepository) MarkSent(ctx context.Context, messageID string) error {
	return r.db.WithContext(ctx).Model(&model.ContactDelivery{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"status":     model.DeliveryStatusSent,
			"last_error": "",
		}).Error
}

func (r *deliveryRepository) MarkFailed(ctx context.Context, messageID string, reason string) error {
	return r.db.WithContext(ctx).Model(&model.ContactDelivery{}).
		Where("message_id = ?", messageID).
		Updates(map[string]interface{}{
			"status":     model.DeliveryStatusFailed,
			"last_error": reason,
		}).Error
}

func (r *deliveryRepository) IsSent(ctx context.Context, messageID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ContactDelivery{}).
		Where("message_id = ? AND status = ?", messageID, model.DeliveryStatusSent).
		Count(&count).Error
	return count > 0, err
}

func (r *deliveryRepository) SentSince(ctx context.Context, since time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.ContactDelivery{}).
		Where("status = ? AND updated_at >= ?", model.DeliveryStatusSent, since).
		Pluck("message_id", &ids).Error
	return ids, err
}

func (r *deliveryRepository) FailStalePending(ctx context.Context, updatedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.ContactDelivery{}).
		Where("status = ? AND updated_at < ?", model.DeliveryStatusPending, updatedBefore).
		Updates(map[string]interface{}{
			"status":     model.DeliveryStatusFailed,
			"last_error": "stalled: no outcome recorded",
		})
	return result.RowsAffected, result.Error
}
