package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
)

type PushSubscriptionGormRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionGormRepository(db *gorm.DB) *PushSubscriptionGormRepository {
	return &PushSubscriptionGormRepository{db: db}
}

// Upsert registers a browser endpoint. A browser that re-subscribes under
// another user moves the endpoint to that user.
func (r *PushSubscriptionGormRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
		}).
		Create(sub).Error
}

func (r *PushSubscriptionGormRepository) ListForUser(ctx context.Context, userID uint) ([]models.PushSubscription, error) {
	var out []models.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	return out, err
}

func (r *PushSubscriptionGormRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&models.PushSubscription{}).Error
}

// DeleteForUser only removes the endpoint when it belongs to userID.
func (r *PushSubscriptionGormRepository) DeleteForUser(ctx context.Context, userID uint, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

var _ notify.PushStore = (*PushSubscriptionGormRepository)(nil)
