package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/notify"
)

type AutomationGormRepository struct {
	db *gorm.DB
}

func NewAutomationGormRepository(db *gorm.DB) *AutomationGormRepository {
	return &AutomationGormRepository{db: db}
}

// EnabledFor matches trigger_event case-insensitively; rows written before
// triggers were normalized may carry mixed case.
func (r *AutomationGormRepository) EnabledFor(ctx context.Context, trigger string) ([]models.Automation, error) {
	var out []models.Automation
	err := r.db.WithContext(ctx).
		Where("LOWER(trigger_event) = ? AND enabled = ?", trigger, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *AutomationGormRepository) List(ctx context.Context) ([]models.Automation, error) {
	var out []models.Automation
	err := r.db.WithContext(ctx).Order("trigger_event ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *AutomationGormRepository) Get(ctx context.Context, id uint) (*models.Automation, error) {
	var a models.Automation
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// Create keeps an explicit Enabled=false; gorm would otherwise let the
// column default win for the zero value.
func (r *AutomationGormRepository) Create(ctx context.Context, a *models.Automation) error {
	enabled := a.Enabled
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}
	if !enabled {
		a.Enabled = false
		return r.db.WithContext(ctx).Model(a).Update("enabled", false).Error
	}
	return nil
}

func (r *AutomationGormRepository) Save(ctx context.Context, a *models.Automation) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AutomationGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Automation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ notify.AutomationStore = (*AutomationGormRepository)(nil)
