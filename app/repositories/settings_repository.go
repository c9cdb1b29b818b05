package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

const (
	shopSettingsKey = "settings:shop"
	shopSettingsTTL = 10 * time.Minute
)

// SettingsRepository handles the shop-wide and per-user settings rows.
type SettingsRepository struct{ base }

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// WithTx returns a copy bound to tx.
func (r *SettingsRepository) WithTx(tx *gorm.DB) *SettingsRepository {
	return &SettingsRepository{base{db: tx}}
}

// Shop returns the settings row, or the defaults when none was saved. Every
// checkout reads it, so the row is cached until SaveShop.
func (r *SettingsRepository) Shop(ctx context.Context) (models.ShopSettings, error) {
	var rows []models.ShopSettings
	if err := r.query(ctx).Order("id ASC").Limit(1).Cache(shopSettingsKey, shopSettingsTTL, &rows); err != nil {
		return models.ShopSettings{}, err
	}
	if len(rows) == 0 {
		return models.DefaultShopSettings(), nil
	}
	return rows[0], nil
}

// SaveShop writes s into the single settings row, creating it if needed.
func (r *SettingsRepository) SaveShop(ctx context.Context, s *models.ShopSettings) error {
	var existing models.ShopSettings
	err := r.query(ctx).Order("id ASC").First(&existing)
	switch {
	case errors.Is(err, orm.ErrNotFound):
		s.ID = 0
		err = r.query(ctx).Create(s)
	case err != nil:
		return err
	default:
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		err = r.query(ctx).Save(s)
	}
	if err != nil {
		return err
	}
	return cache.Forget(shopSettingsKey)
}

// User returns the user's saved settings, or the defaults.
func (r *SettingsRepository) User(ctx context.Context, userID uint) (models.UserSettings, error) {
	var s models.UserSettings
	err := r.query(ctx).Where("user_id = ?", userID).First(&s)
	if errors.Is(err, orm.ErrNotFound) {
		return models.DefaultUserSettings(userID), nil
	}
	return s, err
}

// SaveUser upserts the user's settings row.
func (r *SettingsRepository) SaveUser(ctx context.Context, s *models.UserSettings) error {
	var existing models.UserSettings
	err := r.query(ctx).Where("user_id = ?", s.UserID).First(&existing)
	switch {
	case errors.Is(err, orm.ErrNotFound):
		s.ID = 0
		return r.query(ctx).Create(s)
	case err != nil:
		return err
	}
	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	return r.query(ctx).Save(s)
}

// DeleteUser removes the user's settings row.
func (r *SettingsRepository) DeleteUser(ctx context.Context, userID uint) error {
	_, err := r.query(ctx).Where("user_id = ?", userID).Delete(&models.UserSettings{})
	return err
}
