package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
)

// DiscountRepository handles database operations for DiscountCode.
type DiscountRepository struct{ base }

func NewDiscountRepository() *DiscountRepository {
	return &DiscountRepository{}
}

// WithTx returns a copy bound to tx.
func (r *DiscountRepository) WithTx(tx *gorm.DB) *DiscountRepository {
	return &DiscountRepository{base{db: tx}}
}

// FindByCode loads a code. Codes are stored upper-case.
func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (models.DiscountCode, error) {
	var d models.DiscountCode
	err := r.query(ctx).Where("code = ?", code).First(&d)
	return d, err
}

func (r *DiscountRepository) Find(ctx context.Context, id uint) (models.DiscountCode, error) {
	var d models.DiscountCode
	err := r.query(ctx).Where("id = ?", id).First(&d)
	return d, err
}

// All lists every code, newest first.
func (r *DiscountRepository) All(ctx context.Context) ([]models.DiscountCode, error) {
	var out []models.DiscountCode
	err := r.query(ctx).Order("created_at DESC").Get(&out)
	return out, err
}

func (r *DiscountRepository) Create(ctx context.Context, d *models.DiscountCode) error {
	return r.query(ctx).Create(d)
}

// CodeTaken reports whether code is already in use.
func (r *DiscountRepository) CodeTaken(ctx context.Context, code string) (bool, error) {
	return r.query(ctx).Model(&models.DiscountCode{}).Where("code = ?", code).Exists()
}

// SetActive toggles a code and reports the affected rows.
func (r *DiscountRepository) SetActive(ctx context.Context, id uint, active bool) (int64, error) {
	return r.query(ctx).Model(&models.DiscountCode{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": active})
}

func (r *DiscountRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.query(ctx).Where("id = ?", id).Delete(&models.DiscountCode{})
}

// Redeem increments the usage counter unless the code is exhausted. It
// reports false when the guard rejected the update.
func (r *DiscountRepository) Redeem(ctx context.Context, id uint) (bool, error) {
	res := r.gorm(ctx).Model(&models.DiscountCode{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", id).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
	return res.RowsAffected == 1, res.Error
}
