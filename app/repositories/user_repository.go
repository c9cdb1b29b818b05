package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct{ base }

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// WithTx returns a copy bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{base{db: tx}}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.query(ctx).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.query(ctx).Where("id = ?", id).First(&user)
	return user, err
}

// EmailTaken reports whether an account already uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.query(ctx).Model(&models.User{}).Where("email = ?", email).Exists()
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.query(ctx).Create(user)
}

// UpdateNames changes the profile names of a user.
func (r *UserRepository) UpdateNames(ctx context.Context, id uint, first, last string) error {
	_, err := r.query(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"first_name": first, "last_name": last})
	return err
}

// Delete removes the user row only. Owned rows are handled by the caller.
func (r *UserRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.query(ctx).Where("id = ?", id).Delete(&models.User{})
}

// CountCustomers counts CUSTOMER accounts.
func (r *UserRepository) CountCustomers(ctx context.Context) (int64, error) {
	return r.query(ctx).Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count()
}

// CustomerSignups returns the creation times of customers in [from, to].
func (r *UserRepository) CustomerSignups(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	err := r.gorm(ctx).Model(&models.User{}).
		Where("role = ? AND created_at >= ? AND created_at <= ?", models.RoleCustomer, from, to).
		Pluck("created_at", &out).Error
	return out, err
}

// CustomerFilter narrows the admin customer list.
type CustomerFilter struct {
	Search string
	Role   string
}

// CustomerRow is one line of the admin customer list.
type CustomerRow struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	TotalSpent  float64   `json:"totalSpent"`
	OrderCount  int64     `json:"orderCount"`
	ReviewCount int64     `json:"reviewCount"`
}

// Customers lists users with their order totals and review counts, newest
// first.
func (r *UserRepository) Customers(ctx context.Context, f CustomerFilter) ([]CustomerRow, error) {
	q := r.gorm(ctx).Model(&models.User{}).
		Select(`users.id, users.email, users.first_name, users.last_name, users.role, users.created_at,
			(SELECT COALESCE(SUM(o.total), 0) FROM orders o WHERE o.user_id = users.id) AS total_spent,
			(SELECT COUNT(*) FROM orders o WHERE o.user_id = users.id) AS order_count,
			(SELECT COUNT(*) FROM reviews rv WHERE rv.user_id = users.id) AS review_count`)

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?", like, like, like)
	}
	if f.Role != "" && f.Role != "all" {
		q = q.Where("users.role = ?", f.Role)
	}

	var rows []CustomerRow
	err := q.Order("users.created_at DESC").Scan(&rows).Error
	return rows, err
}
