// Package testutil builds isolated databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/config"
	_ "github.com/shashiranjanraj/mockshop/database/migrations"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/migration"
)

// NewDB opens a private in-memory SQLite database, migrates it and installs
// it as database.DB for the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.Set("APP_ENV", "test")
	config.Set("PAYMENT_DELAY", "0")
	cache.Flush()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	_, err = migration.New(db).Quiet().Run()
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixtures creates rows with sensible defaults.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

// NewFixtures returns a fixture builder bound to db.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) seq() int {
	f.n++
	return f.n
}

// User creates a user with password "secret123".
func (f *Fixtures) User(role string) models.User {
	f.t.Helper()
	hash, err := auth.HashPassword("secret123")
	require.NoError(f.t, err)
	n := f.seq()
	u := models.User{
		Email:     fmt.Sprintf("user%d@example.com", n),
		Password:  hash,
		FirstName: "User",
		LastName:  fmt.Sprintf("N%d", n),
		Role:      role,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

// Customer creates a CUSTOMER user.
func (f *Fixtures) Customer() models.User { return f.User(models.RoleCustomer) }

// Admin creates an ADMIN user.
func (f *Fixtures) Admin() models.User { return f.User(models.RoleAdmin) }

// Token returns a valid access token for u.
func (f *Fixtures) Token(u models.User) string {
	f.t.Helper()
	tok, err := auth.GenerateToken(u.ID, u.Role)
	require.NoError(f.t, err)
	return tok
}

// Category creates an active category.
func (f *Fixtures) Category(name string) models.Category {
	f.t.Helper()
	c := models.Category{Name: name, Slug: fmt.Sprintf("cat-%d", f.seq()), IsActive: true}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

// Product creates an active product.
func (f *Fixtures) Product(name string, price float64, stock int) models.Product {
	f.t.Helper()
	p := models.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
		Images:        []string{models.PlaceholderImage},
	}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

// Discount creates an active discount code.
func (f *Fixtures) Discount(code, typ string, value float64, opts ...func(*models.DiscountCode)) models.DiscountCode {
	f.t.Helper()
	d := models.DiscountCode{Code: code, Type: typ, Value: value, IsActive: true}
	for _, o := range opts {
		o(&d)
	}
	require.NoError(f.t, f.db.Create(&d).Error)
	return d
}

// Order creates an order for user with one line per product, bypassing
// checkout. Status defaults to CONFIRMED when empty.
func (f *Fixtures) Order(user *models.User, status string, lines map[*models.Product]int) models.Order {
	f.t.Helper()
	if status == "" {
		status = models.OrderConfirmed
	}
	o := models.Order{Status: status, PaymentMethod: "card"}
	if user != nil {
		o.UserID = &user.ID
	}
	for p, qty := range lines {
		o.Items = append(o.Items, models.OrderItem{ProductID: p.ID, Quantity: qty, Price: p.Price})
		o.Subtotal += p.Price * float64(qty)
	}
	o.Total = o.Subtotal
	require.NoError(f.t, f.db.Create(&o).Error)
	return o
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
