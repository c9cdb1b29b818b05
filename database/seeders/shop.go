package seeders

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"gorm.io/gorm"
)

// DemoPassword is the password of both seeded accounts.
const DemoPassword = "password123"

func init() {
	Register("categories", seedCategories)
	Register("products", seedProducts)
	Register("users", seedUsers)
	Register("discount_codes", seedDiscountCodes)
	Register("shop_settings", seedShopSettings)
}

func seedCategories(db *gorm.DB) error {
	cats := []models.Category{
		{Name: "Electronics", Description: "Latest electronic devices and gadgets", Slug: "electronics", IsActive: true},
		{Name: "Clothing", Description: "Fashion and apparel for all occasions", Slug: "clothing", IsActive: true},
		{Name: "Home & Garden", Description: "Everything for your home and garden", Slug: "home-garden", IsActive: true},
	}
	for i := range cats {
		if err := db.Where(models.Category{Slug: cats[i].Slug}).FirstOrCreate(&cats[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(db *gorm.DB) error {
	products := []struct {
		category string
		product  models.Product
	}{
		{"electronics", models.Product{
			Name:          "Wireless Headphones",
			Description:   "High-quality wireless headphones with noise cancellation",
			Price:         199.99,
			StockQuantity: 50,
			Images:        []string{"/images/headphones.svg"},
		}},
		{"electronics", models.Product{
			Name:          "Smartphone",
			Description:   "Latest model smartphone with advanced features",
			Price:         699.99,
			StockQuantity: 30,
			Images:        []string{"/images/smartphone.svg"},
		}},
		{"clothing", models.Product{
			Name:          "T-Shirt",
			Description:   "Comfortable cotton t-shirt",
			Price:         29.99,
			StockQuantity: 100,
			Images:        []string{"/images/tshirt.svg"},
		}},
	}

	for _, p := range products {
		var cat models.Category
		if err := db.Where("slug = ?", p.category).First(&cat).Error; err != nil {
			return fmt.Errorf("category %s: %w", p.category, err)
		}
		row := p.product
		row.CategoryID = &cat.ID
		row.IsActive = true
		if err := db.Where("name = ?", row.Name).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	users := []models.User{
		{Email: "admin@mockshop.com", Password: hash, FirstName: "Admin", LastName: "User", Role: models.RoleAdmin},
		{Email: "customer@mockshop.com", Password: hash, FirstName: "John", LastName: "Doe", Role: models.RoleCustomer},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDiscountCodes(db *gorm.DB) error {
	now := time.Now()
	codes := []models.DiscountCode{
		{
			Code: "WELCOME10", Type: models.DiscountPercentage, Value: 10,
			MinOrderAmount: ptr(50.0), MaxUses: ptr(100),
			ExpiresAt: ptr(now.AddDate(0, 0, 30)), IsActive: true,
		},
		{
			Code: "SAVE20", Type: models.DiscountFixed, Value: 20,
			MinOrderAmount: ptr(100.0), MaxUses: ptr(50),
			ExpiresAt: ptr(now.AddDate(0, 0, 60)), IsActive: true,
		},
		{Code: "TESTCODE20", Type: models.DiscountPercentage, Value: 20, IsActive: true},
	}
	for i := range codes {
		if err := db.Where("code = ?", codes[i].Code).FirstOrCreate(&codes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedShopSettings(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.ShopSettings{}).Count(&n).Error; err != nil || n > 0 {
		return err
	}
	s := models.DefaultShopSettings()
	return db.Create(&s).Error
}

func ptr[T any](v T) *T { return &v }
