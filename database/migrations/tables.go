package migrations

import (
	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/pkg/migration"
	"github.com/shashiranjanraj/mockshop/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", createTable(&models.User{}))
	migration.Register("20260101000001_create_categories_table", createTable(&models.Category{}))
	migration.Register("20260101000002_create_products_table", createTable(&models.Product{}))
	migration.Register("20260101000003_create_carts_table", createTable(&models.Cart{}, &models.CartItem{}))
	migration.Register("20260101000004_create_orders_table", createTable(&models.Order{}, &models.OrderItem{}))
	migration.Register("20260101000005_create_discount_codes_table", createTable(&models.DiscountCode{}))
	migration.Register("20260101000006_create_reviews_table", createTable(&models.Review{}))
	migration.Register("20260101000007_create_wishlists_table", createTable(&models.Wishlist{}))
	migration.Register("20260101000008_create_shop_settings_table", createTable(&models.ShopSettings{}))
	migration.Register("20260101000009_create_user_settings_table", createTable(&models.UserSettings{}))
	migration.Register("20260101000010_create_failed_jobs_table", createTable(&queue.FailedJobRecord{}))
}

// tableMigration creates its models on Up and drops them, children first,
// on Down.
type tableMigration struct {
	models []any
}

func createTable(models ...any) *tableMigration {
	return &tableMigration{models: models}
}

func (m *tableMigration) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.models...)
}

func (m *tableMigration) Down(db *gorm.DB) error {
	for i := len(m.models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(m.models[i]); err != nil {
			return err
		}
	}
	return nil
}
