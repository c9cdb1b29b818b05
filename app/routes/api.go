// Package routes registers the HTTP API.
package routes

import (
	"fmt"

	"github.com/shashiranjanraj/mockshop/app/controllers"
	"github.com/shashiranjanraj/mockshop/app/schema"
	"github.com/shashiranjanraj/mockshop/app/services"
	"github.com/shashiranjanraj/mockshop/pkg/ctx"
	"github.com/shashiranjanraj/mockshop/pkg/graphql"
	"github.com/shashiranjanraj/mockshop/pkg/middleware"
	"github.com/shashiranjanraj/mockshop/pkg/rbac"
	"github.com/shashiranjanraj/mockshop/pkg/router"
	"github.com/shashiranjanraj/mockshop/pkg/ws"
)

// RegisterAPI mounts every /api route on r. hub backs the admin order feed.
func RegisterAPI(r *router.Router, hub *ws.Hub) error {
	authC := controllers.NewAuthController()
	catalogC := controllers.NewCatalogController()
	cartC := controllers.NewCartController()
	orderC := controllers.NewOrderController()
	discountC := controllers.NewDiscountController()
	reviewC := controllers.NewReviewController()
	wishlistC := controllers.NewWishlistController()
	userC := controllers.NewUserController()
	uploadC := controllers.NewUploadController()
	adminC := controllers.NewAdminController()
	modC := controllers.NewModerationController()
	productC := controllers.NewProductController()
	feedC := controllers.NewFeedController(hub)

	catalogSchema, err := schema.Catalog(services.NewCatalogService())
	if err != nil {
		return fmt.Errorf("build catalog schema: %w", err)
	}

	api := r.Group("/api")

	// ── Auth ────────────────────────────────────────────────────────────────
	authG := api.Group("/auth")
	authG.Post("/register", "auth.register", ctx.Wrap(authC.Register))
	authG.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	authG.Post("/refresh", "auth.refresh", ctx.Wrap(authC.Refresh))
	authG.Get("/me", "auth.me", ctx.Wrap(authC.Me), middleware.Auth)
	authG.Post("/logout", "auth.logout", ctx.Wrap(authC.Logout), middleware.Auth)

	// ── Catalog ─────────────────────────────────────────────────────────────
	api.Get("/categories", "categories.index", ctx.Wrap(catalogC.Categories))
	api.Get("/products", "products.index", ctx.Wrap(catalogC.Products))
	api.Get("/products/{id}", "products.show", ctx.Wrap(catalogC.Product))
	api.Post("/graphql", "graphql", graphql.Handler(catalogSchema))
	api.Post("/discounts/validate", "discounts.validate", ctx.Wrap(discountC.Validate))
	api.Get("/reviews/product/{productId}", "reviews.product", ctx.Wrap(reviewC.ForProduct))

	// Guests may check out; the token is honoured when present.
	api.Post("/orders", "orders.store", ctx.Wrap(orderC.Place), middleware.OptionalAuth)

	// ── Customer ────────────────────────────────────────────────────────────
	user := api.Group("", middleware.Auth)

	user.Get("/cart", "cart.show", ctx.Wrap(cartC.Show))
	user.Post("/cart", "cart.add", ctx.Wrap(cartC.Add))
	user.Put("/cart", "cart.update", ctx.Wrap(cartC.Update))
	user.Delete("/cart", "cart.remove", ctx.Wrap(cartC.Remove))
	user.Delete("/cart/clear", "cart.clear", ctx.Wrap(cartC.Clear))

	user.Get("/orders", "orders.index", ctx.Wrap(orderC.Index))
	user.Get("/orders/{id}", "orders.show", ctx.Wrap(orderC.Show))
	user.Get("/orders/{id}/events", "orders.events", ctx.Wrap(orderC.Events))

	user.Post("/reviews", "reviews.store", ctx.Wrap(reviewC.Create))

	user.Get("/wishlist", "wishlist.index", ctx.Wrap(wishlistC.Index))
	user.Post("/wishlist", "wishlist.add", ctx.Wrap(wishlistC.Add))
	user.Delete("/wishlist", "wishlist.remove", ctx.Wrap(wishlistC.Remove))
	user.Delete("/wishlist/{id}", "wishlist.destroy", ctx.Wrap(wishlistC.Destroy))

	user.Get("/user/data-export", "user.export", ctx.Wrap(userC.Export))
	user.Delete("/user/delete-account", "user.delete", ctx.Wrap(userC.Delete))
	user.Get("/user/settings", "user.settings", ctx.Wrap(userC.Settings))
	user.Put("/user/settings", "user.settings.update", ctx.Wrap(userC.UpdateSettings))

	// ── Admin ───────────────────────────────────────────────────────────────
	staff := api.Group("", middleware.Auth, rbac.Admin())
	staff.Post("/upload", "upload.image", ctx.Wrap(uploadC.Image))

	admin := staff.Group("/admin")
	admin.Get("/dashboard", "admin.dashboard", ctx.Wrap(adminC.Dashboard))
	admin.Get("/analytics", "admin.analytics", ctx.Wrap(adminC.Analytics))
	admin.Get("/customers", "admin.customers", ctx.Wrap(adminC.Customers))
	admin.Get("/settings", "admin.settings", ctx.Wrap(adminC.Settings))
	admin.Put("/settings", "admin.settings.update", ctx.Wrap(adminC.UpdateSettings))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(adminC.Orders))
	admin.Get("/orders/feed", "admin.orders.feed", ctx.Wrap(feedC.Orders))
	admin.Get("/orders/{id}", "admin.orders.show", ctx.Wrap(adminC.Order))
	admin.Patch("/orders/{id}", "admin.orders.status", ctx.Wrap(adminC.UpdateOrderStatus))

	admin.Get("/discounts", "admin.discounts.index", ctx.Wrap(modC.Discounts))
	admin.Post("/discounts", "admin.discounts.store", ctx.Wrap(modC.CreateDiscount))
	admin.Patch("/discounts/{id}", "admin.discounts.toggle", ctx.Wrap(modC.ToggleDiscount))
	admin.Delete("/discounts/{id}", "admin.discounts.destroy", ctx.Wrap(modC.DeleteDiscount))

	admin.Get("/reviews", "admin.reviews.index", ctx.Wrap(modC.Reviews))
	admin.Patch("/reviews/{id}", "admin.reviews.approve", ctx.Wrap(modC.ApproveReview))
	admin.Delete("/reviews/{id}", "admin.reviews.destroy", ctx.Wrap(modC.DeleteReview))

	admin.Get("/products", "admin.products.index", ctx.Wrap(productC.Index))
	admin.Post("/products", "admin.products.store", ctx.Wrap(productC.Create))
	admin.Get("/products/export", "admin.products.export", ctx.Wrap(productC.Export))
	admin.Post("/products/import", "admin.products.import", ctx.Wrap(productC.Import))
	admin.Get("/products/{id}", "admin.products.show", ctx.Wrap(productC.Show))
	admin.Put("/products/{id}", "admin.products.replace", ctx.Wrap(productC.Replace))
	admin.Patch("/products/{id}", "admin.products.patch", ctx.Wrap(productC.Patch))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(productC.Delete))

	return nil
}
