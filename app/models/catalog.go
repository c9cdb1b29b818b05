package models

// Category groups products. Only active categories are listed publicly.
type Category struct {
	Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	IsActive    bool   `gorm:"not null;index" json:"isActive"`
}

// Product is a sellable item. StockQuantity only moves on order placement
// and admin edits.
type Product struct {
	Model
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	StockQuantity int       `gorm:"not null;default:0" json:"stockQuantity"`
	IsActive      bool      `gorm:"not null;index" json:"isActive"`
	Images        []string  `gorm:"serializer:json;type:text" json:"images"`
	CategoryID    *uint     `gorm:"index" json:"categoryId"`
	Category      *Category `json:"category,omitempty"`
}

// Review is a customer's rating of a product. Reviews stay hidden until an
// admin approves them.
type Review struct {
	Model
	ProductID  uint     `gorm:"uniqueIndex:idx_review_product_user;not null" json:"productId"`
	UserID     uint     `gorm:"uniqueIndex:idx_review_product_user;not null;index" json:"userId"`
	Rating     int      `gorm:"not null" json:"rating"`
	Comment    *string  `gorm:"type:text" json:"comment"`
	IsApproved bool     `gorm:"not null;index" json:"isApproved"`
	User       *User    `json:"user,omitempty"`
	Product    *Product `json:"product,omitempty"`
}

// Wishlist is one saved product of a user.
type Wishlist struct {
	Model
	UserID    uint     `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"userId"`
	ProductID uint     `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"productId"`
	Product   *Product `json:"product,omitempty"`
}
