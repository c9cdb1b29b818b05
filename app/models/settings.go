package models

// ShopSettings is a single-row table of shop-wide configuration.
type ShopSettings struct {
	Model
	ShopName              string  `gorm:"size:255" json:"shopName"`
	ShopDescription       string  `gorm:"type:text" json:"shopDescription"`
	ContactEmail          string  `gorm:"size:255" json:"contactEmail"`
	ContactPhone          string  `gorm:"size:50" json:"contactPhone"`
	Address               string  `gorm:"size:255" json:"address"`
	City                  string  `gorm:"size:100" json:"city"`
	State                 string  `gorm:"size:100" json:"state"`
	ZipCode               string  `gorm:"size:20" json:"zipCode"`
	Country               string  `gorm:"size:100" json:"country"`
	Currency              string  `gorm:"size:10" json:"currency"`
	TaxRate               float64 `json:"taxRate"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
}

// DefaultShopSettings is used until an admin saves the settings.
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		ShopName:              "Mock Shop",
		ShopDescription:       "A demonstration storefront",
		ContactEmail:          "support@mockshop.com",
		Currency:              "USD",
		TaxRate:               10,
		FreeShippingThreshold: 100,
	}
}
