package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/services"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice(t *testing.T) {
	rules := services.RulesFrom(models.DefaultShopSettings())

	tests := []struct {
		name               string
		subtotal, discount string
		tax, ship, total   string
	}{
		{"free shipping above threshold", "199.99", "0", "20.00", "0", "219.99"},
		{"flat fee below threshold", "29.99", "0", "3.00", "9.99", "42.98"},
		{"exactly at threshold pays shipping", "100", "0", "10.00", "9.99", "119.99"},
		{"tax on discounted amount", "150", "15", "13.50", "0", "148.50"},
		{"discount capped at subtotal", "20", "50", "0", "9.99", "9.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := services.Price(d(tt.subtotal), d(tt.discount), rules)
			assert.True(t, q.Tax.Equal(d(tt.tax)), "tax %s", q.Tax)
			assert.True(t, q.Shipping.Equal(d(tt.ship)), "shipping %s", q.Shipping)
			assert.True(t, q.Total.Equal(d(tt.total)), "total %s", q.Total)
		})
	}
}

func TestDiscountAmount(t *testing.T) {
	pct := models.DiscountCode{Type: models.DiscountPercentage, Value: 10}
	fixed := models.DiscountCode{Type: models.DiscountFixed, Value: 20}

	assert.True(t, services.DiscountAmount(pct, d("59.99")).Equal(d("6.00")))
	assert.True(t, services.DiscountAmount(fixed, d("120")).Equal(d("20")))
}
