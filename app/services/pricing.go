package services

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/config"
)

var hundred = decimal.NewFromInt(100)

// PricingRules are the shop-wide inputs of an order total.
type PricingRules struct {
	TaxRate               decimal.Decimal // percent
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// RulesFrom builds pricing rules from the shop settings and the configured
// flat shipping fee.
func RulesFrom(s models.ShopSettings) PricingRules {
	return PricingRules{
		TaxRate:               decimal.NewFromFloat(s.TaxRate),
		FreeShippingThreshold: decimal.NewFromFloat(s.FreeShippingThreshold),
		ShippingFee:           decimal.NewFromFloat(config.ShippingFlatFee()),
	}
}

// Quote is a fully priced order, every amount rounded to cents.
type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Price computes tax on the discounted subtotal, free shipping above the
// threshold and the grand total.
func Price(subtotal, discount decimal.Decimal, rules PricingRules) Quote {
	subtotal = subtotal.Round(2)
	discount = discount.Round(2)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(rules.TaxRate).Div(hundred).Round(2)

	shipping := rules.ShippingFee.Round(2)
	if subtotal.GreaterThan(rules.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    taxable.Add(tax).Add(shipping),
	}
}

// DiscountAmount is the reduction d gives on subtotal: a percentage of it,
// or the fixed value capped at the subtotal.
func DiscountAmount(d models.DiscountCode, subtotal decimal.Decimal) decimal.Decimal {
	value := decimal.NewFromFloat(d.Value)
	switch d.Type {
	case models.DiscountPercentage:
		return subtotal.Mul(value).Div(hundred).Round(2)
	case models.DiscountFixed:
		return decimal.Min(value, subtotal).Round(2)
	}
	return decimal.Zero
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
