package services

import (
	"github.com/shopspring/decimal"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
)

// CartLine is one priced cart line.
type CartLine struct {
	UnitPrice float64
	Quantity  int
}

// PricedCart is the result of applying a coupon to a cart. AdjustedPrices
// holds one discounted unit price per input line, in order.
type PricedCart struct {
	AdjustedPrices []float64
	DiscountAmount float64
	Subtotal       float64
	Coupon         *models.Coupon
}

// AdjustedTotal is the sum of the adjusted line totals at gateway precision.
func (p PricedCart) AdjustedTotal(lines []CartLine) float64 {
	total := decimal.Zero
	for i, l := range lines {
		price := decimal.NewFromFloat(p.AdjustedPrices[i]).Round(2)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// ApplyCoupon prices lines with an already resolved coupon. A nil coupon
// leaves every price unchanged. Percentage coupons scale each unit price;
// fixed coupons are spread over the lines in proportion to their subtotal
// and are not clamped to the subtotal.
func ApplyCoupon(lines []CartLine, coupon *models.Coupon) PricedCart {
	prices := make([]float64, len(lines))
	subtotal := decimal.Zero
	for i, l := range lines {
		prices[i] = l.UnitPrice
		subtotal = subtotal.Add(lineTotal(l))
	}
	subtotalF, _ := subtotal.Float64()
	result := PricedCart{AdjustedPrices: prices, Subtotal: subtotalF}
	if coupon == nil || len(lines) == 0 {
		return result
	}

	value := decimal.NewFromFloat(coupon.DiscountValue)
	var discount decimal.Decimal

	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		rate := value.Div(decimal.NewFromInt(100))
		keep := decimal.NewFromInt(1).Sub(rate)
		discount = subtotal.Mul(rate)
		for i, l := range lines {
			prices[i], _ = decimal.NewFromFloat(l.UnitPrice).Mul(keep).Float64()
		}
	case models.DiscountTypeFixed:
		if subtotal.IsZero() {
			return result
		}
		discount = value
		if discount.GreaterThan(subtotal) {
			utils.LogWarn("Fixed coupon %s (%s) exceeds cart subtotal %s", coupon.Code, value, subtotal)
		}
		for i, l := range lines {
			if l.Quantity <= 0 {
				continue
			}
			itemSubtotal := lineTotal(l)
			share := discount.Mul(itemSubtotal).Div(subtotal)
			prices[i], _ = itemSubtotal.Sub(share).Div(decimal.NewFromInt(int64(l.Quantity))).Float64()
		}
	default:
		utils.LogWarn("Coupon %s has unknown discount type %q, ignoring", coupon.Code, coupon.DiscountType)
		return result
	}

	result.DiscountAmount, _ = discount.Round(2).Float64()
	result.Coupon = coupon
	return result
}

// DiscountFor computes the standalone discount a coupon grants on a total.
func DiscountFor(coupon models.Coupon, orderTotal float64) float64 {
	value := decimal.NewFromFloat(coupon.DiscountValue)
	discount := value
	if coupon.DiscountType == models.DiscountTypePercentage {
		discount = decimal.NewFromFloat(orderTotal).Mul(value).Div(decimal.NewFromInt(100))
	}
	f, _ := discount.Round(2).Float64()
	return f
}

func lineTotal(l CartLine) decimal.Decimal {
	return decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}
