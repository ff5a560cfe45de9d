// Package pricing implements line pricing and the IVA split used for
// electronic invoices. All amounts are tax inclusive unless stated
// otherwise; the configured regime is El Salvador's 13% VAT.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Tier selects which catalog price applies to a line.
type Tier string

const (
	TierUnit      Tier = "UNIT"
	TierWholesale Tier = "WHOLESALE"
)

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return t == TierUnit || t == TierWholesale
}

// IVARate is the fixed VAT fraction applied to every invoice.
var IVARate = decimal.NewFromFloat(0.13)

var one = decimal.NewFromInt(1)

// Round2 rounds to 2 decimals, half away from zero. Every monetary
// figure that leaves this package goes through it.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// BasePrice is the outcome of resolving a line's tier against its
// price snapshots.
type BasePrice struct {
	Value decimal.Decimal
	// IsFallback is true when the wholesale tier was requested but the
	// service has no wholesale price, so the unit price applies.
	IsFallback bool
}

// ResolveBasePrice returns the authoritative base price for the given
// tier. Wholesale resolution falls back to the unit snapshot when no
// wholesale snapshot exists. Pure; identical inputs always resolve to
// the same output.
func ResolveBasePrice(unitSnapshot decimal.Decimal, wholesaleSnapshot *decimal.Decimal, tier Tier) BasePrice {
	if tier == TierWholesale {
		if wholesaleSnapshot != nil {
			return BasePrice{Value: *wholesaleSnapshot}
		}
		return BasePrice{Value: unitSnapshot, IsFallback: true}
	}
	return BasePrice{Value: unitSnapshot}
}

// Breakdown decomposes a tax-inclusive amount.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	IVA      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
}

// SplitGrossAmount decomposes a VAT-inclusive gross amount into the
// VAT-exclusive subtotal and the VAT figure reported to Hacienda.
//
// The subtotal is derived by subtraction (grossRounded - iva), never by
// rounding the unrounded base independently. That ordering is what
// guarantees subtotal + iva == total exactly at 2 decimals.
func SplitGrossAmount(gross decimal.Decimal) Breakdown {
	grossRounded := Round2(gross)
	baseUnrounded := grossRounded.Div(one.Add(IVARate))
	iva := Round2(grossRounded.Sub(baseUnrounded))
	subtotal := Round2(grossRounded.Sub(iva))
	return Breakdown{Subtotal: subtotal, IVA: iva, Total: grossRounded}
}

// LineAmount is one line's contribution to the invoice gross.
type LineAmount struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// AggregateTotals sums quantity x unit price across all lines, each
// product left unrounded, and splits the VAT once at the invoice level.
// Splitting per line and summing would let rounding error accumulate
// and diverge from the invoice-level IVA figure.
func AggregateTotals(lines []LineAmount) Breakdown {
	gross := decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return SplitGrossAmount(gross)
}

// ProfitPercent returns profit/cost x 100, or zero when cost is not
// positive. Zero-cost items report 0, not an infinite margin.
func ProfitPercent(cost, price decimal.Decimal) decimal.Decimal {
	if cost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return Round2(price.Sub(cost).Div(cost).Mul(decimal.NewFromInt(100)))
}
