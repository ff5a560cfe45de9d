package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveBasePrice_WholesaleFallback(t *testing.T) {
	base := ResolveBasePrice(dec("150.00"), nil, TierWholesale)
	assert.True(t, base.IsFallback)
	assert.True(t, base.Value.Equal(dec("150.00")))
}

func TestResolveBasePrice_WholesaleDefined(t *testing.T) {
	wholesale := dec("40.00")
	base := ResolveBasePrice(dec("50.00"), &wholesale, TierWholesale)
	assert.False(t, base.IsFallback)
	assert.True(t, base.Value.Equal(dec("40.00")))
}

func TestResolveBasePrice_UnitIgnoresWholesale(t *testing.T) {
	wholesale := dec("40.00")
	base := ResolveBasePrice(dec("50.00"), &wholesale, TierUnit)
	assert.False(t, base.IsFallback)
	assert.True(t, base.Value.Equal(dec("50.00")))
}

func TestSplitGrossAmount_KnownValue(t *testing.T) {
	b := SplitGrossAmount(dec("113.00"))
	assert.Equal(t, "100.00", b.Subtotal.StringFixed(2))
	assert.Equal(t, "13.00", b.IVA.StringFixed(2))
	assert.Equal(t, "113.00", b.Total.StringFixed(2))
}

func TestSplitGrossAmount_Reconciles(t *testing.T) {
	// The reconciliation invariant: subtotal + iva == total to the
	// cent for any 2-decimal gross.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		cents := rng.Int63n(10000000-1) + 1 // 0.01 .. 100000.00
		gross := decimal.New(cents, -2)
		b := SplitGrossAmount(gross)
		require.Truef(t, b.Subtotal.Add(b.IVA).Equal(b.Total),
			"gross=%s subtotal=%s iva=%s total=%s", gross, b.Subtotal, b.IVA, b.Total)
		require.True(t, b.Total.Equal(gross))
	}
}

func TestSplitGrossAmount_ZeroAndNegative(t *testing.T) {
	zero := SplitGrossAmount(decimal.Zero)
	assert.True(t, zero.Subtotal.IsZero())
	assert.True(t, zero.IVA.IsZero())
	assert.True(t, zero.Total.IsZero())

	// Credit-note style negatives still reconcile.
	neg := SplitGrossAmount(dec("-113.00"))
	assert.True(t, neg.Subtotal.Add(neg.IVA).Equal(neg.Total))
}

func TestAggregateTotals_SplitsOnceAtInvoiceLevel(t *testing.T) {
	b := AggregateTotals([]LineAmount{
		{Quantity: 2, UnitPrice: dec("150.00")},
		{Quantity: 1, UnitPrice: dec("40.00")},
	})
	assert.Equal(t, "340.00", b.Total.StringFixed(2))
	assert.Equal(t, "300.88", b.Subtotal.StringFixed(2))
	assert.Equal(t, "39.12", b.IVA.StringFixed(2))
}

func TestProfitPercent(t *testing.T) {
	assert.Equal(t, "25.00", ProfitPercent(dec("80"), dec("100")).StringFixed(2))
	// Zero-cost items report 0, not an infinite margin.
	assert.True(t, ProfitPercent(decimal.Zero, dec("100")).IsZero())
	assert.True(t, ProfitPercent(dec("-1"), dec("100")).IsZero())
}
