package builder

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abogados-sv/facturacion/internal/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func serviceA() ServiceSnapshot {
	// Unit $150.00, no wholesale price defined.
	return ServiceSnapshot{ServiceID: 1, Name: "Escritura de compraventa", UnitPrice: dec("150.00")}
}

func serviceB() ServiceSnapshot {
	return ServiceSnapshot{ServiceID: 2, Name: "Autenticación de firma", UnitPrice: dec("50.00"), WholesalePrice: decPtr("40.00")}
}

func authorized(b *Builder) {
	b.Authorize("tok-1", now.Add(5*time.Minute))
}

func TestAddService_SnapshotsAndInitialPrice(t *testing.T) {
	b := New()
	l := b.AddService(serviceB())
	assert.Equal(t, int64(1), l.Quantity)
	assert.Equal(t, pricing.TierUnit, l.Tier)
	assert.Equal(t, "50.00", l.PriceDraft)
	assert.False(t, l.PriceOverridden)

	// Re-adding increments quantity instead of duplicating the line.
	b.AddService(serviceB())
	assert.Len(t, b.Lines(), 1)
	assert.Equal(t, int64(2), l.Quantity)
}

func TestSetQuantity_ClampsToOne(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	for _, raw := range []string{"0", "-5", "abc", "", "NaN", "-Inf"} {
		require.NoError(t, b.SetQuantity(1, raw))
		assert.Equalf(t, int64(1), b.Lines()[0].Quantity, "raw=%q", raw)
	}
	require.NoError(t, b.SetQuantity(1, "3.9"))
	assert.Equal(t, int64(3), b.Lines()[0].Quantity)
}

func TestSetQuantity_HugeInputStaysPositive(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	// Finite floats past int64 range must not wrap negative.
	for _, raw := range []string{"1e19", "9.3e18", "1e308"} {
		require.NoError(t, b.SetQuantity(1, raw))
		assert.GreaterOrEqualf(t, b.Lines()[0].Quantity, int64(1), "raw=%q", raw)
	}
	require.NoError(t, b.SetQuantity(1, "9e18"))
	assert.Equal(t, int64(9000000000000000000), b.Lines()[0].Quantity)
}

func TestGlobalTier_WholesaleWithFallback(t *testing.T) {
	b := New()
	la := b.AddService(serviceA())
	lb := b.AddService(serviceB())
	require.NoError(t, b.SetQuantity(1, "2"))

	b.SetGlobalTier(pricing.TierWholesale)

	assert.Equal(t, "150.00", la.AppliedUnitPrice.StringFixed(2))
	assert.True(t, la.BasePrice().IsFallback)
	assert.Equal(t, "40.00", lb.AppliedUnitPrice.StringFixed(2))
	assert.False(t, lb.BasePrice().IsFallback)

	sub, err := b.Normalize(now)
	require.NoError(t, err)
	assert.Equal(t, "340.00", sub.Totals.Total.StringFixed(2))
	assert.Equal(t, "300.88", sub.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "39.12", sub.Totals.IVA.StringFixed(2))
	assert.Empty(t, sub.OverrideToken)
}

func TestGlobalTier_SkipsPinnedLines(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	require.NoError(t, b.SetLineTier(2, pricing.TierUnit))

	b.SetGlobalTier(pricing.TierWholesale)

	l := b.Lines()[0]
	assert.Equal(t, pricing.TierUnit, l.Tier)
	assert.Equal(t, "50.00", l.AppliedUnitPrice.StringFixed(2))
}

func TestTierSwitch_PreservesManualOverride(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))
	require.NoError(t, b.EditPriceDraft(2, "999.99"))
	require.NoError(t, b.BlurPrice(2))
	require.True(t, b.Lines()[0].PriceOverridden)

	require.NoError(t, b.SetLineTier(2, pricing.TierWholesale))

	l := b.Lines()[0]
	assert.Equal(t, "999.99", l.AppliedUnitPrice.StringFixed(2))
	assert.True(t, l.PriceOverridden)
}

func TestTierSwitch_OverrideMatchingNewBaseClearsFlag(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))
	require.NoError(t, b.EditPriceDraft(2, "40.00"))
	require.NoError(t, b.BlurPrice(2))
	require.True(t, b.Lines()[0].PriceOverridden)

	// The manual price equals the wholesale base, so after the switch
	// the line is no longer considered overridden.
	require.NoError(t, b.SetLineTier(2, pricing.TierWholesale))
	assert.False(t, b.Lines()[0].PriceOverridden)
}

func TestEditPriceDraft_RequiresUnlock(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	assert.ErrorIs(t, b.EditPriceDraft(1, "10"), ErrLineLocked)

	// A token alone is not enough; the line must be unlocked too.
	authorized(b)
	assert.ErrorIs(t, b.EditPriceDraft(1, "10"), ErrLineLocked)

	require.NoError(t, b.Unlock(1, now))
	assert.NoError(t, b.EditPriceDraft(1, "10"))
}

func TestUnlock_WithoutAuthorization(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	assert.ErrorIs(t, b.Unlock(1, now), ErrOverrideUnauthorized)

	b.Authorize("tok", now.Add(-time.Second))
	assert.ErrorIs(t, b.Unlock(1, now), ErrOverrideUnauthorized)
}

func TestBlurPrice_EmptyDraftResetsToBase(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))
	require.NoError(t, b.EditPriceDraft(2, "75"))
	require.NoError(t, b.BlurPrice(2))
	require.True(t, b.Lines()[0].PriceOverridden)

	require.NoError(t, b.EditPriceDraft(2, ""))
	require.NoError(t, b.BlurPrice(2))

	l := b.Lines()[0]
	assert.Equal(t, "50.00", l.AppliedUnitPrice.StringFixed(2))
	assert.Equal(t, "50.00", l.PriceDraft)
	assert.False(t, l.PriceOverridden)
	assert.Empty(t, l.PriceError)
}

func TestBlurPrice_InvalidDraftKeepsPrice(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))

	for _, raw := range []string{"-3", "abc", "Inf"} {
		require.NoError(t, b.EditPriceDraft(2, raw))
		require.NoError(t, b.BlurPrice(2))
		l := b.Lines()[0]
		assert.Equalf(t, MsgPriceInvalid, l.PriceError, "raw=%q", raw)
		assert.Equal(t, "50.00", l.AppliedUnitPrice.StringFixed(2))
	}
}

func TestBlurPrice_TrailingDot(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))
	require.NoError(t, b.EditPriceDraft(2, "12."))
	require.NoError(t, b.BlurPrice(2))

	l := b.Lines()[0]
	assert.Equal(t, "12.00", l.PriceDraft)
	assert.True(t, l.PriceOverridden)
}

func TestResetToBase_WorksOnLockedLines(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	authorized(b)
	require.NoError(t, b.Unlock(2, now))
	require.NoError(t, b.EditPriceDraft(2, "75"))
	require.NoError(t, b.BlurPrice(2))

	b.Lines()[0].Editable = false
	require.NoError(t, b.ResetToBase(2))
	l := b.Lines()[0]
	assert.Equal(t, "50.00", l.AppliedUnitPrice.StringFixed(2))
	assert.False(t, l.PriceOverridden)
}

func TestNormalize_RejectsEmptyInvoice(t *testing.T) {
	_, err := New().Normalize(now)
	assert.ErrorIs(t, err, ErrNoLines)
}

func TestNormalize_OverrideGating(t *testing.T) {
	newOverridden := func() *Builder {
		b := New()
		b.AddService(serviceB())
		b.Authorize("tok", now.Add(5*time.Minute))
		if err := b.Unlock(2, now); err != nil {
			t.Fatal(err)
		}
		if err := b.EditPriceDraft(2, "75"); err != nil {
			t.Fatal(err)
		}
		if err := b.BlurPrice(2); err != nil {
			t.Fatal(err)
		}
		return b
	}

	// No token at all.
	b := newOverridden()
	b.auth = Authorization{}
	_, err := b.Normalize(now)
	assert.ErrorIs(t, err, ErrOverrideUnauthorized)

	// Token expired between unlock and submit.
	b = newOverridden()
	_, err = b.Normalize(now.Add(10 * time.Minute))
	assert.ErrorIs(t, err, ErrOverrideUnauthorized)

	// Live token passes and travels with the payload.
	b = newOverridden()
	sub, err := b.Normalize(now)
	require.NoError(t, err)
	assert.Equal(t, "tok", sub.OverrideToken)
	require.Len(t, sub.Items, 1)
	assert.True(t, sub.Items[0].PriceOverridden)
	assert.Equal(t, "75.00", sub.Items[0].Price.StringFixed(2))
}

func TestNormalize_RecomputesStaleOverrideFlag(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	// Simulate a stale flag left behind by earlier edits: the draft
	// matches the base price, so normalization must clear it.
	b.Lines()[0].PriceOverridden = true
	b.Lines()[0].PriceDraft = "50.00"

	sub, err := b.Normalize(now)
	require.NoError(t, err)
	assert.False(t, sub.Items[0].PriceOverridden)
	assert.Empty(t, sub.OverrideToken)
}

func TestNormalize_EmptyDraftFallsBackToBase(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	b.Lines()[0].PriceDraft = "   "
	sub, err := b.Normalize(now)
	require.NoError(t, err)
	assert.Equal(t, "50.00", sub.Items[0].Price.StringFixed(2))
}

func TestNormalize_InvalidDraftSetsLineError(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	b.AddService(serviceB())
	b.Lines()[1].PriceDraft = "-10"

	_, err := b.Normalize(now)
	assert.ErrorIs(t, err, ErrInvalidPrices)
	assert.Empty(t, b.Lines()[0].PriceError)
	assert.Equal(t, MsgPriceInvalid, b.Lines()[1].PriceError)
}

func TestNormalize_PayloadShape(t *testing.T) {
	b := New()
	b.AddService(serviceB())
	require.NoError(t, b.SetQuantity(2, "3"))
	b.SetGlobalTier(pricing.TierWholesale)

	sub, err := b.Normalize(now)
	require.NoError(t, err)
	require.Len(t, sub.Items, 1)
	item := sub.Items[0]
	assert.Equal(t, int64(2), item.ServiceID)
	assert.Equal(t, pricing.TierWholesale, item.PriceType)
	assert.Equal(t, "50.00", item.UnitPriceSnapshot.StringFixed(2))
	require.NotNil(t, item.WholesalePriceSnapshot)
	assert.Equal(t, "40.00", item.WholesalePriceSnapshot.StringFixed(2))
	assert.Equal(t, "120.00", item.LineSubtotal.StringFixed(2))
	assert.Equal(t, item.LineSubtotal, item.Subtotal)
	assert.True(t, sub.Totals.Subtotal.Add(sub.Totals.IVA).Equal(sub.Totals.Total))
}

func TestReset_ClearsSession(t *testing.T) {
	b := New()
	b.AddService(serviceA())
	authorized(b)
	b.SetGlobalTier(pricing.TierWholesale)

	b.Reset()
	assert.Empty(t, b.Lines())
	assert.Equal(t, pricing.TierUnit, b.GlobalTier())
	assert.False(t, b.Authorization().Valid(now))
}
