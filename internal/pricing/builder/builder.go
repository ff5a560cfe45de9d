// Package builder holds the invoice-build session: the editable lines,
// the wholesale/unit tier selection, the price-override authorization
// window, and the submit-time normalization that turns drafts into a
// wire payload.
package builder

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abogados-sv/facturacion/internal/pricing"
)

var (
	ErrNoLines              = errors.New("no_lines")
	ErrLineNotFound         = errors.New("line_not_found")
	ErrLineLocked           = errors.New("line_locked")
	ErrInvalidPrices        = errors.New("invalid_prices")
	ErrOverrideUnauthorized = errors.New("override_unauthorized")
)

// User-facing messages fixed by the console contract.
const (
	MsgPriceInvalid     = "El precio debe ser mayor o igual a 0."
	MsgOverrideRequired = "Debe autorizar la modificación de precio antes de guardar."
	MsgFallbackNotice   = "Mayoreo no definido, usando unitario"
)

// Authorization is the session-wide override window. The zero value is
// unauthorized. One authorization covers every subsequent override
// until it expires; expiry is checked lazily on use.
type Authorization struct {
	Token           string
	AuthorizedUntil time.Time
}

// Valid reports whether the window covers now.
func (a Authorization) Valid(now time.Time) bool {
	return a.Token != "" && a.AuthorizedUntil.After(now)
}

// DefaultAuthorizationWindow applies when the backend omits expires_in.
const DefaultAuthorizationWindow = 300 * time.Second

// ServiceSnapshot is the catalog data copied onto a line when the
// service is added. Later catalog edits never touch an open session.
type ServiceSnapshot struct {
	ServiceID      int64
	Name           string
	UnitPrice      decimal.Decimal
	WholesalePrice *decimal.Decimal
}

// Line is one editable invoice line.
type Line struct {
	ServiceID              int64
	Name                   string
	Quantity               int64
	Tier                   pricing.Tier
	TierOverride           bool
	UnitPriceSnapshot      decimal.Decimal
	WholesalePriceSnapshot *decimal.Decimal
	AppliedUnitPrice       decimal.Decimal
	PriceDraft             string
	PriceOverridden        bool
	Editable               bool
	PriceError             string
}

// BasePrice resolves the line's current tier against its snapshots.
func (l *Line) BasePrice() pricing.BasePrice {
	return pricing.ResolveBasePrice(l.UnitPriceSnapshot, l.WholesalePriceSnapshot, l.Tier)
}

// Gross is quantity x applied price, unrounded.
func (l *Line) Gross() decimal.Decimal {
	return l.AppliedUnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Builder owns the lines of one invoice being composed. It is not safe
// for concurrent use; each editing session gets its own Builder.
type Builder struct {
	lines      []*Line
	globalTier pricing.Tier
	auth       Authorization
}

func New() *Builder {
	return &Builder{globalTier: pricing.TierUnit}
}

// GlobalTier returns the invoice-wide tier selection.
func (b *Builder) GlobalTier() pricing.Tier { return b.globalTier }

// Lines returns the lines in insertion order.
func (b *Builder) Lines() []*Line { return b.lines }

// Authorization returns the current override session.
func (b *Builder) Authorization() Authorization { return b.auth }

func (b *Builder) find(serviceID int64) (*Line, error) {
	for _, l := range b.lines {
		if l.ServiceID == serviceID {
			return l, nil
		}
	}
	return nil, ErrLineNotFound
}

// AddService creates a line from a catalog snapshot at the invoice-wide
// tier. Adding an already-present service increments its quantity.
func (b *Builder) AddService(snap ServiceSnapshot) *Line {
	if existing, err := b.find(snap.ServiceID); err == nil {
		existing.Quantity++
		return existing
	}
	l := &Line{
		ServiceID:              snap.ServiceID,
		Name:                   snap.Name,
		Quantity:               1,
		Tier:                   b.globalTier,
		UnitPriceSnapshot:      snap.UnitPrice,
		WholesalePriceSnapshot: snap.WholesalePrice,
	}
	base := l.BasePrice()
	l.AppliedUnitPrice = base.Value
	l.PriceDraft = base.Value.StringFixed(2)
	b.lines = append(b.lines, l)
	return l
}

// RemoveService drops a line from the session.
func (b *Builder) RemoveService(serviceID int64) {
	out := b.lines[:0]
	for _, l := range b.lines {
		if l.ServiceID != serviceID {
			out = append(out, l)
		}
	}
	b.lines = out
}

// SetQuantity parses the raw quantity input. Anything that is not a
// finite number above zero clamps to 1, silently; fractions floor.
func (b *Builder) SetQuantity(serviceID int64, raw string) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	l.Quantity = parseQuantity(raw)
	return nil
}

func parseQuantity(raw string) int64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 1
	}
	// Values past int64 range would wrap negative on conversion.
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(v))
}

// SetLineTier pins one line to a tier, detaching it from the global
// toggle.
func (b *Builder) SetLineTier(serviceID int64, tier pricing.Tier) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	l.TierOverride = true
	applyTier(l, tier)
	return nil
}

// SetGlobalTier switches the invoice-wide tier. Lines pinned to their
// own tier are left alone.
func (b *Builder) SetGlobalTier(tier pricing.Tier) {
	b.globalTier = tier
	for _, l := range b.lines {
		if !l.TierOverride {
			applyTier(l, tier)
		}
	}
}

// applyTier re-resolves the base price for the new tier. A manually
// overridden price survives the switch; only the overridden flag is
// re-evaluated against the new base.
func applyTier(l *Line, tier pricing.Tier) {
	l.Tier = tier
	base := l.BasePrice()
	if !l.PriceOverridden {
		l.AppliedUnitPrice = base.Value
		l.PriceDraft = base.Value.StringFixed(2)
		return
	}
	l.PriceOverridden = !pricing.Round2(l.AppliedUnitPrice).Equal(pricing.Round2(base.Value))
}

// Authorize records a fresh override window.
func (b *Builder) Authorize(token string, until time.Time) {
	b.auth = Authorization{Token: token, AuthorizedUntil: until}
}

// Unlock marks one line's price input editable. The session must hold a
// live authorization; holding one does not unlock other lines.
func (b *Builder) Unlock(serviceID int64, now time.Time) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	if !b.auth.Valid(now) {
		return ErrOverrideUnauthorized
	}
	l.Editable = true
	return nil
}

// EditPriceDraft stores a keystroke. No parsing happens here so the
// user can type through transient states like "12." or an empty box.
func (b *Builder) EditPriceDraft(serviceID int64, raw string) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	if !l.Editable {
		return ErrLineLocked
	}
	l.PriceDraft = raw
	l.PriceError = ""
	return nil
}

// BlurPrice commits the draft when focus leaves the input. An empty
// draft resets to the tier's base price and clears any override.
func (b *Builder) BlurPrice(serviceID int64) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	if !l.Editable {
		return ErrLineLocked
	}
	base := l.BasePrice()
	draft := strings.TrimSpace(l.PriceDraft)
	if draft == "" {
		l.AppliedUnitPrice = base.Value
		l.PriceOverridden = false
		l.PriceDraft = base.Value.StringFixed(2)
		l.PriceError = ""
		return nil
	}
	value, ok := parseAmount(draft)
	if !ok || value.IsNegative() {
		l.PriceError = MsgPriceInvalid
		return nil
	}
	l.AppliedUnitPrice = value
	l.PriceOverridden = !pricing.Round2(value).Equal(pricing.Round2(base.Value))
	l.PriceDraft = value.StringFixed(2)
	l.PriceError = ""
	return nil
}

// ResetToBase forces the line back to its tier's base price. Works even
// on locked lines.
func (b *Builder) ResetToBase(serviceID int64) error {
	l, err := b.find(serviceID)
	if err != nil {
		return err
	}
	base := l.BasePrice()
	l.AppliedUnitPrice = base.Value
	l.PriceOverridden = false
	l.PriceDraft = base.Value.StringFixed(2)
	l.PriceError = ""
	return nil
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(raw, "."))
	if err != nil {
		// Exponent or other float-only notation; fall back to the
		// parsed float.
		d = decimal.NewFromFloat(f)
	}
	return d, true
}

// ItemPayload is the per-line wire shape of the invoice submission.
type ItemPayload struct {
	ServiceID              int64            `json:"service_id"`
	Name                   string           `json:"name"`
	Price                  decimal.Decimal  `json:"price"`
	UnitPriceSnapshot      decimal.Decimal  `json:"unit_price_snapshot"`
	WholesalePriceSnapshot *decimal.Decimal `json:"wholesale_price_snapshot"`
	UnitPrice              decimal.Decimal  `json:"unit_price"`
	AppliedUnitPrice       decimal.Decimal  `json:"applied_unit_price"`
	PriceType              pricing.Tier     `json:"price_type"`
	PriceOverridden        bool             `json:"price_overridden"`
	Quantity               int64            `json:"quantity"`
	LineSubtotal           decimal.Decimal  `json:"line_subtotal"`
	Subtotal               decimal.Decimal  `json:"subtotal"`
}

// Submission is the normalized result handed to the invoice endpoint.
type Submission struct {
	Items         []ItemPayload     `json:"services"`
	Totals        pricing.Breakdown `json:"totals"`
	OverrideToken string            `json:"override_token,omitempty"`
}

// Normalize re-derives every line from its current draft, validates the
// result, and assembles the wire payload.
//
// Stale PriceOverridden flags are never trusted: each line is compared
// against its freshly resolved base price, and any surviving override
// requires a live authorization at the moment of submission.
func (b *Builder) Normalize(now time.Time) (*Submission, error) {
	if len(b.lines) == 0 {
		return nil, ErrNoLines
	}

	invalid := false
	anyOverride := false
	items := make([]ItemPayload, 0, len(b.lines))
	amounts := make([]pricing.LineAmount, 0, len(b.lines))

	for _, l := range b.lines {
		base := l.BasePrice()
		effective := base.Value
		draft := strings.TrimSpace(l.PriceDraft)
		if draft != "" {
			value, ok := parseAmount(draft)
			if !ok || value.IsNegative() {
				l.PriceError = MsgPriceInvalid
				invalid = true
				continue
			}
			effective = value
		}
		l.AppliedUnitPrice = effective
		l.PriceOverridden = !pricing.Round2(effective).Equal(pricing.Round2(base.Value))
		l.PriceError = ""
		if l.PriceOverridden {
			anyOverride = true
		}

		price := pricing.Round2(effective)
		lineSubtotal := pricing.Round2(effective.Mul(decimal.NewFromInt(l.Quantity)))
		items = append(items, ItemPayload{
			ServiceID:              l.ServiceID,
			Name:                   l.Name,
			Price:                  price,
			UnitPriceSnapshot:      l.UnitPriceSnapshot,
			WholesalePriceSnapshot: l.WholesalePriceSnapshot,
			UnitPrice:              price,
			AppliedUnitPrice:       price,
			PriceType:              l.Tier,
			PriceOverridden:        l.PriceOverridden,
			Quantity:               l.Quantity,
			LineSubtotal:           lineSubtotal,
			Subtotal:               lineSubtotal,
		})
		amounts = append(amounts, pricing.LineAmount{Quantity: l.Quantity, UnitPrice: effective})
	}

	if invalid {
		return nil, ErrInvalidPrices
	}
	if anyOverride && !b.auth.Valid(now) {
		return nil, ErrOverrideUnauthorized
	}

	sub := &Submission{
		Items:  items,
		Totals: pricing.AggregateTotals(amounts),
	}
	if anyOverride {
		sub.OverrideToken = b.auth.Token
	}
	return sub, nil
}

// Reset discards all lines and the authorization, as when the invoice
// modal is cancelled.
func (b *Builder) Reset() {
	b.lines = nil
	b.globalTier = pricing.TierUnit
	b.auth = Authorization{}
}
