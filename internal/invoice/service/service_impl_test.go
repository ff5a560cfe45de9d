package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/abogados-sv/facturacion/internal/catalog/domain"
	catalogrepo "github.com/abogados-sv/facturacion/internal/catalog/repository"
	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	clientrepo "github.com/abogados-sv/facturacion/internal/client/repository"
	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/invoice/domain"
	"github.com/abogados-sv/facturacion/internal/invoice/repository"
	overridedomain "github.com/abogados-sv/facturacion/internal/override/domain"
)

// fakeOverrideSvc accepts exactly one token.
type fakeOverrideSvc struct {
	accepted string
}

func (f *fakeOverrideSvc) Validate(ctx context.Context, code string) (*overridedomain.Grant, error) {
	return nil, overridedomain.ErrInvalidCode
}

func (f *fakeOverrideSvc) Verify(ctx context.Context, token string) error {
	if token != "" && token == f.accepted {
		return nil
	}
	return overridedomain.ErrTokenUnknown
}

// fakeSender records sends and can be told to fail.
type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, invoice *domain.Invoice) error {
	f.sent = append(f.sent, invoice.Number)
	return f.err
}

type fixture struct {
	svc    domain.Service
	db     *gorm.DB
	clk    *clock.FakeClock
	sender *fakeSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.ServiceCategory{},
		&catalogdomain.ServiceItem{},
		&clientdomain.Client{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	sender := &fakeSender{}

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Catalog:   catalogrepo.Provide(),
		Clients:   clientrepo.Provide(),
		Overrides: &fakeOverrideSvc{accepted: "tok-valido"},
		Sender:    sender,
	})
	return &fixture{svc: svc, db: db, clk: clk, sender: sender}
}

func (f *fixture) seedService(t *testing.T, id int64, name, unit string, wholesale *string) {
	t.Helper()
	item := catalogdomain.ServiceItem{
		ID:        id,
		Code:      name,
		Name:      name,
		UnitPrice: decimal.RequireFromString(unit),
	}
	if wholesale != nil {
		item.WholesalePrice = decimal.NewNullDecimal(decimal.RequireFromString(*wholesale))
	}
	require.NoError(t, f.db.Create(&item).Error)
}

func strPtr(s string) *string { return &s }

func TestCreateComputesInvoiceLevelSplit(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)
	f.seedService(t, 2, "Autentica", "40.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{
			{ServiceID: 1, Quantity: 3},
			{ServiceID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "340.00", inv.Total.StringFixed(2))
	assert.Equal(t, "39.12", inv.IVA.StringFixed(2))
	assert.Equal(t, "300.88", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "340.00", inv.IVA.Add(inv.Subtotal).StringFixed(2))
}

func TestCreateGeneratesNumberAndDefaults(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "113.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-20250601100000-1", inv.Number)
	assert.Equal(t, domain.DocConsumidorFinal, inv.DocumentType)
	assert.Equal(t, "Efectivo", inv.PaymentMethod)
	assert.Equal(t, domain.DTEStatusPendiente, inv.DTEStatus)
	assert.Equal(t, "Consumidor Final", inv.ClientName)
}

func TestCreateClampsQuantity(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "113.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: -5}},
	})
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.EqualValues(t, 1, inv.Items[0].Quantity)
	assert.Equal(t, "113.00", inv.Total.StringFixed(2))
}

func TestCreateWholesaleFallback(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1, PriceType: "WHOLESALE"}},
	})
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	// No wholesale snapshot: the unit price applies and the stored tier
	// reflects that.
	assert.Equal(t, "UNIT", inv.Items[0].PriceType)
	assert.Equal(t, "100.00", inv.Items[0].AppliedUnitPrice.StringFixed(2))
	assert.False(t, inv.Items[0].PriceOverridden)
}

func TestCreateWholesaleApplied(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", strPtr("80.00"))

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 2, PriceType: "WHOLESALE"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "WHOLESALE", inv.Items[0].PriceType)
	assert.Equal(t, "160.00", inv.Total.StringFixed(2))
}

func TestCreateOverrideWithoutTokenFails(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	_, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1, AppliedUnitPrice: decimal.RequireFromString("50.00")}},
	})
	assert.ErrorIs(t, err, domain.ErrOverrideRequired)
}

func TestCreateOverrideWithBadTokenFails(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	_, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items:         []domain.ItemRequest{{ServiceID: 1, Quantity: 1, AppliedUnitPrice: decimal.RequireFromString("50.00")}},
		OverrideToken: "tok-caducado",
	})
	assert.ErrorIs(t, err, domain.ErrOverrideRequired)
}

func TestCreateOverrideWithValidToken(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{
			ServiceID:        1,
			Quantity:         1,
			AppliedUnitPrice: decimal.RequireFromString("50.00"),
			OverrideReason:   "descuento cliente frecuente",
		}},
		OverrideToken: "tok-valido",
	})
	require.NoError(t, err)
	item := inv.Items[0]
	assert.True(t, item.PriceOverridden)
	assert.Equal(t, "50.00", item.AppliedUnitPrice.StringFixed(2))
	assert.Equal(t, "100.00", item.UnitPriceSnapshot.StringFixed(2))
	assert.Equal(t, "descuento cliente frecuente", item.OverrideReason)
	assert.NotNil(t, item.OverrideAuthorizedAt)
	assert.Equal(t, "tok-valido", item.OverrideAuthorizedBy)
}

func TestCreateMatchingPriceIsNotOverride(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1, AppliedUnitPrice: decimal.RequireFromString("100.00")}},
	})
	require.NoError(t, err)
	assert.False(t, inv.Items[0].PriceOverridden)
}

func TestCreateNegativePriceRejected(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	_, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1, AppliedUnitPrice: decimal.RequireFromString("-1.00")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItemPrice)
}

func TestCreateUnknownServiceRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}

func TestCreateNoItemsRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.InvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestCreateSurvivesTransmitterFailure(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "113.00", nil)
	f.sender.err = errors.New("gateway unreachable")

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DTEStatusPendiente, inv.DTEStatus)
	assert.Len(t, f.sender.sent, 1)
}

func TestUpdateReplacesItemsAndTotals(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)
	f.seedService(t, 2, "Autentica", "40.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), inv.ID, domain.InvoiceRequest{
		Items: []domain.ItemRequest{
			{ServiceID: 1, Quantity: 3},
			{ServiceID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "340.00", updated.Total.StringFixed(2))
	require.Len(t, updated.Items, 2)

	reloaded, err := f.svc.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 2)
}

func TestUpdateBlockedByCreditNote(t *testing.T) {
	f := newFixture(t)
	f.seedService(t, 1, "Escritura", "100.00", nil)

	inv, err := f.svc.Create(context.Background(), domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&domain.Invoice{}).Where("id = ?", inv.ID).Update("has_credit_note", true).Error)

	_, err = f.svc.Update(context.Background(), inv.ID, domain.InvoiceRequest{
		Items: []domain.ItemRequest{{ServiceID: 1, Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrHasCreditNote)

	err = f.svc.Delete(context.Background(), inv.ID)
	assert.ErrorIs(t, err, domain.ErrHasCreditNote)
}
