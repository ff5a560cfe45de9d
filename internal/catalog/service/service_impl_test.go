package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/catalog/domain"
	"github.com/abogados-sv/facturacion/internal/catalog/repository"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ServiceCategory{}, &domain.ServiceItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func mustCategory(t *testing.T, svc domain.Service) *domain.ServiceCategory {
	t.Helper()
	cat, err := svc.CreateCategory(context.Background(), domain.CategoryRequest{Name: "Notariales"})
	require.NoError(t, err)
	return cat
}

func TestCreateServiceGeneratesSequentialCode(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	first, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Escritura de compraventa",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("113.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SRV-001", first.Code)

	second, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Autentica de firma",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "SRV-002", second.Code)
}

func TestCreateServiceRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	_, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Poder general",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCreateServiceRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Poder general",
		CategoryID: 999,
		UnitPrice:  decimal.RequireFromString("10.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	_, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Testimonio",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("15.00"),
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(context.Background(), cat.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
}

func TestQuickPriceChangeProfit(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	item, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Escritura",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	res, err := svc.QuickPriceChange(context.Background(), item.ID, domain.QuickPriceRequest{
		UnitPrice: decimal.RequireFromString("150.00"),
		Cost:      decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", res.Profit.StringFixed(2))
	assert.Equal(t, "50.00", res.ProfitPercent.StringFixed(2))
}

func TestQuickPriceChangeZeroCost(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	item, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Escritura",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	res, err := svc.QuickPriceChange(context.Background(), item.ID, domain.QuickPriceRequest{
		UnitPrice: decimal.RequireFromString("150.00"),
		Cost:      decimal.Zero,
	})
	require.NoError(t, err)
	assert.True(t, res.ProfitPercent.IsZero())
}

func TestListServicesSearch(t *testing.T) {
	svc := newTestService(t)
	cat := mustCategory(t, svc)

	_, err := svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Escritura de compraventa",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("113.00"),
	})
	require.NoError(t, err)
	_, err = svc.CreateService(context.Background(), domain.ServiceRequest{
		Name:       "Autentica de firma",
		CategoryID: cat.ID,
		UnitPrice:  decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)

	items, err := svc.ListServices(context.Background(), domain.ListServicesRequest{Search: "compraventa"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Escritura de compraventa", items[0].Name)
}
