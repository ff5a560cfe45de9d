package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/client/repository"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateDefaultsToConsumidorFinal(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Create(context.Background(), domain.ClientRequest{Name: "María Pérez"})
	require.NoError(t, err)
	assert.Equal(t, domain.TypeConsumidorFinal, c.ClientType)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.ClientRequest{Name: "Empresa SA", ClientType: "FX"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestDeleteIsSoft(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Create(context.Background(), domain.ClientRequest{Name: "María Pérez"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), c.ID))

	_, err = svc.Get(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := svc.List(context.Background(), domain.ListClientsRequest{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListFiltersByTypeAndSearch(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.ClientRequest{Name: "Empresa SA", ClientType: domain.TypeCreditoFiscal, NIT: "0614-230589-102-3"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), domain.ClientRequest{Name: "María Pérez"})
	require.NoError(t, err)

	byType, err := svc.List(context.Background(), domain.ListClientsRequest{Type: domain.TypeCreditoFiscal})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Empresa SA", byType[0].Name)

	bySearch, err := svc.List(context.Background(), domain.ListClientsRequest{Search: "0614"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Empresa SA", bySearch[0].Name)
}
