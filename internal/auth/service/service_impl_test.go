package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/auth/domain"
	"github.com/abogados-sv/facturacion/internal/auth/password"
	"github.com/abogados-sv/facturacion/internal/clock"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
	staffrepo "github.com/abogados-sv/facturacion/internal/staffuser/repository"
)

func newTestService(t *testing.T, clk clock.Clock) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&staffdomain.StaffUser{}, &domain.Session{}))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clk,
		Users: staffrepo.Provide(),
	})
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, username, pass string, active bool) {
	t.Helper()
	hash, err := password.Hash(pass)
	require.NoError(t, err)
	require.NoError(t, db.Create(&staffdomain.StaffUser{
		ID:           1,
		Username:     username,
		PasswordHash: hash,
		Role:         staffdomain.RoleAdmin,
		Active:       active,
	}).Error)
}

func TestLoginAndAuthenticate(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, clk)
	seedUser(t, db, "admin", "secreto1", true)

	res, err := svc.Login(context.Background(), "admin", "secreto1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, clk.Now().Add(SessionTTL), res.ExpiresAt)

	user, err := svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, clk)
	seedUser(t, db, "admin", "secreto1", true)

	_, err := svc.Login(context.Background(), "admin", "otra")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, clk)
	seedUser(t, db, "admin", "secreto1", false)

	_, err := svc.Login(context.Background(), "admin", "secreto1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, clk)
	seedUser(t, db, "admin", "secreto1", true)

	res, err := svc.Login(context.Background(), "admin", "secreto1")
	require.NoError(t, err)

	clk.Advance(SessionTTL + time.Minute)
	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	// The expired row is pruned, so the next probe reports it unknown.
	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, domain.ErrSessionUnknown)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	svc, db := newTestService(t, clk)
	seedUser(t, db, "admin", "secreto1", true)

	res, err := svc.Login(context.Background(), "admin", "secreto1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.Token))
	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, domain.ErrSessionUnknown)
}
