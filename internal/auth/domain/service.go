package domain

import (
	"context"
	"errors"
	"time"

	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionUnknown     = errors.New("session_unknown")
)

// LoginResult carries the issued session token and its expiry for the
// cookie layer.
type LoginResult struct {
	User      *staffdomain.StaffUser
	Token     string
	ExpiresAt time.Time
}

type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token into its active user.
	Authenticate(ctx context.Context, token string) (*staffdomain.StaffUser, error)
}
