package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/auth/domain"
	"github.com/abogados-sv/facturacion/internal/auth/password"
	"github.com/abogados-sv/facturacion/internal/clock"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

// SessionTTL bounds how long a login stays valid without re-authenticating.
const SessionTTL = 12 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Users staffdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	users staffdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		clock: p.Clock,
		users: p.Users,
	}
}

func (s *Service) Login(ctx context.Context, username, pass string) (*domain.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active || !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	sess := domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, err
	}

	s.log.Info("staff login", zap.String("username", user.Username))
	return &domain.LoginResult{User: user, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
}

func (s *Service) Authenticate(ctx context.Context, token string) (*staffdomain.StaffUser, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrSessionUnknown
	}

	var sess domain.Session
	err := s.db.WithContext(ctx).First(&sess, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionUnknown
	}
	if err != nil {
		return nil, err
	}
	if s.clock.Now().After(sess.ExpiresAt) {
		// Expired rows are removed on sight rather than by a sweeper.
		_ = s.db.WithContext(ctx).Delete(&domain.Session{}, "token = ?", token).Error
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.FindByID(ctx, s.db, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrSessionUnknown
	}
	return user, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
