package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/override/domain"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	accessCode string
	window     time.Duration
	log        *zap.Logger
	clock      clock.Clock

	mu     sync.Mutex
	tokens map[string]time.Time
}

func New(p Params) domain.Service {
	window := time.Duration(p.Cfg.PriceOverrideWindowSecs) * time.Second
	if window <= 0 {
		window = 5 * time.Minute
	}
	return &Service{
		accessCode: p.Cfg.PriceOverrideAccessCode,
		window:     window,
		log:        p.Log.Named("override.service"),
		clock:      p.Clock,
		tokens:     make(map[string]time.Time),
	}
}

func (s *Service) Validate(ctx context.Context, code string) (*domain.Grant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrEmptyCode
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.accessCode)) != 1 {
		s.log.Warn("price override code rejected")
		return nil, domain.ErrInvalidCode
	}

	token := newToken()
	expiresAt := s.clock.Now().Add(s.window)

	s.mu.Lock()
	s.prune(s.clock.Now())
	s.tokens[token] = expiresAt
	s.mu.Unlock()

	s.log.Info("price override authorized",
		zap.Time("expires_at", expiresAt),
	)
	return &domain.Grant{
		Token:     token,
		ExpiresIn: int(s.window / time.Second),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrTokenUnknown
	}
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.tokens[token]
	if !ok {
		return domain.ErrTokenUnknown
	}
	if !expiresAt.After(now) {
		delete(s.tokens, token)
		return domain.ErrTokenExpired
	}
	return nil
}

// prune drops expired tokens. Callers hold s.mu. Expiry is otherwise
// lazy; there is no background sweeper.
func (s *Service) prune(now time.Time) {
	for token, expiresAt := range s.tokens {
		if !expiresAt.After(now) {
			delete(s.tokens, token)
		}
	}
}

func newToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
