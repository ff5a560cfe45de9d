// Package domain defines the price-override authorization contract.
//
// A valid access code grants a short-lived opaque token. Every invoice
// submission carrying an overridden price must present a token that is
// still known and unexpired on the server; the client's own expiry
// check is advisory only.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmptyCode    = errors.New("empty_code")
	ErrInvalidCode  = errors.New("invalid_code")
	ErrTokenExpired = errors.New("token_expired")
	ErrTokenUnknown = errors.New("token_unknown")
)

// Grant is an issued override authorization.
type Grant struct {
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"`
	ExpiresAt time.Time `json:"-"`
}

type Service interface {
	// Validate checks an access code and issues a Grant.
	Validate(ctx context.Context, code string) (*Grant, error)
	// Verify confirms a token is live. Tokens are reusable until they
	// expire: one authorization covers every override in the window.
	Verify(ctx context.Context, token string) error
}
