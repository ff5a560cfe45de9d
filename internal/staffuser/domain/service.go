package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidUsername   = errors.New("invalid_username")
	ErrInvalidPassword   = errors.New("invalid_password")
	ErrInvalidRole       = errors.New("invalid_role")
	ErrDuplicateUsername = errors.New("duplicate_username")
)

type StaffUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

type Service interface {
	Create(ctx context.Context, req StaffUserRequest) (*StaffUser, error)
	List(ctx context.Context) ([]StaffUser, error)
	Get(ctx context.Context, id int64) (*StaffUser, error)
	Update(ctx context.Context, id int64, req StaffUserRequest) (*StaffUser, error)
	Delete(ctx context.Context, id int64) error
}
