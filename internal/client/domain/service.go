package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidType = errors.New("invalid_client_type")
)

type ClientRequest struct {
	Name             string `json:"name"`
	ClientType       string `json:"client_type"`
	DUI              string `json:"dui"`
	NIT              string `json:"nit"`
	NRC              string `json:"nrc"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	DepartmentCode   string `json:"department_code"`
	MunicipalityCode string `json:"municipality_code"`
	ActivityCode     string `json:"activity_code"`
}

type ListClientsRequest struct {
	Search string
	Type   string
}

type Service interface {
	Create(ctx context.Context, req ClientRequest) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, error)
	Get(ctx context.Context, id int64) (*Client, error)
	Update(ctx context.Context, id int64, req ClientRequest) (*Client, error)
	// Delete soft deletes; invoices keep their client reference.
	Delete(ctx context.Context, id int64) error
}
