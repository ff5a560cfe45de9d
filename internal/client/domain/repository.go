package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, client *Client) error
	Find(ctx context.Context, db *gorm.DB, filter ListClientsRequest) ([]Client, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
}
