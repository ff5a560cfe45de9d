package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/auth/password"
	"github.com/abogados-sv/facturacion/internal/staffuser/domain"
	"github.com/abogados-sv/facturacion/pkg/db"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("staffuser.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func validRole(role string) bool {
	return role == domain.RoleAdmin || role == domain.RoleColaborador
}

func (s *Service) Create(ctx context.Context, req domain.StaffUserRequest) (*domain.StaffUser, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	if len(req.Password) < 6 {
		return nil, domain.ErrInvalidPassword
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleColaborador
	}
	if !validRole(role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	u := &domain.StaffUser{
		ID:           s.genID.Generate().Int64(),
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, u); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]domain.StaffUser, error) {
	return s.repo.Find(ctx, s.db)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.StaffUser, error) {
	u, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.StaffUserRequest) (*domain.StaffUser, error) {
	u, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		u.Username = username
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, domain.ErrInvalidPassword
		}
		hash, err := password.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if role := strings.TrimSpace(req.Role); role != "" {
		if !validRole(role) {
			return nil, domain.ErrInvalidRole
		}
		u.Role = role
	}
	if req.FullName != "" {
		u.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	u.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, u); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
