package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/client/domain"
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
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func validType(t string) bool {
	switch t {
	case domain.TypeConsumidorFinal, domain.TypeCreditoFiscal, domain.TypeSujetoExcluido:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, req domain.ClientRequest) (*domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	clientType := strings.TrimSpace(req.ClientType)
	if clientType == "" {
		clientType = domain.TypeConsumidorFinal
	}
	if !validType(clientType) {
		return nil, domain.ErrInvalidType
	}
	now := time.Now().UTC()
	c := &domain.Client{
		ID:               s.genID.Generate().Int64(),
		Name:             name,
		ClientType:       clientType,
		DUI:              strings.TrimSpace(req.DUI),
		NIT:              strings.TrimSpace(req.NIT),
		NRC:              strings.TrimSpace(req.NRC),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		DepartmentCode:   strings.TrimSpace(req.DepartmentCode),
		MunicipalityCode: strings.TrimSpace(req.MunicipalityCode),
		ActivityCode:     strings.TrimSpace(req.ActivityCode),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientsRequest) ([]domain.Client, error) {
	return s.repo.Find(ctx, s.db, req)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.ClientRequest) (*domain.Client, error) {
	c, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	}
	if t := strings.TrimSpace(req.ClientType); t != "" {
		if !validType(t) {
			return nil, domain.ErrInvalidType
		}
		c.ClientType = t
	}
	c.DUI = strings.TrimSpace(req.DUI)
	c.NIT = strings.TrimSpace(req.NIT)
	c.NRC = strings.TrimSpace(req.NRC)
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Address = strings.TrimSpace(req.Address)
	c.DepartmentCode = strings.TrimSpace(req.DepartmentCode)
	c.MunicipalityCode = strings.TrimSpace(req.MunicipalityCode)
	c.ActivityCode = strings.TrimSpace(req.ActivityCode)
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	c, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	c.IsDeleted = true
	c.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, s.db, c)
}
