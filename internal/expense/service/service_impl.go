package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/expense/domain"
	"github.com/abogados-sv/facturacion/internal/pricing"
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
		log:   p.Log.Named("expense.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func parseDate(raw string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *Service) Create(ctx context.Context, req domain.ExpenseRequest) (*domain.Expense, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	now := time.Now().UTC()
	date, err := parseDate(req.ExpenseDate, now)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}
	e := &domain.Expense{
		ID:          s.genID.Generate().Int64(),
		Description: description,
		Category:    strings.TrimSpace(req.Category),
		Amount:      pricing.Round2(req.Amount),
		ExpenseDate: date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpensesRequest) ([]domain.Expense, error) {
	return s.repo.Find(ctx, s.db, req)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Expense, error) {
	e, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.ExpenseRequest) (*domain.Expense, error) {
	e, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		e.Description = description
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	e.Category = strings.TrimSpace(req.Category)
	e.Amount = pricing.Round2(req.Amount)
	if date, err := parseDate(req.ExpenseDate, e.ExpenseDate); err == nil {
		e.ExpenseDate = date
	}
	e.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	e, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}
