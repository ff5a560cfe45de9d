package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/catalog/domain"
	"github.com/abogados-sv/facturacion/internal/pricing"
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
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CategoryRequest) (*domain.ServiceCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	c := &domain.ServiceCategory{
		ID:          s.genID.Generate().Int64(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	return s.repo.FindCategories(ctx, s.db)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, req domain.CategoryRequest) (*domain.ServiceCategory, error) {
	c, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	}
	c.Description = strings.TrimSpace(req.Description)
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	n, err := s.repo.CountServicesInCategory(ctx, s.db, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}
	return s.repo.DeleteCategory(ctx, s.db, id)
}

func (s *Service) CreateService(ctx context.Context, req domain.ServiceRequest) (*domain.ServiceItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.CategoryID == 0 {
		return nil, domain.ErrInvalidCategory
	}
	if cat, err := s.repo.FindCategoryByID(ctx, s.db, req.CategoryID); err != nil {
		return nil, err
	} else if cat == nil {
		return nil, domain.ErrInvalidCategory
	}
	if err := validatePrices(req.UnitPrice, req.WholesalePrice); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		next, err := s.repo.CountServices(ctx, s.db)
		if err != nil {
			return nil, err
		}
		code = fmt.Sprintf("SRV-%03d", next+1)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	item := &domain.ServiceItem{
		ID:             s.genID.Generate().Int64(),
		Code:           code,
		Name:           name,
		CategoryID:     req.CategoryID,
		UnitPrice:      pricing.Round2(req.UnitPrice),
		WholesalePrice: roundNullable(req.WholesalePrice),
		Active:         active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateService(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) ListServices(ctx context.Context, req domain.ListServicesRequest) ([]domain.ServiceItem, error) {
	req.Search = strings.TrimSpace(req.Search)
	return s.repo.FindServices(ctx, s.db, req)
}

func (s *Service) GetService(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	item, err := s.repo.FindServiceByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) UpdateService(ctx context.Context, id int64, req domain.ServiceRequest) (*domain.ServiceItem, error) {
	item, err := s.repo.FindServiceByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		item.Name = name
	}
	if code := strings.TrimSpace(req.Code); code != "" {
		item.Code = code
	}
	if req.CategoryID != 0 {
		if cat, err := s.repo.FindCategoryByID(ctx, s.db, req.CategoryID); err != nil {
			return nil, err
		} else if cat == nil {
			return nil, domain.ErrInvalidCategory
		}
		item.CategoryID = req.CategoryID
	}
	if err := validatePrices(req.UnitPrice, req.WholesalePrice); err != nil {
		return nil, err
	}
	item.UnitPrice = pricing.Round2(req.UnitPrice)
	item.WholesalePrice = roundNullable(req.WholesalePrice)
	if req.Active != nil {
		item.Active = *req.Active
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateService(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	return s.repo.DeleteService(ctx, s.db, id)
}

func (s *Service) QuickPriceChange(ctx context.Context, id int64, req domain.QuickPriceRequest) (*domain.QuickPriceResult, error) {
	item, err := s.repo.FindServiceByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if err := validatePrices(req.UnitPrice, req.WholesalePrice); err != nil {
		return nil, err
	}
	item.UnitPrice = pricing.Round2(req.UnitPrice)
	if req.WholesalePrice.Valid {
		item.WholesalePrice = roundNullable(req.WholesalePrice)
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateService(ctx, s.db, item); err != nil {
		return nil, err
	}

	profit := item.UnitPrice.Sub(req.Cost)
	s.log.Info("quick price change",
		zap.Int64("service_id", id),
		zap.String("unit_price", item.UnitPrice.StringFixed(2)),
	)
	return &domain.QuickPriceResult{
		Service:       item,
		Profit:        pricing.Round2(profit),
		ProfitPercent: pricing.ProfitPercent(req.Cost, item.UnitPrice),
	}, nil
}

func validatePrices(unit decimal.Decimal, wholesale decimal.NullDecimal) error {
	if unit.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if wholesale.Valid && wholesale.Decimal.IsNegative() {
		return domain.ErrInvalidPrice
	}
	return nil
}

func roundNullable(v decimal.NullDecimal) decimal.NullDecimal {
	if !v.Valid {
		return v
	}
	return decimal.NullDecimal{Decimal: pricing.Round2(v.Decimal), Valid: true}
}
