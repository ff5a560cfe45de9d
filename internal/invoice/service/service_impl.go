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

	catalogdomain "github.com/abogados-sv/facturacion/internal/catalog/domain"
	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/invoice/domain"
	"github.com/abogados-sv/facturacion/internal/observability/metrics"
	overridedomain "github.com/abogados-sv/facturacion/internal/override/domain"
	"github.com/abogados-sv/facturacion/internal/pricing"
	"github.com/abogados-sv/facturacion/pkg/db"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Catalog   catalogdomain.Repository
	Clients   clientdomain.Repository
	Overrides overridedomain.Service
	Sender    domain.Transmitter `optional:"true"`
	Metrics   *metrics.Metrics   `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	catalog   catalogdomain.Repository
	clients   clientdomain.Repository
	overrides overridedomain.Service
	sender    domain.Transmitter
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		catalog:   p.Catalog,
		clients:   p.Clients,
		overrides: p.Overrides,
		sender:    p.Sender,
		metrics:   p.Metrics,
	}
}

func validDocType(t string) bool {
	switch t {
	case domain.DocConsumidorFinal, domain.DocCreditoFiscal, domain.DocSujetoExcluido:
		return true
	}
	return false
}

func validPayment(m string) bool {
	for _, p := range domain.PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// builtItems is the outcome of re-deriving the submitted lines against
// the catalog snapshots.
type builtItems struct {
	items       []domain.InvoiceItem
	amounts     []pricing.LineAmount
	anyOverride bool
}

// buildItems re-runs the pricing rules server-side. Console-sent prices
// are only kept when they match the snapshot the server resolves; any
// off-list price marks the line overridden and demands a live token.
func (s *Service) buildItems(ctx context.Context, invoiceID int64, reqItems []domain.ItemRequest) (*builtItems, error) {
	if len(reqItems) == 0 {
		return nil, domain.ErrNoItems
	}

	out := &builtItems{}
	for _, ir := range reqItems {
		svc, err := s.catalog.FindServiceByID(ctx, s.db, ir.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, domain.ErrUnknownService
		}

		qty := ir.Quantity
		if qty < 1 {
			qty = 1
		}

		tier := pricing.Tier(strings.ToUpper(strings.TrimSpace(ir.PriceType)))
		if !tier.Valid() {
			tier = pricing.TierUnit
		}
		base := pricing.ResolveBasePrice(svc.UnitPrice, svc.WholesaleOrNil(), tier)
		effectiveTier := tier
		if base.IsFallback {
			effectiveTier = pricing.TierUnit
		}

		applied := ir.AppliedUnitPrice
		if applied.IsZero() && !base.Value.IsZero() && !ir.IsNoSujeta {
			// Absent price in the payload means "charge the list price".
			applied = base.Value
		}
		if applied.IsNegative() {
			return nil, domain.ErrInvalidItemPrice
		}
		applied = pricing.Round2(applied)

		overridden := !applied.Equal(pricing.Round2(base.Value))
		if overridden {
			out.anyOverride = true
		}

		name := strings.TrimSpace(ir.Name)
		if name == "" {
			name = svc.Name
		}

		serviceID := svc.ID
		out.items = append(out.items, domain.InvoiceItem{
			ID:                     s.genID.Generate().Int64(),
			InvoiceID:              invoiceID,
			ServiceID:              &serviceID,
			ServiceName:            name,
			Quantity:               qty,
			UnitPriceSnapshot:      svc.UnitPrice,
			WholesalePriceSnapshot: svc.WholesalePrice,
			PriceType:              string(effectiveTier),
			AppliedUnitPrice:       applied,
			LineSubtotal:           pricing.Round2(applied.Mul(decimal.NewFromInt(qty))),
			PriceOverridden:        overridden,
			OverrideReason:         strings.TrimSpace(ir.OverrideReason),
			IsNoSujeta:             ir.IsNoSujeta,
		})
		out.amounts = append(out.amounts, pricing.LineAmount{Quantity: qty, UnitPrice: applied})
	}
	return out, nil
}

// authorizeOverrides re-validates the override token server-side. The
// console's local gate is advisory only.
func (s *Service) authorizeOverrides(ctx context.Context, built *builtItems, token string) error {
	if !built.anyOverride {
		return nil
	}
	if err := s.overrides.Verify(ctx, token); err != nil {
		return domain.ErrOverrideRequired
	}
	now := s.clock.Now()
	by := token
	if len(by) > 12 {
		by = by[:12]
	}
	for i := range built.items {
		if built.items[i].PriceOverridden {
			built.items[i].OverrideAuthorizedBy = by
			built.items[i].OverrideAuthorizedAt = &now
		}
	}
	return nil
}

func (s *Service) resolveClientName(ctx context.Context, req domain.InvoiceRequest) (string, error) {
	if req.ClientID != nil {
		c, err := s.clients.FindByID(ctx, s.db, *req.ClientID)
		if err != nil {
			return "", err
		}
		if c != nil {
			return c.Name, nil
		}
	}
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		name = "Consumidor Final"
	}
	return name, nil
}

func (s *Service) generateNumber(ctx context.Context, at time.Time) (string, error) {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%d", at.Format("20060102150405"), count+1), nil
}

func (s *Service) Create(ctx context.Context, req domain.InvoiceRequest) (*domain.Invoice, error) {
	docType := strings.TrimSpace(req.DocumentType)
	if docType == "" {
		docType = domain.DocConsumidorFinal
	}
	if !validDocType(docType) {
		return nil, domain.ErrInvalidDocType
	}
	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = "Efectivo"
	}
	if !validPayment(payment) {
		return nil, domain.ErrInvalidPayment
	}

	now := s.clock.Now()
	invoiceID := s.genID.Generate().Int64()

	built, err := s.buildItems(ctx, invoiceID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOverrides(ctx, built, req.OverrideToken); err != nil {
		return nil, err
	}

	clientName, err := s.resolveClientName(ctx, req)
	if err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		number, err = s.generateNumber(ctx, now)
		if err != nil {
			return nil, err
		}
	}

	date := now
	if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.InvoiceDate)); err == nil {
		date = parsed
	}

	totals := pricing.AggregateTotals(built.amounts)
	inv := &domain.Invoice{
		ID:            invoiceID,
		Number:        number,
		InvoiceDate:   date,
		ClientID:      req.ClientID,
		ClientName:    clientName,
		DocumentType:  docType,
		PaymentMethod: payment,
		Observations:  strings.TrimSpace(req.Observations),
		Subtotal:      totals.Subtotal,
		IVA:           totals.IVA,
		Total:         totals.Total,
		DTEStatus:     domain.DTEStatusPendiente,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         built.items,
	}
	if err := s.repo.Create(ctx, s.db, inv); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateNumber
		}
		return nil, err
	}

	s.metrics.RecordInvoiceCreated(docType)
	s.dispatchDTE(ctx, inv)
	return inv, nil
}

func (s *Service) Update(ctx context.Context, id int64, req domain.InvoiceRequest) (*domain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.HasCreditNote {
		return nil, domain.ErrHasCreditNote
	}

	if docType := strings.TrimSpace(req.DocumentType); docType != "" {
		if !validDocType(docType) {
			return nil, domain.ErrInvalidDocType
		}
		inv.DocumentType = docType
	}
	if payment := strings.TrimSpace(req.PaymentMethod); payment != "" {
		if !validPayment(payment) {
			return nil, domain.ErrInvalidPayment
		}
		inv.PaymentMethod = payment
	}

	built, err := s.buildItems(ctx, inv.ID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOverrides(ctx, built, req.OverrideToken); err != nil {
		return nil, err
	}

	if req.ClientID != nil || strings.TrimSpace(req.ClientName) != "" {
		inv.ClientID = req.ClientID
		name, err := s.resolveClientName(ctx, req)
		if err != nil {
			return nil, err
		}
		inv.ClientName = name
	}
	if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(req.InvoiceDate)); err == nil {
		inv.InvoiceDate = parsed
	}
	inv.Observations = strings.TrimSpace(req.Observations)

	totals := pricing.AggregateTotals(built.amounts)
	inv.Subtotal = totals.Subtotal
	inv.IVA = totals.IVA
	inv.Total = totals.Total
	inv.UpdatedAt = s.clock.Now()

	if err := s.repo.ReplaceItems(ctx, s.db, inv.ID, built.items); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, inv); err != nil {
		return nil, err
	}
	inv.Items = built.items
	return inv, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoicesRequest) ([]domain.Invoice, error) {
	req.Search = strings.TrimSpace(req.Search)
	return s.repo.Find(ctx, s.db, req)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	inv, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.HasCreditNote {
		return domain.ErrHasCreditNote
	}
	return s.repo.Delete(ctx, s.db, id)
}

// dispatchDTE hands the saved invoice to the fiscal transmitter. Errors
// are logged and the invoice stays Pendiente for the autoresend loop.
func (s *Service) dispatchDTE(ctx context.Context, inv *domain.Invoice) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(ctx, inv); err != nil {
		s.log.Warn("dte transmission failed, invoice left pending",
			zap.String("number", inv.Number),
			zap.Error(err),
		)
	}
}
