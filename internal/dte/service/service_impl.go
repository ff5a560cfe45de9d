package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/connectivity"
	"github.com/abogados-sv/facturacion/internal/dte/builder"
	"github.com/abogados-sv/facturacion/internal/dte/domain"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	"github.com/abogados-sv/facturacion/internal/observability/metrics"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Sentinel *connectivity.Sentinel
	Invoices invoicedomain.Repository
	Clients  clientdomain.Repository
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.DTEConfig
	issuer   builder.Issuer
	gateway  *gateway
	sentinel *connectivity.Sentinel
	invoices invoicedomain.Repository
	clients  clientdomain.Repository
	metrics  *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("dte.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Cfg.DTE,
		issuer:   builder.IssuerFromConfig(p.Cfg.DTE),
		gateway:  newGateway(p.Cfg.DTE.GatewayURL, p.Cfg.DTE.APIToken),
		sentinel: p.Sentinel,
		invoices: p.Invoices,
		clients:  p.Clients,
		metrics:  p.Metrics,
	}
}

func docTypeCode(documentType string) (string, error) {
	switch documentType {
	case invoicedomain.DocConsumidorFinal:
		return domain.TipoFactura, nil
	case invoicedomain.DocCreditoFiscal:
		return domain.TipoCreditoFiscal, nil
	case invoicedomain.DocSujetoExcluido:
		return domain.TipoSujetoExcluido, nil
	}
	return "", domain.ErrUnknownDocType
}

func (s *Service) Send(ctx context.Context, inv *invoicedomain.Invoice) error {
	if !s.cfg.Enabled {
		s.log.Debug("dte disabled, skipping transmission", zap.String("number", inv.Number))
		return nil
	}

	code, err := docTypeCode(inv.DocumentType)
	if err != nil {
		return err
	}

	var client *clientdomain.Client
	if inv.ClientID != nil {
		client, err = s.clients.FindByID(ctx, s.db, *inv.ClientID)
		if err != nil {
			return err
		}
	}

	record, err := s.reuseOrCreateRecord(ctx, inv, code, client)
	if err != nil {
		return err
	}
	return s.transmit(ctx, inv, record)
}

// reuseOrCreateRecord keeps the identifiers of a pending record across
// retries; Hacienda sees one codigoGeneracion per document, not one per
// attempt.
func (s *Service) reuseOrCreateRecord(ctx context.Context, inv *invoicedomain.Invoice, code string, client *clientdomain.Client) (*domain.Record, error) {
	var existing domain.Record
	err := s.db.WithContext(ctx).
		Where("invoice_id = ? AND status = ?", inv.ID, domain.StatusPendiente).
		Order("created_at DESC").
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	ids := builder.NewIdentifiers(code, s.issuer, inv.InvoiceDate, now)

	var payload map[string]any
	switch code {
	case domain.TipoFactura:
		payload = builder.BuildFactura(s.issuer, inv, client, ids)
	case domain.TipoCreditoFiscal:
		payload = builder.BuildCreditoFiscal(s.issuer, inv, client, ids)
	case domain.TipoSujetoExcluido:
		payload = builder.BuildSujetoExcluido(s.issuer, inv, client, ids)
	}

	record := &domain.Record{
		ID:               s.genID.Generate().Int64(),
		InvoiceID:        inv.ID,
		DTEType:          code,
		Status:           domain.StatusPendiente,
		NumeroControl:    ids.NumeroControl,
		CodigoGeneracion: ids.CodigoGeneracion,
		ReceiverName:     inv.ClientName,
		Total:            inv.Total,
		RequestPayload:   datatypes.JSONMap(payload),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) transmit(ctx context.Context, inv *invoicedomain.Invoice, record *domain.Record) error {
	if s.cfg.AutoresendMaxSend > 0 && record.SentCount >= s.cfg.AutoresendMaxSend {
		s.log.Warn("dte resend cap reached",
			zap.String("numero_control", record.NumeroControl),
			zap.Int("sent_count", record.SentCount),
		)
		return domain.ErrGatewayOffline
	}

	now := s.clock.Now()
	record.SentCount++
	record.LastSentAt = &now

	res, err := s.gateway.post(ctx, facturaPath, map[string]any(record.RequestPayload))
	if err != nil {
		return err
	}
	record.ResponsePayload = datatypes.JSONMap(res.Body)
	record.HaciendaState = res.Estado
	record.SelloRecibido = res.Sello
	record.UpdatedAt = now

	switch {
	case res.Accepted:
		s.sentinel.ReportSuccess()
		record.Status = domain.StatusProcesado
		if err := s.saveOutcome(ctx, inv, record, invoicedomain.DTEStatusAprobado); err != nil {
			return err
		}
		s.metrics.RecordDTETransmission(record.DTEType, "procesado")
		s.log.Info("dte accepted",
			zap.String("numero_control", record.NumeroControl),
			zap.String("estado", res.Estado),
		)
		return nil
	case res.Offline:
		s.sentinel.ReportFailure(errors.New("dte gateway unreachable"))
		// Identifiers stay minted; the autoresend loop retries.
		if err := s.saveOutcome(ctx, inv, record, invoicedomain.DTEStatusPendiente); err != nil {
			return err
		}
		s.metrics.RecordDTETransmission(record.DTEType, "pendiente")
		return domain.ErrGatewayOffline
	default:
		s.sentinel.ReportSuccess()
		record.Status = domain.StatusRechazado
		if err := s.saveOutcome(ctx, inv, record, invoicedomain.DTEStatusRechazado); err != nil {
			return err
		}
		s.metrics.RecordDTETransmission(record.DTEType, "rechazado")
		s.log.Warn("dte rejected",
			zap.String("numero_control", record.NumeroControl),
			zap.String("estado", res.Estado),
		)
		return domain.ErrGatewayRejected
	}
}

func (s *Service) saveOutcome(ctx context.Context, inv *invoicedomain.Invoice, record *domain.Record, invoiceStatus string) error {
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return err
	}
	inv.DTEStatus = invoiceStatus
	inv.UpdatedAt = s.clock.Now()
	return s.invoices.Update(ctx, s.db, inv)
}

func (s *Service) Resend(ctx context.Context, invoiceID int64) (*domain.Record, error) {
	if !s.cfg.Enabled {
		return nil, domain.ErrDisabled
	}
	inv, err := s.invoices.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.DTEStatus == invoicedomain.DTEStatusAprobado {
		return nil, domain.ErrAlreadyProcessed
	}

	if err := s.Send(ctx, inv); err != nil && !errors.Is(err, domain.ErrGatewayRejected) {
		return nil, err
	}

	var record domain.Record
	if err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("updated_at DESC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Invalidate(ctx context.Context, invoiceID int64, reason string) (*domain.Record, error) {
	if !s.cfg.Enabled {
		return nil, domain.ErrDisabled
	}
	inv, err := s.invoices.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.DTEStatus != invoicedomain.DTEStatusAprobado {
		return nil, domain.ErrNotApproved
	}

	var record domain.Record
	err = s.db.WithContext(ctx).
		Where("invoice_id = ? AND status = ?", invoiceID, domain.StatusProcesado).
		Order("updated_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotApproved
	}
	if err != nil {
		return nil, err
	}

	motivo := strings.TrimSpace(reason)
	if motivo == "" {
		motivo = "Anulacion solicitada por el emisor"
	}
	payload := map[string]any{
		"codigoGeneracion": record.CodigoGeneracion,
		"numeroControl":    record.NumeroControl,
		"motivo":           motivo,
	}

	res, err := s.gateway.post(ctx, invalidationPath, payload)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	record.ResponsePayload = datatypes.JSONMap(res.Body)
	record.UpdatedAt = now
	if res.Offline {
		s.sentinel.ReportFailure(errors.New("dte gateway unreachable"))
		return nil, domain.ErrGatewayOffline
	}
	s.sentinel.ReportSuccess()
	if !res.Accepted {
		return nil, domain.ErrGatewayRejected
	}

	record.Status = domain.StatusRechazado
	record.Observations = motivo
	if err := s.saveOutcome(ctx, inv, &record, invoicedomain.DTEStatusRechazado); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Records(ctx context.Context, invoiceID int64) ([]domain.Record, error) {
	var records []domain.Record
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
