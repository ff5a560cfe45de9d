package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abogados-sv/facturacion/internal/dte/domain"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

const autoresendBatchSize = 25

// RunOnce retries transmission for a batch of pending invoices. It
// returns the number of invoices that were attempted.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	if !s.cfg.Enabled {
		return 0, nil
	}
	if !s.sentinel.Online() {
		// One attempt per cycle still goes out so the sentinel can
		// notice the gateway coming back.
		s.log.Debug("dte gateway offline, probing with a single invoice")
	}

	var pending []invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("dte_status = ?", invoicedomain.DTEStatusPendiente).
		Order("id ASC").
		Limit(autoresendBatchSize).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	attempted := 0
	for i := range pending {
		inv := &pending[i]
		attempted++
		if err := s.Send(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrGatewayOffline) {
				// No point hammering the rest of the batch.
				break
			}
			if !errors.Is(err, domain.ErrGatewayRejected) {
				s.log.Warn("autoresend failed",
					zap.String("number", inv.Number),
					zap.Error(err),
				)
			}
		}
	}
	return attempted, nil
}

// RunForever drives the autoresend loop until the context is cancelled.
func (s *Service) RunForever(ctx context.Context) {
	interval := time.Duration(s.cfg.AutoresendSecs) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if n, err := s.RunOnce(ctx); err != nil {
			s.log.Warn("autoresend cycle failed", zap.Error(err))
		} else if n > 0 {
			s.log.Info("autoresend cycle complete", zap.Int("attempted", n))
		}
	}
}
