package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/connectivity"
	dtedomain "github.com/abogados-sv/facturacion/internal/dte/domain"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

type fakeDTEService struct {
	record        *dtedomain.Record
	err           error
	resendCalls   int
	lastInvoiceID int64
	lastReason    string
}

func (f *fakeDTEService) Send(ctx context.Context, invoice *invoicedomain.Invoice) error {
	_ = ctx
	_ = invoice
	return f.err
}

func (f *fakeDTEService) Resend(ctx context.Context, invoiceID int64) (*dtedomain.Record, error) {
	f.resendCalls++
	f.lastInvoiceID = invoiceID
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeDTEService) Invalidate(ctx context.Context, invoiceID int64, reason string) (*dtedomain.Record, error) {
	f.lastInvoiceID = invoiceID
	f.lastReason = reason
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeDTEService) Records(ctx context.Context, invoiceID int64) ([]dtedomain.Record, error) {
	f.lastInvoiceID = invoiceID
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	if f.record == nil {
		return nil, nil
	}
	return []dtedomain.Record{*f.record}, nil
}

func newDTERouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/resend-dte/", srv.ResendDTE)
	router.POST("/api/dte/invalidate/", srv.InvalidateDTE)
	router.GET("/api/invoices/:id/dte-records", srv.ListDTERecords)
	router.GET("/api/status/connectivity/", srv.ConnectivityStatus)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestResendDTEReturnsRecord(t *testing.T) {
	svc := &fakeDTEService{
		record: &dtedomain.Record{
			InvoiceID:     42,
			DTEType:       "01",
			Status:        "APROBADO",
			NumeroControl: "DTE-01-M002P001-000000000000042",
		},
	}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodPost, "/api/resend-dte/", `{"invoice_id":42}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.lastInvoiceID != 42 {
		t.Fatalf("expected resend for invoice 42, got %d", svc.lastInvoiceID)
	}
	if !strings.Contains(resp.Body.String(), "DTE-01-M002P001") {
		t.Fatalf("expected numero control in response, got %s", resp.Body.String())
	}
}

func TestResendDTERejectsMissingInvoiceID(t *testing.T) {
	svc := &fakeDTEService{}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodPost, "/api/resend-dte/", `{}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if svc.resendCalls != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestResendDTEGatewayOffline(t *testing.T) {
	svc := &fakeDTEService{err: dtedomain.ErrGatewayOffline}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodPost, "/api/resend-dte/", `{"invoice_id":42}`)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "queda pendiente") {
		t.Fatalf("expected pending message, got %s", resp.Body.String())
	}
}

func TestInvalidateDTEForwardsReason(t *testing.T) {
	svc := &fakeDTEService{record: &dtedomain.Record{InvoiceID: 7, Status: "INVALIDADO"}}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodPost, "/api/dte/invalidate/", `{"invoice_id":7,"reason":"monto incorrecto"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.lastReason != "monto incorrecto" {
		t.Fatalf("expected reason forwarded, got %q", svc.lastReason)
	}
}

func TestInvalidateDTEAlreadyProcessed(t *testing.T) {
	svc := &fakeDTEService{err: dtedomain.ErrAlreadyProcessed}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodPost, "/api/dte/invalidate/", `{"invoice_id":7,"reason":"duplicado"}`)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestListDTERecords(t *testing.T) {
	svc := &fakeDTEService{record: &dtedomain.Record{InvoiceID: 9, Status: "PENDIENTE"}}
	srv := &Server{dteSvc: svc}

	resp := doJSON(newDTERouter(srv), http.MethodGet, "/api/invoices/9/dte-records", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.lastInvoiceID != 9 {
		t.Fatalf("expected records lookup for invoice 9, got %d", svc.lastInvoiceID)
	}
	if !strings.Contains(resp.Body.String(), "PENDIENTE") {
		t.Fatalf("expected record status in response, got %s", resp.Body.String())
	}
}

func TestConnectivityStatus(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	sentinel := connectivity.NewSentinel(fake)
	sentinel.ReportSuccess()
	srv := &Server{sentinel: sentinel}

	resp := doJSON(newDTERouter(srv), http.MethodGet, "/api/status/connectivity/", "")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"online":true`) {
		t.Fatalf("expected online status, got %s", resp.Body.String())
	}
}
