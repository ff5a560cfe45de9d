package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abogados-sv/facturacion/internal/export"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
)

func (s *Server) listInvoicesRequest(c *gin.Context) (invoicedomain.ListInvoicesRequest, error) {
	from, err := parseOptionalDate(c.Query("from"), false)
	if err != nil {
		return invoicedomain.ListInvoicesRequest{}, invalidRequestError()
	}
	to, err := parseOptionalDate(c.Query("to"), true)
	if err != nil {
		return invoicedomain.ListInvoicesRequest{}, invalidRequestError()
	}
	return invoicedomain.ListInvoicesRequest{
		Search:    strings.TrimSpace(c.Query("search")),
		DTEStatus: strings.TrimSpace(c.Query("dte_status")),
		From:      from,
		To:        to,
	}, nil
}

func (s *Server) ListInvoices(c *gin.Context) {
	req, err := s.listInvoicesRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req invoicedomain.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ExportInvoicesCSV(c *gin.Context) {
	req, err := s.listInvoicesRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="facturas.csv"`)
	if err := export.InvoicesCSV(c.Writer, invoices); err != nil {
		AbortWithError(c, err)
	}
}

func (s *Server) ExportInvoicesXLSX(c *gin.Context) {
	req, err := s.listInvoicesRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	r, err := export.InvoicesXLSX(invoices)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="facturas.xlsx"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, r)
}

func (s *Server) InvoicePDF(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	r, err := s.pdfProvider.GenerateInvoice(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", inv.Number+".pdf"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, r)
}

// ListInvoiceItems is a read-only view over invoice lines, filterable
// by invoice.
func (s *Server) ListInvoiceItems(c *gin.Context) {
	invoiceID, err := parseOptionalInt64(c.Query("invoice_id"))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	q := s.db.WithContext(c.Request.Context()).Order("id")
	if invoiceID != nil {
		q = q.Where("invoice_id = ?", *invoiceID)
	}

	var items []invoicedomain.InvoiceItem
	if err := q.Find(&items).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
