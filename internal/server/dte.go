package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type resendDTERequest struct {
	InvoiceID int64 `json:"invoice_id"`
}

func (s *Server) ResendDTE(c *gin.Context) {
	var req resendDTERequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceID == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.dteSvc.Resend(c.Request.Context(), req.InvoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

type invalidateDTERequest struct {
	InvoiceID int64  `json:"invoice_id"`
	Reason    string `json:"reason"`
}

func (s *Server) InvalidateDTE(c *gin.Context) {
	var req invalidateDTERequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InvoiceID == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.dteSvc.Invalidate(c.Request.Context(), req.InvoiceID, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) ListDTERecords(c *gin.Context) {
	id, err := parsePathID(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	records, err := s.dteSvc.Records(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) ConnectivityStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.sentinel.Status()})
}
