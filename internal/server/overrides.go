package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	overridedomain "github.com/abogados-sv/facturacion/internal/override/domain"
)

type validateOverrideRequest struct {
	Code string `json:"code"`
}

// ValidateOverrideCode exchanges the shared access code for a
// short-lived authorization token. Attempts are rate limited per
// client address.
func (s *Server) ValidateOverrideCode(c *gin.Context) {
	if s.overrideLimiter != nil {
		ok, err := s.overrideLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("override attempt limiter unavailable", zap.Error(err))
		} else if !ok {
			s.recordOverrideOutcome("rate_limited")
			AbortWithError(c, ErrTooManyTries)
			return
		}
	}

	var req validateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, overridedomain.ErrEmptyCode)
		return
	}

	grant, err := s.overrideSvc.Validate(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, overridedomain.ErrEmptyCode):
			s.recordOverrideOutcome("empty")
		case errors.Is(err, overridedomain.ErrInvalidCode):
			s.recordOverrideOutcome("rejected")
		}
		AbortWithError(c, err)
		return
	}

	s.recordOverrideOutcome("granted")
	c.JSON(http.StatusOK, gin.H{"data": grant})
}

func (s *Server) recordOverrideOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordOverrideValidation(outcome)
	}
}
