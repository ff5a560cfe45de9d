package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authdomain "github.com/abogados-sv/facturacion/internal/auth/domain"
	catalogdomain "github.com/abogados-sv/facturacion/internal/catalog/domain"
	clientdomain "github.com/abogados-sv/facturacion/internal/client/domain"
	dtedomain "github.com/abogados-sv/facturacion/internal/dte/domain"
	expensedomain "github.com/abogados-sv/facturacion/internal/expense/domain"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	overridedomain "github.com/abogados-sv/facturacion/internal/override/domain"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrTooManyTries   = errors.New("too_many_attempts")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

// mapError translates domain errors into HTTP status and the console's
// user-facing messages. The override flow keeps the exact Spanish copy
// the UI shows next to the authorization dialog.
func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type: "internal_error", Code: "internal_error", Message: "internal server error",
		}

	// -------- override authorization --------
	case errors.Is(err, overridedomain.ErrEmptyCode):
		return http.StatusBadRequest, errorPayload{
			Type: "validation_error", Code: "empty_code", Message: "Ingresa un código válido",
		}
	case errors.Is(err, overridedomain.ErrInvalidCode):
		return http.StatusForbidden, errorPayload{
			Type: "forbidden", Code: "invalid_code", Message: "Código incorrecto",
		}
	case errors.Is(err, invoicedomain.ErrOverrideRequired),
		errors.Is(err, overridedomain.ErrTokenExpired),
		errors.Is(err, overridedomain.ErrTokenUnknown):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Code:    "override_authorization_required",
			Message: "Debe autorizar la modificación de precio antes de guardar.",
		}
	case errors.Is(err, ErrTooManyTries):
		return http.StatusTooManyRequests, errorPayload{
			Type: "rate_limited", Code: "too_many_attempts", Message: "Demasiados intentos, intenta más tarde",
		}

	// -------- auth --------
	case errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionUnknown):
		return http.StatusUnauthorized, errorPayload{
			Type: "unauthorized", Code: "unauthorized", Message: "unauthorized",
		}

	// -------- validation --------
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type: "validation_error", Code: err.Error(), Message: "validation error",
		}

	// -------- conflicts --------
	case errors.Is(err, catalogdomain.ErrDuplicateCode),
		errors.Is(err, catalogdomain.ErrCategoryInUse),
		errors.Is(err, staffdomain.ErrDuplicateUsername),
		errors.Is(err, invoicedomain.ErrDuplicateNumber),
		errors.Is(err, invoicedomain.ErrHasCreditNote),
		errors.Is(err, dtedomain.ErrAlreadyProcessed):
		return http.StatusConflict, errorPayload{
			Type: "conflict", Code: err.Error(), Message: "conflict",
		}

	// -------- not found --------
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type: "not_found", Code: "not_found", Message: "not found",
		}

	// -------- gateway --------
	case errors.Is(err, dtedomain.ErrGatewayOffline):
		return http.StatusServiceUnavailable, errorPayload{
			Type: "service_unavailable", Code: "dte_gateway_offline", Message: "Hacienda no disponible, el documento queda pendiente",
		}
	case errors.Is(err, dtedomain.ErrGatewayRejected):
		return http.StatusUnprocessableEntity, errorPayload{
			Type: "rejected", Code: "dte_rejected", Message: "Hacienda rechazó el documento",
		}
	case errors.Is(err, dtedomain.ErrDisabled):
		return http.StatusServiceUnavailable, errorPayload{
			Type: "service_unavailable", Code: "dte_disabled", Message: "Transmisión DTE deshabilitada",
		}

	default:
		return http.StatusInternalServerError, errorPayload{
			Type: "internal_error", Code: "internal_error", Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidCategory),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidType),
		errors.Is(err, expensedomain.ErrInvalidDescription),
		errors.Is(err, expensedomain.ErrInvalidAmount),
		errors.Is(err, staffdomain.ErrInvalidUsername),
		errors.Is(err, staffdomain.ErrInvalidPassword),
		errors.Is(err, staffdomain.ErrInvalidRole),
		errors.Is(err, invoicedomain.ErrNoItems),
		errors.Is(err, invoicedomain.ErrInvalidDocType),
		errors.Is(err, invoicedomain.ErrInvalidPayment),
		errors.Is(err, invoicedomain.ErrUnknownService),
		errors.Is(err, invoicedomain.ErrInvalidItemPrice),
		errors.Is(err, dtedomain.ErrUnknownDocType),
		errors.Is(err, dtedomain.ErrNotApproved):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, expensedomain.ErrNotFound),
		errors.Is(err, staffdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, dtedomain.ErrInvoiceNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the request logger's error_type/error_code
// fields without leaking user-facing copy into the logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Code
}
