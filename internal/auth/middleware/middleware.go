package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abogados-sv/facturacion/internal/auth/domain"
	"github.com/abogados-sv/facturacion/internal/auth/session"
	staffdomain "github.com/abogados-sv/facturacion/internal/staffuser/domain"
)

const userContextKey = "auth.user"

// WebAuthRequired rejects requests without a valid session cookie and
// stores the resolved user on the gin context.
func WebAuthRequired(sessions *session.Manager, svc domain.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessions.ReadToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
			return
		}
		user, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			sessions.Clear(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c *gin.Context) (*staffdomain.StaffUser, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*staffdomain.StaffUser)
	return user, ok
}

// AdminRequired additionally requires the admin role. Must run after
// WebAuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok || user.Role != staffdomain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_required"})
			return
		}
		c.Next()
	}
}
