package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/principal"
	"github.com/mingle-social/mingle/internal/repository"
	"github.com/mingle-social/mingle/internal/session"
)

const (
	errUnauthorized = "Unauthorized"
	errForbidden    = "Forbidden"

	bearerPrefix = "Bearer "
)

// Authenticate is the per-request authentication filter. Requests without a
// Bearer Authorization header pass through unauthenticated — handlers that
// need identity sit behind RequireAuth. A present-but-invalid token is a
// hard 401: it never reaches the handler.
//
// On success the resolved principal is installed into the request context.
// Re-entrant filtering keeps the first-installed principal.
func Authenticate(sessions *session.Service, customers repository.CustomerRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := principal.FromContext(c.Request.Context()); ok {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		raw := strings.TrimPrefix(header, bearerPrefix)

		// Covers tampered signatures and expired tokens alike.
		if !sessions.Validate(raw) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := sessions.ExtractClaims(raw)
		if err != nil || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		customer, err := customers.FindByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{
			CustomerID: customer.ID,
			Email:      customer.Email,
			Role:       customer.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests that Authenticate left unauthenticated.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := principal.FromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		c.Next()
	}
}

// RequireRole runs after RequireAuth and rejects principals that do not
// satisfy the role predicate.
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		if !p.HasRole(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
			return
		}
		c.Next()
	}
}
