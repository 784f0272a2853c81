package guard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castelan/accountd/src/accountd/account"
	"github.com/castelan/accountd/src/common/errors"
)

// TokenValidator validates a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*account.Claims, error)
}

// extractToken pulls the bearer token from the request headers.
// Both the Authorization header and X-Subject-Token are accepted.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
			return token
		}
	}
	return c.GetHeader("X-Subject-Token")
}

// Authenticate returns middleware that resolves the caller's principal from
// the request token and stores it in the gin context. It never aborts:
// requests without a valid token simply proceed with no principal, and the
// access decision is left to Enforce on each route.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			if log != nil {
				log.Debug("Rejected token", "error", err)
			}
			c.Next()
			return
		}

		c.Set("claims", claims)
		c.Set("principal", &Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// PrincipalFromContext retrieves the principal stored by Authenticate,
// or nil when the request is anonymous
func PrincipalFromContext(c *gin.Context) *Principal {
	if v, exists := c.Get("principal"); exists {
		if principal, ok := v.(*Principal); ok {
			return principal
		}
	}
	return nil
}

// AuthRequired returns middleware that rejects anonymous requests with 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if PrincipalFromContext(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errors.ErrNoToken.ToResponse())
			return
		}
		c.Next()
	}
}

// Enforce returns middleware that applies the registered role requirement
// for the given operation and group. Routes with no registered requirement
// pass through untouched.
func (r *Registry) Enforce(operation, group string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, found := r.RolesFor(operation, group)
		if !found {
			c.Next()
			return
		}

		principal := PrincipalFromContext(c)
		if !Check(req.Roles, principal) {
			if log != nil {
				role := ""
				if principal != nil {
					role = principal.Role
				}
				log.Warn("Access denied", "operation", operation, "group", group, "required", req.Roles, "role", role)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, errors.ErrRoleDenied.ToResponse())
			return
		}

		c.Next()
	}
}
