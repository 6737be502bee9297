package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxRole     = "user_role"
	ctxBranchID = "branch_id"
)

// Middleware authenticates the bearer access token and stores the caller's
// identity on the gin context.
func Middleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		claims, err := tokens.ParseAccess(strings.TrimSpace(token))
		switch {
		case errors.Is(err, ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		case errors.Is(err, ErrInvalidTokenType):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		if claims.BranchID != nil {
			c.Set(ctxBranchID, *claims.BranchID)
		}
		c.Next()
	}
}

// RequireRole lets the request through when the caller holds any of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			return
		}

		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	return contextValue[int](c, ctxUserID)
}

func GetUserRole(c *gin.Context) (string, bool) {
	return contextValue[string](c, ctxRole)
}

// GetBranchID returns the branch of a staff caller.
func GetBranchID(c *gin.Context) (int, bool) {
	return contextValue[int](c, ctxBranchID)
}

// CurrentIdentity rebuilds the caller's identity from the gin context. Email is
// not carried.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return Identity{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return Identity{}, false
	}

	who := Identity{UserID: id, Role: role}
	if branch, ok := GetBranchID(c); ok {
		who.BranchID = &branch
	}
	return who, true
}

func contextValue[T any](c *gin.Context, key string) (T, bool) {
	var zero T
	v, exists := c.Get(key)
	if !exists {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
