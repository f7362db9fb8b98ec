package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/auth"
	"booking-backend/internal/model"
)

// Context keys set by RequireAuth.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// extractToken pulls the access token from the Authorization header, falling
// back to the "token" cookie set at sign-in.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth verifies the request's access token and stores the caller's
// identity in the gin context.
func RequireAuth(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "토큰이 존재하지 않습니다."})
			return
		}

		claims, err := tm.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "인증 토큰이 유효하지 않습니다."})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role. It
// must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "접근 권한이 없습니다."})
			return
		}
		c.Next()
	}
}
