package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"

	// SessionCookie carries the JWT for browser clients; API clients may use
	// an Authorization bearer header instead.
	SessionCookie = "catdump_session"
)

// Auth validates the session JWT (cookie or bearer header) and stores the
// caller's id and role on the context. Requests without a valid session are
// rejected with one generic payload, whatever the reason.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if v, err := c.Cookie(SessionCookie); err == nil {
				tokenStr = v
			}
		}
		if tokenStr == "" {
			abortUnauthorized(c)
			return
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c)
			return
		}
		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			abortUnauthorized(c)
			return
		}
		role, _ := claims["role"].(string)

		c.Set(userIDKey, int64(userID))
		c.Set(userRoleKey, role)
		c.Next()
	}
}

// RequireRoles gates a route group to the listed roles. Auth must run first.
// A missing session and a wrong role produce the same generic payload.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetString(userRoleKey)))
		if _, ok := allowed[role]; !ok {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated caller's id, zero when anonymous.
func GetUserID(c *gin.Context) int64 {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// GetUserRole returns the authenticated caller's role, empty when anonymous.
func GetUserRole(c *gin.Context) string {
	return c.GetString(userRoleKey)
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"message":    "Unauthorized",
		"request_id": GetRequestID(c),
	})
}
