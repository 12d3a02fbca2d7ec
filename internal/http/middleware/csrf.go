package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CSRFCookie is the double-submit cookie. Mutating requests must echo the
// same value in the X-CSRF-Token header.
const CSRFCookie = "csrf_token"

const csrfHeader = "X-CSRF-Token"

// IssueCSRFToken sets the double-submit cookie and returns the token so the
// client can echo it back in a header on mutating requests.
func IssueCSRFToken(c *gin.Context) string {
	token := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	// Not HttpOnly: the page script must read it to set the header.
	c.SetCookie(CSRFCookie, token, 86400, "/", "", false, false)
	return token
}

// CSRF enforces the double-submit check on mutating methods. Safe methods
// pass through. Token-authenticated driver endpoints never mount this.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookie)
		header := c.GetHeader(csrfHeader)
		if err != nil || cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":    false,
				"message":    "Invalid CSRF token",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
