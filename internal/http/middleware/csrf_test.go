package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func csrfRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF())
	r.POST("/mutate", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/read", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCSRF_MissingTokenRejected(t *testing.T) {
	r := csrfRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("mutation without a csrf token must be rejected, got %d", w.Code)
	}
}

func TestCSRF_HeaderMustMatchCookie(t *testing.T) {
	r := csrfRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "token-a"})
	req.Header.Set("X-CSRF-Token", "token-b")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("mismatched token must be rejected, got %d", w.Code)
	}
}

func TestCSRF_MatchingTokenAccepted(t *testing.T) {
	r := csrfRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mutate", strings.NewReader("{}"))
	req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "token-a"})
	req.Header.Set("X-CSRF-Token", "token-a")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("matching token must pass, got %d", w.Code)
	}
}

func TestCSRF_SafeMethodsExempt(t *testing.T) {
	r := csrfRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET must bypass the csrf check, got %d", w.Code)
	}
}
