package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/public/quotes
//
// The raw body is kept verbatim as the quote's form_payload audit capture, so
// the handler reads it once and unmarshals from the same bytes.
func SubmitQuote(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil || len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "Request body is required")
		return
	}

	var sub services.QuoteSubmission
	if err := json.Unmarshal(raw, &sub); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	svc := services.QuoteService{
		RequestID:  middleware.GetRequestID(c),
		Mailer:     mailer,
		AdminEmail: adminEmail,
	}
	res, err := svc.Submit(sub, raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	msg := "Quote request received, we will be in touch shortly"
	if res.NewAccount {
		msg = "Quote request received; check your email for your new account details"
	}
	RespondOK(c, msg, gin.H{"quote_id": res.QuoteID})
}

// GET /api/quotes — the authenticated customer's own quotes.
func ListMyQuotes(c *gin.Context) {
	userID := middleware.GetUserID(c)
	repo := repositories.QuoteRepo{}
	quotes, err := repo.ListByUser(userID, queryInt(c, "limit", 50))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quotes": quotes})
}

// GET /api/quotes/:id — ownership-checked quote detail.
func GetMyQuote(c *gin.Context) {
	repo := repositories.QuoteRepo{}
	quote, err := repo.GetByID(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if quote.UserID != middleware.GetUserID(c) {
		// Same shape as a genuinely missing quote.
		RespondDomainError(c, domain.NotFoundError{Resource: "quote"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}

// GET /api/admin/quotes
func AdminListQuotes(c *gin.Context) {
	repo := repositories.QuoteRepo{}
	quotes, err := repo.ListAll(c.Query("status"), queryInt(c, "limit", 100))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quotes": quotes})
}

// GET /api/admin/quotes/:id
func AdminGetQuote(c *gin.Context) {
	repo := repositories.QuoteRepo{}
	quote, err := repo.GetByID(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
}
