package handlers

import (
	"net/http"

	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/admin/bookings/:id/work-order — printable driver work order
// (inline PDF).
func GetBookingWorkOrder(c *gin.Context) {
	svc := services.DocsService{
		RequestID: middleware.GetRequestID(c),
		BaseURL:   baseURL,
	}
	pdfBytes, filename, err := svc.GenerateWorkOrder(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdfBytes, filename)
}

// GET /api/admin/quotes/:id/summary-pdf
func GetQuoteSummaryPDF(c *gin.Context) {
	svc := services.DocsService{
		RequestID: middleware.GetRequestID(c),
		BaseURL:   baseURL,
	}
	pdfBytes, filename, err := svc.GenerateQuoteSummary(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdfBytes, filename)
}

func servePDF(c *gin.Context, pdfBytes []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
