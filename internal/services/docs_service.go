package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/utils"
)

// DocsService renders the back-office PDFs: the driver work order for a
// booking and the printable quote summary.
type DocsService struct {
	BookingRepo repositories.BookingRepo
	QuoteRepo   repositories.QuoteRepo
	UserRepo    repositories.UserRepo
	RequestID   string

	// BaseURL prefixes the driver link printed on the work order.
	BaseURL string
}

func (s DocsService) GenerateWorkOrder(bookingID int64) ([]byte, string, error) {
	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.UserRepo.GetByID(booking.UserID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_work_order", fmt.Sprintf("booking_id=%d", bookingID))
	return s.buildWorkOrderPDF(booking, customer)
}

func (s DocsService) GenerateQuoteSummary(quoteID int64) ([]byte, string, error) {
	quote, err := s.QuoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.UserRepo.GetByID(quote.UserID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_quote_summary", fmt.Sprintf("quote_id=%d", quoteID))
	return buildQuoteSummaryPDF(quote, customer)
}

func (s DocsService) buildWorkOrderPDF(b models.Booking, u models.User) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Work Order", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "CATDUMP WORK ORDER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : #%d", b.ID),
		fmt.Sprintf("Service        : %s", b.ServiceType.Label()),
		fmt.Sprintf("Status         : %s", b.Status.Label()),
		fmt.Sprintf("Customer       : %s", safe(u.Name, "-")),
		fmt.Sprintf("Phone          : %s", safe(u.Phone, "-")),
		fmt.Sprintf("Location       : %s", safe(b.Location, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Driver link")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	link := fmt.Sprintf("%s/driver/bookings/%d?token=%s", strings.TrimRight(s.BaseURL, "/"), b.ID, b.DriverAccessToken)
	pdf.MultiCell(0, 6, link, "", "", false)
	if b.TokenExpiresAt != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("Link valid until %s", utils.FormatDateTime(*b.TokenExpiresAt)))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("WORKORDER_%d.pdf", b.ID), nil
}

func buildQuoteSummaryPDF(q models.Quote, u models.User) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quote Summary", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("QUOTE #%d", q.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Customer       : %s", safe(u.Name, "-")),
		fmt.Sprintf("Email          : %s", safe(u.Email, "-")),
		fmt.Sprintf("Phone          : %s", safe(u.Phone, "-")),
		fmt.Sprintf("Service        : %s", q.ServiceType.Label()),
		fmt.Sprintf("Status         : %s", string(q.Status)),
		fmt.Sprintf("Location       : %s", safe(q.Location, "-")),
	}
	if q.DeliveryDate != nil {
		lines = append(lines, fmt.Sprintf("Delivery       : %s", utils.FormatDate(*q.DeliveryDate)))
	}
	if q.PickupDate != nil {
		lines = append(lines, fmt.Sprintf("Pickup         : %s", utils.FormatDate(*q.PickupDate)))
	}
	if q.RemovalDate != nil {
		lines = append(lines, fmt.Sprintf("Removal        : %s", utils.FormatDate(*q.RemovalDate)))
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if len(q.EquipmentItems) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Equipment")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range q.EquipmentItems {
			desc := fmt.Sprintf("%dx %s", item.Quantity, item.EquipmentName)
			if item.SpecificNeeds != "" {
				desc += " - " + item.SpecificNeeds
			}
			pdf.MultiCell(0, 6, desc, "", "", false)
		}
	}
	if q.JunkDetail != nil {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Junk items")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, q.JunkDetail.ItemsJSON, "", "", false)
		if q.JunkDetail.Comment != "" {
			pdf.MultiCell(0, 6, "Comment: "+q.JunkDetail.Comment, "", "", false)
		}
	}

	if q.DriverInstructions != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Driver instructions: "+q.DriverInstructions, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("QUOTE_%d.pdf", q.ID), nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
