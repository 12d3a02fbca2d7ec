package handlers

import (
	"net/http"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/admin/quotes/:id/convert — accept a pending quote, create the
// booking and mint the driver access token.
func ConvertQuote(c *gin.Context) {
	svc := services.BookingService{
		RequestID: middleware.GetRequestID(c),
		TokenTTL:  driverTokenTTL,
	}
	booking, err := svc.ConvertQuote(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":             true,
		"booking_id":          booking.ID,
		"status":              booking.Status,
		"driver_access_token": booking.DriverAccessToken,
	})
}

// POST /api/admin/bookings/:id/assign
func AssignBooking(c *gin.Context) {
	svc := services.BookingService{RequestID: middleware.GetRequestID(c)}
	if err := svc.Assign(pathID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "Booking assigned", nil)
}

type adminStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/bookings/:id/status — the small set of admin-settable
// statuses (relocation/swap requests, extension, cancellation).
func AdminSetBookingStatus(c *gin.Context) {
	var req adminStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := services.BookingService{RequestID: middleware.GetRequestID(c)}
	if err := svc.SetStatus(pathID(c), models.BookingStatus(req.Status)); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "Booking status updated", nil)
}

// GET /api/admin/bookings
func AdminListBookings(c *gin.Context) {
	repo := repositories.BookingRepo{}
	bookings, err := repo.List(queryInt(c, "limit", 100))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

// GET /api/admin/bookings/:id — booking with its recent history and
// location samples.
func AdminGetBooking(c *gin.Context) {
	bookingRepo := repositories.BookingRepo{}
	booking, err := bookingRepo.GetByID(pathID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	history, err := bookingRepo.ListHistory(booking.ID, 50)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	locations, err := repositories.LocationRepo{}.ListRecent(booking.ID, 50)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"booking":   booking,
		"history":   history,
		"locations": locations,
	})
}
