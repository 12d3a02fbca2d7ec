package handlers

import (
	"fmt"
	"strconv"

	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/http/middleware"
	"github.com/designarthur/catdump/internal/services"

	"github.com/gin-gonic/gin"
)

type driverStatusRequest struct {
	Token     string `json:"token"`
	NewStatus string `json:"new_status"`
}

// POST /api/driver/bookings/:id/status
//
// Token-authenticated, no session or CSRF. The booking id and token must
// match together; a failure never says which one was wrong.
func DriverUpdateStatus(c *gin.Context) {
	bookingID := pathID(c)

	var req driverStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.StatusService{RequestID: middleware.GetRequestID(c)}
	if err := svc.UpdateStatus(bookingID, req.Token, models.BookingStatus(req.NewStatus)); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, fmt.Sprintf("Booking status updated to %s", models.BookingStatus(req.NewStatus).Label()), nil)
}

type driverLocationRequest struct {
	Token     string `json:"token"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// POST /api/driver/bookings/:id/location
func DriverShareLocation(c *gin.Context) {
	bookingID := pathID(c)

	var req driverLocationRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := services.LocationService{
		RequestID:   middleware.GetRequestID(c),
		KeepSamples: locationKeep,
	}
	if err := svc.ShareLocation(bookingID, req.Token, req.Latitude, req.Longitude); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "Location recorded", nil)
}

// pathID parses the :id route param; invalid values come back as 0 and fail
// the service-level positive-id check with a validation error.
func pathID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
