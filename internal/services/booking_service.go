package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/utils"
)

// BookingService covers the admin side of the booking lifecycle: converting
// an accepted quote into a booking, assigning it, and the few status
// overrides back-office staff may apply directly.
type BookingService struct {
	BookingRepo repositories.BookingRepo
	QuoteRepo   repositories.QuoteRepo
	DB          *sql.DB
	RequestID   string

	// TokenTTL bounds the driver access token; zero means no expiry.
	TokenTTL time.Duration
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s BookingService) quotes() repositories.QuoteRepo {
	if s.QuoteRepo.DB != nil {
		return s.QuoteRepo
	}
	return repositories.QuoteRepo{DB: s.db()}
}

// ConvertQuote turns a pending quote into a scheduled booking and mints the
// driver access token. The status guard on the quote row stops two admins
// converting the same quote twice.
func (s BookingService) ConvertQuote(quoteID int64) (models.Booking, error) {
	if quoteID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "quote_id", Msg: "must be a positive integer"}
	}

	quote, err := s.quotes().GetByID(quoteID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if quote.Status != models.QuotePending {
		return models.Booking{}, domain.StateError{
			Current: string(quote.Status),
			Msg:     fmt.Sprintf("quote cannot be converted while status is %s", quote.Status),
		}
	}

	booking := models.Booking{
		QuoteID:           quoteID,
		UserID:            quote.UserID,
		ServiceType:       quote.ServiceType,
		Status:            models.StatusScheduled,
		Location:          quote.Location,
		DriverAccessToken: uuid.NewString(),
	}
	if s.TokenTTL > 0 {
		expires := time.Now().Add(s.TokenTTL)
		booking.TokenExpiresAt = &expires
	}

	tx, err := s.db().Begin()
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	affected, err := s.quotes().MarkConverted(tx, quoteID)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if affected == 0 {
		return models.Booking{}, domain.ConflictError{Resource: "quote", Msg: "already converted"}
	}

	bookingID, err := s.bookings().Insert(tx, booking)
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	booking.ID = bookingID

	note := fmt.Sprintf("Booking created from quote #%d by admin", quoteID)
	if err := s.bookings().InsertHistory(tx, bookingID, models.StatusScheduled, note); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "convert_quote",
		fmt.Sprintf("quote_id=%d booking_id=%d", quoteID, bookingID))
	return booking, nil
}

// Assign moves a scheduled booking to assigned once a driver has been lined
// up; the driver link becomes actionable from this point.
func (s BookingService) Assign(bookingID int64) error {
	return s.adminTransition(bookingID, models.StatusScheduled, models.StatusAssigned,
		"Status updated to Assigned by admin")
}

// SetStatus applies one of the few admin-settable statuses (relocation or
// swap requests, extension, cancellation).
func (s BookingService) SetStatus(bookingID int64, status models.BookingStatus) error {
	if !status.AdminSettable() {
		return domain.ValidationError{Field: "status", Msg: fmt.Sprintf("status %q cannot be set by admin", string(status))}
	}
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		return domain.InternalError{Err: err}
	}
	if booking.Status == status {
		return nil
	}
	note := fmt.Sprintf("Status updated to %s by admin", status.Label())
	return s.adminTransition(bookingID, booking.Status, status, note)
}

func (s BookingService) adminTransition(bookingID int64, from, to models.BookingStatus, note string) error {
	if bookingID <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "must be a positive integer"}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	affected, err := s.bookings().UpdateStatusGuarded(tx, bookingID, from, to)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "booking",
			Msg: fmt.Sprintf("booking is not in %s status", from)}
	}
	if err := s.bookings().InsertHistory(tx, bookingID, to, note); err != nil {
		return domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "admin_transition",
		fmt.Sprintf("booking_id=%d %s->%s", bookingID, from, to))
	return nil
}
