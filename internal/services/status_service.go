package services

import (
	"database/sql"
	"fmt"
	"strings"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/utils"
)

// StatusService owns the driver-facing booking status transitions.
type StatusService struct {
	BookingRepo repositories.BookingRepo
	DB          *sql.DB
	RequestID   string
}

func (s StatusService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s StatusService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

// UpdateStatus moves a booking along the driver transition table. Submitting
// the status the booking already holds is an idempotent success and writes
// nothing; every real transition updates the row and appends one history
// entry in the same transaction.
func (s StatusService) UpdateStatus(bookingID int64, token string, newStatus models.BookingStatus) error {
	if bookingID <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "must be a positive integer"}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ValidationError{Field: "token", Msg: "required"}
	}
	if newStatus == "" {
		return domain.ValidationError{Field: "new_status", Msg: "required"}
	}
	if !newStatus.Valid() {
		return domain.ValidationError{Field: "new_status", Msg: fmt.Sprintf("unknown status %q", string(newStatus))}
	}

	tx, err := s.db().Begin()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	booking, err := s.bookings().GetByIDAndToken(tx, bookingID, token)
	if err != nil {
		if domain.IsUnauthorized(err) {
			return err
		}
		return domain.InternalError{Err: err}
	}

	if booking.Status == newStatus {
		// Drivers retry from flaky connections; re-sending the applied
		// status must not grow the audit log.
		return nil
	}

	if !models.CanTransition(booking.Status, newStatus, booking.ServiceType) {
		se := domain.StateError{Current: string(booking.Status), Target: string(newStatus)}
		if booking.Status == models.StatusDelivered {
			se.Msg = fmt.Sprintf("invalid status transition from %s to %s for service type %s",
				booking.Status, newStatus, booking.ServiceType)
		}
		return se
	}

	affected, err := s.bookings().UpdateStatusGuarded(tx, bookingID, booking.Status, newStatus)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "status changed concurrently, please retry"}
	}

	note := fmt.Sprintf("Status updated to %s by driver via unique link", newStatus.Label())
	if err := s.bookings().InsertHistory(tx, bookingID, newStatus, note); err != nil {
		return domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "update_status",
		fmt.Sprintf("booking_id=%d %s->%s", bookingID, booking.Status, newStatus))
	return nil
}
