package services

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/utils"
)

// LocationService appends driver GPS samples, gated by the same booking
// token scheme as status updates.
type LocationService struct {
	BookingRepo  repositories.BookingRepo
	LocationRepo repositories.LocationRepo
	DB           *sql.DB
	RequestID    string

	// KeepSamples caps the per-booking location log; zero falls back to 500.
	KeepSamples int
}

func (s LocationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s LocationService) bookings() repositories.BookingRepo {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepo{DB: s.db()}
}

func (s LocationService) locations() repositories.LocationRepo {
	if s.LocationRepo.DB != nil {
		return s.LocationRepo
	}
	return repositories.LocationRepo{DB: s.db()}
}

func (s LocationService) keep() int {
	if s.KeepSamples > 0 {
		return s.KeepSamples
	}
	return 500
}

func (s LocationService) ShareLocation(bookingID int64, token, latitude, longitude string) error {
	if bookingID <= 0 {
		return domain.ValidationError{Field: "booking_id", Msg: "must be a positive integer"}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ValidationError{Field: "token", Msg: "required"}
	}

	lat, err := parseCoordinate(latitude, "latitude", 90)
	if err != nil {
		return err
	}
	lng, err := parseCoordinate(longitude, "longitude", 180)
	if err != nil {
		return err
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

	if !booking.Status.AllowsLocationSharing() {
		return domain.StateError{
			Current: string(booking.Status),
			Msg:     fmt.Sprintf("location sharing is not allowed while status is %s", booking.Status),
		}
	}

	if err := s.locations().Insert(tx, bookingID, lat, lng); err != nil {
		return domain.InternalError{Err: err}
	}
	if err := s.locations().Prune(tx, bookingID, s.keep()); err != nil {
		return domain.InternalError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return domain.InternalError{Err: err}
	}

	utils.LogEvent(s.RequestID, "booking", "share_location", fmt.Sprintf("booking_id=%d", bookingID))
	return nil
}

func parseCoordinate(raw, field string, bound float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ValidationError{Field: field, Msg: "required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.ValidationError{Field: field, Msg: "must be a number", Err: err}
	}
	if v < -bound || v > bound {
		return 0, domain.ValidationError{Field: field, Msg: fmt.Sprintf("must be between %.0f and %.0f", -bound, bound)}
	}
	return v, nil
}
