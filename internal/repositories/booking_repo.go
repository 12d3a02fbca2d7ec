package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, quote_id, user_id, service_type, status, COALESCE(location,''), driver_access_token, token_expires_at, created_at, updated_at`

func scanBooking(row *sql.Row) (models.Booking, error) {
	var b models.Booking
	var expires sql.NullTime
	err := row.Scan(
		&b.ID, &b.QuoteID, &b.UserID, &b.ServiceType, &b.Status, &b.Location,
		&b.DriverAccessToken, &expires, &b.CreatedAt, &b.UpdatedAt,
	)
	if expires.Valid {
		t := expires.Time
		b.TokenExpiresAt = &t
	}
	return b, err
}

func (r BookingRepo) GetByID(id int64) (models.Booking, error) {
	b, err := scanBooking(r.db().QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, err
}

// GetByIDAndToken authenticates a driver link. A wrong id, a wrong token and
// an expired token all come back as the same generic UnauthorizedError so the
// endpoint leaks nothing about which part failed.
func (r BookingRepo) GetByIDAndToken(q intdb.DBTX, id int64, token string) (models.Booking, error) {
	b, err := scanBooking(q.QueryRow(`
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id=? AND driver_access_token=?
		  AND (token_expires_at IS NULL OR token_expires_at > NOW())
		LIMIT 1
	`, id, token))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.UnauthorizedError{Msg: "invalid booking or access token"}
	}
	return b, err
}

// UpdateStatusGuarded moves the status only if the row still holds the
// expected current value, so two racing transitions cannot both win. Returns
// the affected-row count for the caller to interpret.
func (r BookingRepo) UpdateStatusGuarded(q intdb.DBTX, id int64, from, to models.BookingStatus) (int64, error) {
	res, err := q.Exec(`
		UPDATE bookings SET status=?, updated_at=NOW()
		WHERE id=? AND status=?
	`, string(to), id, string(from))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r BookingRepo) InsertHistory(q intdb.DBTX, bookingID int64, status models.BookingStatus, note string) error {
	_, err := q.Exec(`
		INSERT INTO booking_status_history (booking_id, status, note, created_at)
		VALUES (?, ?, ?, NOW())
	`, bookingID, string(status), note)
	return err
}

func (r BookingRepo) Insert(q intdb.DBTX, b models.Booking) (int64, error) {
	var expires any
	if b.TokenExpiresAt != nil {
		expires = *b.TokenExpiresAt
	}
	res, err := q.Exec(`
		INSERT INTO bookings (quote_id, user_id, service_type, status, location, driver_access_token, token_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, b.QuoteID, b.UserID, string(b.ServiceType), string(b.Status),
		intdb.NullIfEmpty(b.Location), b.DriverAccessToken, expires)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepo) List(limit int) ([]models.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		var expires sql.NullTime
		if err := rows.Scan(
			&b.ID, &b.QuoteID, &b.UserID, &b.ServiceType, &b.Status, &b.Location,
			&b.DriverAccessToken, &expires, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if expires.Valid {
			t := expires.Time
			b.TokenExpiresAt = &t
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepo) ListHistory(bookingID int64, limit int) ([]models.StatusHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT id, booking_id, status, note, created_at
		FROM booking_status_history
		WHERE booking_id=?
		ORDER BY id DESC
		LIMIT ?
	`, bookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.StatusHistory
	for rows.Next() {
		var h models.StatusHistory
		if err := rows.Scan(&h.ID, &h.BookingID, &h.Status, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
