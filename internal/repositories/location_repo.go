package repositories

import (
	"database/sql"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain/models"
)

type LocationRepo struct {
	DB *sql.DB
}

func (r LocationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r LocationRepo) Insert(q intdb.DBTX, bookingID int64, lat, lng float64) error {
	_, err := q.Exec(`
		INSERT INTO booking_live_locations (booking_id, latitude, longitude, created_at)
		VALUES (?, ?, ?, NOW())
	`, bookingID, lat, lng)
	return err
}

// Prune drops everything but the newest keep samples for one booking. The
// nested derived table works around MySQL's refusal to delete from a table
// referenced in the same statement's subquery.
func (r LocationRepo) Prune(q intdb.DBTX, bookingID int64, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := q.Exec(`
		DELETE FROM booking_live_locations
		WHERE booking_id = ?
		  AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM booking_live_locations
				WHERE booking_id = ?
				ORDER BY id DESC
				LIMIT ?
			) keep_rows
		  )
	`, bookingID, bookingID, keep)
	return err
}

func (r LocationRepo) ListRecent(bookingID int64, limit int) ([]models.LiveLocation, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT id, booking_id, latitude, longitude, created_at
		FROM booking_live_locations
		WHERE booking_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, bookingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LiveLocation
	for rows.Next() {
		var l models.LiveLocation
		if err := rows.Scan(&l.ID, &l.BookingID, &l.Latitude, &l.Longitude, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
