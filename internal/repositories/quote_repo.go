package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

type QuoteRepo struct {
	DB *sql.DB
}

func (r QuoteRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const quoteColumns = `id, user_id, service_type, status, COALESCE(customer_type,''), COALESCE(location,''),
	delivery_date, pickup_date, removal_date, COALESCE(preferred_time,''),
	is_urgent, is_live_load, COALESCE(driver_instructions,''), COALESCE(additional_comment,''),
	COALESCE(form_payload,''), created_at`

func scanQuoteRow(scan func(dest ...any) error) (models.Quote, error) {
	var q models.Quote
	var delivery, pickup, removal sql.NullTime
	err := scan(
		&q.ID, &q.UserID, &q.ServiceType, &q.Status, &q.CustomerType, &q.Location,
		&delivery, &pickup, &removal, &q.PreferredTime,
		&q.IsUrgent, &q.IsLiveLoad, &q.DriverInstructions, &q.AdditionalComment,
		&q.FormPayload, &q.CreatedAt,
	)
	if delivery.Valid {
		t := delivery.Time
		q.DeliveryDate = &t
	}
	if pickup.Valid {
		t := pickup.Time
		q.PickupDate = &t
	}
	if removal.Valid {
		t := removal.Time
		q.RemovalDate = &t
	}
	return q, err
}

func (r QuoteRepo) Insert(tx intdb.DBTX, q models.Quote) (int64, error) {
	var delivery, pickup, removal any
	if q.DeliveryDate != nil {
		delivery = *q.DeliveryDate
	}
	if q.PickupDate != nil {
		pickup = *q.PickupDate
	}
	if q.RemovalDate != nil {
		removal = *q.RemovalDate
	}
	res, err := tx.Exec(`
		INSERT INTO quotes (user_id, service_type, status, customer_type, location,
			delivery_date, pickup_date, removal_date, preferred_time,
			is_urgent, is_live_load, driver_instructions, additional_comment,
			form_payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, q.UserID, string(q.ServiceType), string(q.Status),
		intdb.NullIfEmpty(q.CustomerType), intdb.NullIfEmpty(q.Location),
		delivery, pickup, removal, intdb.NullIfEmpty(q.PreferredTime),
		q.IsUrgent, q.IsLiveLoad,
		intdb.NullIfEmpty(q.DriverInstructions), intdb.NullIfEmpty(q.AdditionalComment),
		q.FormPayload)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r QuoteRepo) InsertEquipmentDetail(tx intdb.DBTX, quoteID int64, d models.EquipmentDetail) error {
	var delivery, pickup any
	if d.DeliveryDate != nil {
		delivery = *d.DeliveryDate
	}
	if d.PickupDate != nil {
		pickup = *d.PickupDate
	}
	_, err := tx.Exec(`
		INSERT INTO quote_equipment_details (quote_id, equipment_name, quantity, duration, weight, delivery_date, pickup_date, specific_needs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteID, d.EquipmentName, d.Quantity,
		intdb.NullIfEmpty(d.Duration), intdb.NullIfEmpty(d.Weight),
		delivery, pickup, intdb.NullIfEmpty(d.SpecificNeeds))
	return err
}

func (r QuoteRepo) InsertJunkDetail(tx intdb.DBTX, quoteID int64, itemsJSON, comment string) error {
	_, err := tx.Exec(`
		INSERT INTO junk_removal_details (quote_id, junk_items, additional_comment)
		VALUES (?, ?, ?)
	`, quoteID, itemsJSON, intdb.NullIfEmpty(comment))
	return err
}

func (r QuoteRepo) GetByID(id int64) (models.Quote, error) {
	row := r.db().QueryRow(`SELECT `+quoteColumns+` FROM quotes WHERE id=? LIMIT 1`, id)
	q, err := scanQuoteRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Quote{}, domain.NotFoundError{Resource: "quote"}
	}
	if err != nil {
		return models.Quote{}, err
	}
	if err := r.loadDetails(&q); err != nil {
		return models.Quote{}, err
	}
	return q, nil
}

func (r QuoteRepo) loadDetails(q *models.Quote) error {
	switch q.ServiceType {
	case models.ServiceEquipmentRental:
		rows, err := r.db().Query(`
			SELECT id, quote_id, equipment_name, quantity, COALESCE(duration,''), COALESCE(weight,''),
				delivery_date, pickup_date, COALESCE(specific_needs,'')
			FROM quote_equipment_details WHERE quote_id=? ORDER BY id
		`, q.ID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d models.EquipmentDetail
			var delivery, pickup sql.NullTime
			if err := rows.Scan(&d.ID, &d.QuoteID, &d.EquipmentName, &d.Quantity,
				&d.Duration, &d.Weight, &delivery, &pickup, &d.SpecificNeeds); err != nil {
				return err
			}
			if delivery.Valid {
				t := delivery.Time
				d.DeliveryDate = &t
			}
			if pickup.Valid {
				t := pickup.Time
				d.PickupDate = &t
			}
			q.EquipmentItems = append(q.EquipmentItems, d)
		}
		return rows.Err()
	case models.ServiceJunkRemoval:
		var d models.JunkRemovalDetail
		err := r.db().QueryRow(`
			SELECT id, quote_id, junk_items, COALESCE(additional_comment,'')
			FROM junk_removal_details WHERE quote_id=? LIMIT 1
		`, q.ID).Scan(&d.ID, &d.QuoteID, &d.ItemsJSON, &d.Comment)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		q.JunkDetail = &d
	}
	return nil
}

func (r QuoteRepo) ListByUser(userID int64, limit int) ([]models.Quote, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return r.list(`WHERE user_id=?`, []any{userID, limit})
}

func (r QuoteRepo) ListAll(status string, limit int) ([]models.Quote, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if status != "" {
		return r.list(`WHERE status=?`, []any{status, limit})
	}
	return r.list(``, []any{limit})
}

func (r QuoteRepo) list(where string, args []any) ([]models.Quote, error) {
	rows, err := r.db().Query(`SELECT `+quoteColumns+` FROM quotes `+where+` ORDER BY id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Quote
	for rows.Next() {
		q, err := scanQuoteRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// MarkConverted flips a pending quote to converted; the guard on the current
// status stops two admins converting the same quote twice.
func (r QuoteRepo) MarkConverted(tx intdb.DBTX, id int64) (int64, error) {
	res, err := tx.Exec(`
		UPDATE quotes SET status=? WHERE id=? AND status=?
	`, string(models.QuoteConverted), id, string(models.QuotePending))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
