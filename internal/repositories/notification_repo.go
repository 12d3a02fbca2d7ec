package repositories

import (
	"database/sql"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain/models"
)

type NotificationRepo struct {
	DB *sql.DB
}

func (r NotificationRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r NotificationRepo) Insert(q intdb.DBTX, n models.Notification) error {
	_, err := q.Exec(`
		INSERT INTO notifications (recipient_id, type, message, link, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, NOW())
	`, n.RecipientID, string(n.Type), n.Message, intdb.NullIfEmpty(n.Link))
	return err
}

func (r NotificationRepo) UnreadCount(recipientID int64) (int64, error) {
	var count int64
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM notifications WHERE recipient_id=? AND is_read=0
	`, recipientID).Scan(&count)
	return count, err
}

func (r NotificationRepo) List(recipientID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT id, recipient_id, type, message, COALESCE(link,''), is_read, created_at
		FROM notifications
		WHERE recipient_id=?
		ORDER BY id DESC
		LIMIT ?
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead returns the affected-row count; marking an already-read or absent
// notification is not an error at this layer.
func (r NotificationRepo) MarkRead(recipientID, id int64) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE notifications SET is_read=1 WHERE id=? AND recipient_id=? AND is_read=0
	`, id, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r NotificationRepo) MarkAllRead(recipientID int64) (int64, error) {
	res, err := r.db().Exec(`
		UPDATE notifications SET is_read=1 WHERE recipient_id=? AND is_read=0
	`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r NotificationRepo) Delete(recipientID, id int64) (int64, error) {
	res, err := r.db().Exec(`
		DELETE FROM notifications WHERE id=? AND recipient_id=?
	`, id, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r NotificationRepo) DeleteAll(recipientID int64) (int64, error) {
	res, err := r.db().Exec(`
		DELETE FROM notifications WHERE recipient_id=?
	`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
