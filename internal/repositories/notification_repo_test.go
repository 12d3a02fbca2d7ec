package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/designarthur/catdump/internal/domain/models"
)

func TestNotificationList_ScopedToRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE recipient_id").
		WithArgs(int64(3), 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "recipient_id", "type", "message", "link", "is_read", "created_at",
		}).
			AddRow(12, 3, "new_quote", "New equipment_rental quote #101 from Jane Doe", "/admin/quotes/101", false, now).
			AddRow(11, 3, "system", "Nightly export finished", "", true, now))

	repo := NotificationRepo{DB: db}
	list, err := repo.List(3, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].ID != 12 || list[0].RecipientID != 3 || list[0].Type != models.NotifNewQuote {
		t.Fatalf("unexpected first notification %+v", list[0])
	}
	if !list[1].IsRead || list[1].Link != "" {
		t.Fatalf("unexpected second notification %+v", list[1])
	}
}

func TestNotificationMarkRead_ReportsAffectedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WithArgs(int64(12), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WithArgs(int64(12), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NotificationRepo{DB: db}

	affected, err := repo.MarkRead(3, 12)
	if err != nil || affected != 1 {
		t.Fatalf("first mark: affected=%d err=%v", affected, err)
	}
	// Second call is a no-op because the row is already read.
	affected, err = repo.MarkRead(3, 12)
	if err != nil || affected != 0 {
		t.Fatalf("second mark: affected=%d err=%v", affected, err)
	}
}

func TestNotificationMarkRead_OtherRecipientUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WithArgs(int64(12), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NotificationRepo{DB: db}
	affected, err := repo.MarkRead(99, 12)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("a notification addressed to someone else must not change, affected=%d", affected)
	}
}

func TestNotificationDeleteAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM notifications WHERE recipient_id").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NotificationRepo{DB: db}
	affected, err := repo.DeleteAll(3)
	if err != nil || affected != 4 {
		t.Fatalf("delete all: affected=%d err=%v", affected, err)
	}
}

func TestNotificationUnreadCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(.+) FROM notifications").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NotificationRepo{DB: db}
	count, err := repo.UnreadCount(3)
	if err != nil || count != 7 {
		t.Fatalf("unread count: count=%d err=%v", count, err)
	}
}
