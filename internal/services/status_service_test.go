package services

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

func bookingRows(id int64, svc models.ServiceType, status models.BookingStatus, token string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "quote_id", "user_id", "service_type", "status", "location",
		"driver_access_token", "token_expires_at", "created_at", "updated_at",
	}).AddRow(id, 1, 1, string(svc), string(status), "", token, nil, now, now)
}

func expectTokenLookup(mock sqlmock.Sqlmock, id int64, token string, rows *sqlmock.Rows) {
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(id, token).
		WillReturnRows(rows)
}

func TestUpdateStatus_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusAssigned, "abc123"))
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("out_for_delivery", int64(42), "assigned").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WithArgs(int64(42), "out_for_delivery", "Status updated to Out For Delivery by driver via unique link").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := StatusService{DB: db}
	if err := svc.UpdateStatus(42, "abc123", models.StatusOutForDelivery); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_IdempotentResubmissionWritesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusDelivered, "abc123"))
	mock.ExpectRollback()

	svc := StatusService{DB: db}
	if err := svc.UpdateStatus(42, "abc123", models.StatusDelivered); err != nil {
		t.Fatalf("resubmitting the current status must succeed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("history or status must not be written: %v", err)
	}
}

func TestUpdateStatus_IllegalTransitionLeavesStateUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusAssigned, "abc123"))
	mock.ExpectRollback()

	svc := StatusService{DB: db}
	err = svc.UpdateStatus(42, "abc123", models.StatusDelivered)
	if !domain.IsState(err) {
		t.Fatalf("expected state error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no write may happen on an illegal transition: %v", err)
	}
}

func TestUpdateStatus_DeliveredToCompletedRequiresJunkRemoval(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusDelivered, "abc123"))
	mock.ExpectRollback()

	svc := StatusService{DB: db}
	err = svc.UpdateStatus(42, "abc123", models.StatusCompleted)
	if !domain.IsState(err) {
		t.Fatalf("expected state error, got %v", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "delivered") ||
		!strings.Contains(msg, "completed") || !strings.Contains(msg, "equipment_rental") {
		t.Fatalf("state error should name both states and the service type, got %q", msg)
	}
}

func TestUpdateStatus_WrongTokenMatchesMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	emptyCols := []string{
		"id", "quote_id", "user_id", "service_type", "status", "location",
		"driver_access_token", "token_expires_at", "created_at", "updated_at",
	}

	// Wrong token on a real booking.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(42), "wrong").
		WillReturnRows(sqlmock.NewRows(emptyCols))
	mock.ExpectRollback()

	// Nonexistent booking id.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(99999), "abc123").
		WillReturnRows(sqlmock.NewRows(emptyCols))
	mock.ExpectRollback()

	svc := StatusService{DB: db}

	errWrongToken := svc.UpdateStatus(42, "wrong", models.StatusDelivered)
	errMissing := svc.UpdateStatus(99999, "abc123", models.StatusDelivered)

	if !domain.IsUnauthorized(errWrongToken) || !domain.IsUnauthorized(errMissing) {
		t.Fatalf("both failures must be unauthorized, got %v / %v", errWrongToken, errMissing)
	}
	if errWrongToken.Error() != errMissing.Error() {
		t.Fatalf("error messages must be identical to avoid enumeration: %q vs %q",
			errWrongToken.Error(), errMissing.Error())
	}
}

func TestUpdateStatus_ConcurrentTransitionConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusAssigned, "abc123"))
	// Another request already moved the row; the guarded update matches nothing.
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("out_for_delivery", int64(42), "assigned").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := StatusService{DB: db}
	err = svc.UpdateStatus(42, "abc123", models.StatusOutForDelivery)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	svc := StatusService{}

	if err := svc.UpdateStatus(0, "abc123", models.StatusDelivered); !domain.IsValidation(err) {
		t.Fatalf("zero booking id must fail validation, got %v", err)
	}
	if err := svc.UpdateStatus(42, "", models.StatusDelivered); !domain.IsValidation(err) {
		t.Fatalf("empty token must fail validation, got %v", err)
	}
	if err := svc.UpdateStatus(42, "abc123", ""); !domain.IsValidation(err) {
		t.Fatalf("empty status must fail validation, got %v", err)
	}
	if err := svc.UpdateStatus(42, "abc123", "warp_drive"); !domain.IsValidation(err) {
		t.Fatalf("unknown status must fail validation, got %v", err)
	}
}

// Walks the end-to-end equipment rental flow one transition at a time.
func TestUpdateStatus_EquipmentRentalFlow(t *testing.T) {
	steps := []struct {
		current models.BookingStatus
		next    models.BookingStatus
	}{
		{models.StatusAssigned, models.StatusOutForDelivery},
		{models.StatusOutForDelivery, models.StatusDelivered},
		{models.StatusDelivered, models.StatusInUse},
		{models.StatusInUse, models.StatusAwaitingPickup},
		{models.StatusAwaitingPickup, models.StatusPickedUp},
		{models.StatusPickedUp, models.StatusCompleted},
	}
	for _, step := range steps {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock init error: %v", err)
		}

		mock.ExpectBegin()
		expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, step.current, "abc123"))
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(string(step.next), int64(42), string(step.current)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO booking_status_history").
			WithArgs(int64(42), string(step.next), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		svc := StatusService{DB: db}
		if err := svc.UpdateStatus(42, "abc123", step.next); err != nil {
			t.Fatalf("%s -> %s: %v", step.current, step.next, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("%s -> %s unmet expectations: %v", step.current, step.next, err)
		}
		db.Close()
	}
}
