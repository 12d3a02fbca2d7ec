package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

func TestShareLocation_InsertsAndPrunes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, models.StatusOutForDelivery, "abc123"))
	mock.ExpectExec("INSERT INTO booking_live_locations").
		WithArgs(int64(42), 33.7490, -84.3880).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM booking_live_locations").
		WithArgs(int64(42), int64(42), 500).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	svc := LocationService{DB: db}
	if err := svc.ShareLocation(42, "abc123", "33.7490", "-84.3880"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShareLocation_RespectsKeepOverride(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	expectTokenLookup(mock, 7, "tok", bookingRows(7, models.ServiceJunkRemoval, models.StatusInUse, "tok"))
	mock.ExpectExec("INSERT INTO booking_live_locations").
		WithArgs(int64(7), 10.0, 20.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM booking_live_locations").
		WithArgs(int64(7), int64(7), 25).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	svc := LocationService{DB: db, KeepSamples: 25}
	if err := svc.ShareLocation(7, "tok", "10", "20"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShareLocation_RejectedWhileNotEnRoute(t *testing.T) {
	cases := []models.BookingStatus{
		models.StatusPending,
		models.StatusScheduled,
		models.StatusCompleted,
		models.StatusCancelled,
	}
	for _, status := range cases {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock init error: %v", err)
		}

		mock.ExpectBegin()
		expectTokenLookup(mock, 42, "abc123", bookingRows(42, models.ServiceEquipmentRental, status, "abc123"))
		mock.ExpectRollback()

		svc := LocationService{DB: db}
		err = svc.ShareLocation(42, "abc123", "1", "2")
		if !domain.IsState(err) {
			t.Fatalf("status %s: expected state error, got %v", status, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("status %s: no sample may be stored: %v", status, err)
		}
		db.Close()
	}
}

func TestShareLocation_CoordinateValidation(t *testing.T) {
	svc := LocationService{}

	cases := []struct {
		name     string
		lat, lng string
	}{
		{"missing latitude", "", "10"},
		{"missing longitude", "10", ""},
		{"non numeric latitude", "north", "10"},
		{"non numeric longitude", "10", "east"},
		{"latitude above bound", "90.5", "10"},
		{"latitude below bound", "-91", "10"},
		{"longitude above bound", "10", "180.01"},
		{"longitude below bound", "10", "-181"},
	}
	for _, tc := range cases {
		if err := svc.ShareLocation(42, "abc123", tc.lat, tc.lng); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestShareLocation_UnknownToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs(int64(42), "stale").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "quote_id", "user_id", "service_type", "status", "location",
			"driver_access_token", "token_expires_at", "created_at", "updated_at",
		}))
	mock.ExpectRollback()

	svc := LocationService{DB: db}
	if err := svc.ShareLocation(42, "stale", "1", "2"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
