package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

var quoteCols = []string{
	"id", "user_id", "service_type", "status", "customer_type", "location",
	"delivery_date", "pickup_date", "removal_date", "preferred_time",
	"is_urgent", "is_live_load", "driver_instructions", "additional_comment",
	"form_payload", "created_at",
}

func quoteRow(id int64, svc models.ServiceType, status models.QuoteStatus) *sqlmock.Rows {
	return sqlmock.NewRows(quoteCols).AddRow(
		id, 5, string(svc), string(status), "residential", "Atlanta, GA",
		nil, nil, nil, "",
		false, false, "", "",
		"{}", time.Now(),
	)
}

func expectQuoteLookup(mock sqlmock.Sqlmock, id int64, rows *sqlmock.Rows) {
	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id").
		WithArgs(id).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) FROM junk_removal_details").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "junk_items", "additional_comment"}))
}

func TestConvertQuote_MintsBookingAndToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteLookup(mock, 7, quoteRow(7, models.ServiceJunkRemoval, models.QuotePending))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE quotes SET status").
		WithArgs("converted", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(200, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WithArgs(int64(200), "scheduled", "Booking created from quote #7 by admin").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db}
	booking, err := svc.ConvertQuote(7)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if booking.ID != 200 || booking.QuoteID != 7 || booking.UserID != 5 {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if booking.Status != models.StatusScheduled {
		t.Fatalf("new booking must start scheduled, got %s", booking.Status)
	}
	if len(booking.DriverAccessToken) != 36 {
		t.Fatalf("driver access token should be a uuid, got %q", booking.DriverAccessToken)
	}
	if booking.TokenExpiresAt != nil {
		t.Fatalf("zero ttl means no expiry, got %v", booking.TokenExpiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConvertQuote_TokenTTLSetsExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteLookup(mock, 7, quoteRow(7, models.ServiceJunkRemoval, models.QuotePending))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE quotes SET status").
		WithArgs("converted", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(201, 1))
	mock.ExpectExec("INSERT INTO booking_status_history").
		WithArgs(int64(201), "scheduled", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := BookingService{DB: db, TokenTTL: 72 * time.Hour}
	booking, err := svc.ConvertQuote(7)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if booking.TokenExpiresAt == nil {
		t.Fatalf("ttl was set but expiry is nil")
	}
	until := time.Until(*booking.TokenExpiresAt)
	if until < 71*time.Hour || until > 73*time.Hour {
		t.Fatalf("expiry should land about 72h out, got %v", until)
	}
}

func TestConvertQuote_NonPendingIsRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteLookup(mock, 7, quoteRow(7, models.ServiceJunkRemoval, models.QuoteConverted))

	svc := BookingService{DB: db}
	_, err = svc.ConvertQuote(7)
	if !domain.IsState(err) {
		t.Fatalf("expected state error, got %v", err)
	}
}

func TestConvertQuote_RaceOnGuardConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectQuoteLookup(mock, 7, quoteRow(7, models.ServiceJunkRemoval, models.QuotePending))
	mock.ExpectBegin()
	// A second admin got there first between the read and this update.
	mock.ExpectExec("UPDATE quotes SET status").
		WithArgs("converted", int64(7), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	_, err = svc.ConvertQuote(7)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestConvertQuote_MissingQuote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(quoteCols))

	svc := BookingService{DB: db}
	_, err = svc.ConvertQuote(404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssign_RequiresScheduledStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("assigned", int64(200), "scheduled").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	svc := BookingService{DB: db}
	if err := svc.Assign(200); !domain.IsConflict(err) {
		t.Fatalf("assigning a non-scheduled booking must conflict, got %v", err)
	}
}

func TestSetStatus_RejectsDriverOnlyStatuses(t *testing.T) {
	svc := BookingService{}

	for _, status := range []models.BookingStatus{
		models.StatusOutForDelivery,
		models.StatusDelivered,
		models.StatusCompleted,
	} {
		if err := svc.SetStatus(200, status); !domain.IsValidation(err) {
			t.Fatalf("status %s must not be admin-settable, got %v", status, err)
		}
	}
}

func TestSetStatus_IdempotentOnCurrentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs(int64(200)).
		WillReturnRows(bookingRows(200, models.ServiceEquipmentRental, models.StatusCancelled, "tok"))

	svc := BookingService{DB: db}
	if err := svc.SetStatus(200, models.StatusCancelled); err != nil {
		t.Fatalf("setting the current status again must be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no transition may be written: %v", err)
	}
}
