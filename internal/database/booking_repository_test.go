package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

func newMockDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func testBookingFixture() (*models.Ticket, []models.Passenger, []models.PassengerTicket, *models.Payment) {
	journeyDate, _ := time.Parse("2006-01-02", "2026-10-01")
	pid := uuid.New()

	ticket := &models.Ticket{
		JourneyDate:        journeyDate,
		SourceStation:      "NDLS",
		DestinationStation: "BCT",
		TrainNumber:        "12951",
		ClassType:          "AC2",
		TotalPassengers:    1,
		TotalFare:          1070,
		BookingChannel:     models.ChannelOnline,
	}
	passengers := []models.Passenger{{
		PassengerID: pid,
		Name:        "Asha Verma",
		Phone:       "+919812345678",
	}}
	passengerTickets := []models.PassengerTicket{{
		PassengerID:        pid,
		IsPrimaryPassenger: true,
	}}
	payment := &models.Payment{
		PaymentID:     uuid.New(),
		Amount:        1070,
		PaymentMode:   models.PaymentOnline,
		TransactionID: "TXN1700000000000",
		PaymentStatus: models.PaymentSuccess,
		GSTAmount:     50,
		ServiceCharge: 20,
	}
	return ticket, passengers, passengerTickets, payment
}

func TestNewPNRCandidate(t *testing.T) {
	for i := 0; i < 20; i++ {
		pnr := newPNRCandidate()
		assert.Len(t, pnr, 10)
		for _, r := range pnr {
			assert.True(t, r >= '0' && r <= '9', "PNR must be all digits, got %q", pnr)
		}
	}
}

func TestCreateBooking(t *testing.T) {
	now := time.Now()

	t.Run("Success Confirmed", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "booking_timestamp"}).
				AddRow(now, now))
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_timestamp"}).AddRow(now))
		mock.ExpectCommit()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.NoError(t, err)
		assert.Equal(t, models.BookingConfirmed, ticket.BookingStatus)
		assert.Len(t, ticket.PNRNumber, 10)
		assert.Equal(t, ticket.PNRNumber, pts[0].PNRNumber)
		assert.Equal(t, models.BookingConfirmed, pts[0].ReservationStatus)
		assert.Equal(t, ticket.PNRNumber, payment.PNRNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Waitlist Fallback", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		// Not enough seats: the conditional decrement matches no rows.
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "booking_timestamp"}).
				AddRow(now, now))
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_timestamp"}).AddRow(now))
		mock.ExpectCommit()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.NoError(t, err)
		assert.Equal(t, models.BookingWaiting, ticket.BookingStatus)
		assert.Equal(t, models.BookingWaiting, pts[0].ReservationStatus)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Train Class", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		// No inventory row to waitlist against either: the class does not exist.
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PNR Retry On Collision", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// First candidate collides, second is free.
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "booking_timestamp"}).
				AddRow(now, now))
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_timestamp"}).AddRow(now))
		mock.ExpectCommit()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Decrement Is Conditional", func(t *testing.T) {
		// The decrement-if-enough UPDATE is the serialization point that
		// prevents overbooking; concurrent bookings for the last seat cannot
		// both match available_seats >= n. Real parallel contention needs an
		// integration test against Postgres; here the expectation regex
		// fails the test if the guard ever disappears from the statement.
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`(?s)UPDATE train_status\s+SET available_seats = available_seats - \$1\s+WHERE.*AND available_seats >= \$1`).
			WithArgs(ticket.TotalPassengers, ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "booking_timestamp"}).
				AddRow(now, now))
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_timestamp"}).AddRow(now))
		mock.ExpectCommit()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback On Payment Error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)
		ticket, passengers, pts, payment := testBookingFixture()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT COUNT`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WillReturnRows(sqlmock.NewRows([]string{"booking_date", "booking_timestamp"}).
				AddRow(now, now))
		mock.ExpectExec(`INSERT INTO passengers`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		err := repo.CreateBooking(ticket, passengers, pts, payment)
		require.Error(t, err)
		assert.True(t, models.IsTransaction(err))
		assert.Contains(t, err.Error(), "failed to record payment")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func ticketRows(pnr string, status models.BookingStatus, journeyDate time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"pnr_number", "booking_date", "journey_date", "source_station", "destination_station",
		"train_number", "class_type", "total_passengers", "total_fare",
		"booking_status", "booking_timestamp", "booking_channel",
		"cancelled_at", "cancellation_reason",
	}).AddRow(
		pnr, now, journeyDate, "NDLS", "BCT",
		"12951", "AC2", 2, 2140,
		status, now, models.ChannelOnline,
		nil, nil,
	)
}

func TestCancelTicket(t *testing.T) {
	journeyDate, _ := time.Parse("2006-01-02", "2026-10-01")
	fixedPolicy := func(_ *models.Ticket, amountPaid float64) (float64, float64) {
		return 214, amountPaid - 214
	}

	t.Run("Success Confirmed Ticket", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("2600001234").
			WillReturnRows(ticketRows("2600001234", models.BookingConfirmed, journeyDate))
		mock.ExpectQuery(`SELECT amount FROM payments`).
			WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(2140.0))
		mock.ExpectExec(`UPDATE tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		// Confirmed seats go back to inventory.
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE payments`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		resp, err := repo.CancelTicket("2600001234", "change of plans", fixedPolicy)
		require.NoError(t, err)
		assert.Equal(t, "2600001234", resp.PNR)
		assert.Equal(t, 214.0, resp.CancellationCharge)
		assert.Equal(t, 1926.0, resp.RefundAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("2600001234").
			WillReturnRows(ticketRows("2600001234", models.BookingCancelled, journeyDate))
		mock.ExpectRollback()

		resp, err := repo.CancelTicket("2600001234", "", fixedPolicy)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, models.IsInvalidState(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ticket Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("0000000000").
			WillReturnRows(sqlmock.NewRows([]string{"pnr_number"}))
		mock.ExpectRollback()

		resp, err := repo.CancelTicket("0000000000", "", fixedPolicy)
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.True(t, models.IsNotFound(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Waitlisted Ticket Shrinks Waitlist", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("2600005678").
			WillReturnRows(ticketRows("2600005678", models.BookingWaiting, journeyDate))
		mock.ExpectQuery(`SELECT amount FROM payments`).
			WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(2140.0))
		mock.ExpectExec(`UPDATE tickets`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE passenger_tickets`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE train_status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE payments`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		resp, err := repo.CancelTicket("2600005678", "", fixedPolicy)
		require.NoError(t, err)
		assert.Equal(t, 1926.0, resp.RefundAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTicketByPNR(t *testing.T) {
	journeyDate, _ := time.Parse("2006-01-02", "2026-10-01")

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("2600001234").
			WillReturnRows(ticketRows("2600001234", models.BookingConfirmed, journeyDate))

		ticket, err := repo.GetTicketByPNR("2600001234")
		require.NoError(t, err)
		assert.Equal(t, "2600001234", ticket.PNRNumber)
		assert.Equal(t, models.BookingConfirmed, ticket.BookingStatus)
		assert.Equal(t, 2, ticket.TotalPassengers)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBookingRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM tickets`).
			WithArgs("0000000000").
			WillReturnRows(sqlmock.NewRows([]string{"pnr_number"}))

		ticket, err := repo.GetTicketByPNR("0000000000")
		require.Error(t, err)
		assert.Nil(t, ticket)
		assert.True(t, models.IsNotFound(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
