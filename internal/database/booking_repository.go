package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// CancellationPolicy computes the cancellation charge and refund amount for
// a ticket given the amount originally paid.
type CancellationPolicy func(ticket *models.Ticket, amountPaid float64) (charge, refund float64)

// BookingRepository handles ticket booking database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ============================================================================
// PNR GENERATION
// ============================================================================

// newPNRCandidate builds a 10 digit PNR: the last 6 digits of the current
// unix millisecond clock followed by 4 random digits.
func newPNRCandidate() string {
	millis := time.Now().UnixMilli()
	return fmt.Sprintf("%06d%04d", millis%1000000, rand.Intn(10000))
}

// generatePNR generates a PNR that is unique in the tickets table, checked
// inside the booking transaction so a concurrent insert cannot race it past
// the primary key.
func generatePNR(tx *sqlx.Tx) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		pnr := newPNRCandidate()

		var count int
		err := tx.Get(&count, `SELECT COUNT(*) FROM tickets WHERE pnr_number = $1`, pnr)
		if err != nil {
			return "", fmt.Errorf("failed to check PNR uniqueness: %w", err)
		}

		if count == 0 {
			return pnr, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique PNR after 10 attempts")
}

// ============================================================================
// BOOKING
// ============================================================================

// CreateBooking books a ticket in a single transaction: it reserves seats in
// train_status, assigns a PNR and inserts the ticket, passenger,
// passenger_ticket and payment rows. When not enough seats remain the whole
// party is placed on the waitlist instead; partial confirmation never
// happens.
//
// The caller fills in everything except the PNR and the booking status,
// which are decided here. The returned ticket carries both.
func (r *BookingRepository) CreateBooking(
	ticket *models.Ticket,
	passengers []models.Passenger,
	passengerTickets []models.PassengerTicket,
	payment *models.Payment,
) error {
	if len(passengers) == 0 || len(passengers) != len(passengerTickets) {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("passenger rows do not match ticket rows")}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback()

	// 1. Seed the inventory row for this (train, date, class) from
	// train_classes if it does not exist yet.
	_, err = tx.Exec(`
		INSERT INTO train_status (train_number, journey_date, class_type, available_seats)
		SELECT tc.train_number, $2, tc.class_type, tc.total_seats
		FROM train_classes tc
		WHERE tc.train_number = $1 AND tc.class_type = $3
		ON CONFLICT (train_number, journey_date, class_type) DO NOTHING`,
		ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType)
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to seed seat inventory: %w", err)}
	}

	// 2. Try to take the seats. The conditional update is the serialization
	// point: two concurrent bookings for the last seat cannot both match
	// available_seats >= n.
	res, err := tx.Exec(`
		UPDATE train_status
		SET available_seats = available_seats - $1
		WHERE train_number = $2 AND journey_date = $3 AND class_type = $4
		  AND available_seats >= $1`,
		ticket.TotalPassengers, ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType)
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to reserve seats: %w", err)}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: err}
	}

	status := models.BookingConfirmed
	if rows == 0 {
		status = models.BookingWaiting
		res, err = tx.Exec(`
			UPDATE train_status
			SET waitlist_count = waitlist_count + $1
			WHERE train_number = $2 AND journey_date = $3 AND class_type = $4`,
			ticket.TotalPassengers, ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType)
		if err != nil {
			return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to join waitlist: %w", err)}
		}
		if rows, err = res.RowsAffected(); err != nil {
			return models.TransactionError{Op: "create booking", Err: err}
		}
		if rows == 0 {
			return models.NotFoundError{Resource: "train class", Err: sql.ErrNoRows}
		}
	}
	ticket.BookingStatus = status

	// 3. Assign the PNR.
	pnr, err := generatePNR(tx)
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: err}
	}
	ticket.PNRNumber = pnr

	// 4. Insert the ticket.
	err = tx.QueryRowx(`
		INSERT INTO tickets (
			pnr_number, journey_date, source_station, destination_station,
			train_number, class_type, total_passengers, total_fare,
			booking_status, booking_channel
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING booking_date, booking_timestamp`,
		ticket.PNRNumber, ticket.JourneyDate, ticket.SourceStation, ticket.DestinationStation,
		ticket.TrainNumber, ticket.ClassType, ticket.TotalPassengers, ticket.TotalFare,
		ticket.BookingStatus, ticket.BookingChannel,
	).Scan(&ticket.BookingDate, &ticket.BookingTimestamp)
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to create ticket: %w", err)}
	}

	// 5. Insert passengers and their ticket links.
	for i := range passengers {
		p := &passengers[i]
		_, err = tx.Exec(`
			INSERT INTO passengers (
				passenger_id, name, email, phone, address, date_of_birth,
				gender, id_proof_type, id_proof_number, is_registered
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.PassengerID, p.Name, p.Email, p.Phone, p.Address, p.DateOfBirth,
			p.Gender, p.IDProofType, p.IDProofNumber, p.IsRegistered)
		if err != nil {
			return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to create passenger %s: %w", p.Name, err)}
		}

		pt := &passengerTickets[i]
		pt.PNRNumber = pnr
		pt.ReservationStatus = status
		_, err = tx.Exec(`
			INSERT INTO passenger_tickets (
				pnr_number, passenger_id, seat_number, coach_number,
				reservation_status, is_primary_passenger,
				concession_category, concession_amount
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			pt.PNRNumber, pt.PassengerID, pt.SeatNumber, pt.CoachNumber,
			pt.ReservationStatus, pt.IsPrimaryPassenger,
			pt.ConcessionCategory, pt.ConcessionAmount)
		if err != nil {
			return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to link passenger %s: %w", p.Name, err)}
		}
	}

	// 6. Record the payment.
	payment.PNRNumber = pnr
	err = tx.QueryRowx(`
		INSERT INTO payments (
			payment_id, pnr_number, amount, payment_mode, transaction_id,
			payment_status, gst_amount, service_charge
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING payment_timestamp`,
		payment.PaymentID, payment.PNRNumber, payment.Amount, payment.PaymentMode,
		payment.TransactionID, payment.PaymentStatus, payment.GSTAmount, payment.ServiceCharge,
	).Scan(&payment.PaymentTimestamp)
	if err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to record payment: %w", err)}
	}

	if err = tx.Commit(); err != nil {
		return models.TransactionError{Op: "create booking", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	return nil
}

// ============================================================================
// LOOKUP
// ============================================================================

// GetTicketByPNR retrieves a ticket by PNR
func (r *BookingRepository) GetTicketByPNR(pnr string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := r.db.Get(ticket, `
		SELECT pnr_number, booking_date, journey_date, source_station, destination_station,
		       train_number, class_type, total_passengers, total_fare,
		       booking_status, booking_timestamp, booking_channel,
		       cancelled_at, cancellation_reason
		FROM tickets
		WHERE pnr_number = $1`, pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "ticket", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch ticket: %w", err)
	}
	return ticket, nil
}

// GetBookingDetails retrieves the full booking view for a PNR: the ticket,
// its train and schedule, all passengers, and the payment.
func (r *BookingRepository) GetBookingDetails(pnr string) (*models.BookingDetails, error) {
	var row struct {
		models.Ticket
		TrainName     string               `db:"train_name"`
		DepartureTime *string              `db:"departure_time"`
		ArrivalTime   *string              `db:"arrival_time"`
		PaymentMode   models.PaymentMode   `db:"payment_mode"`
		TransactionID string               `db:"transaction_id"`
		PaymentStatus models.PaymentStatus `db:"payment_status"`
	}

	err := r.db.Get(&row, `
		SELECT t.pnr_number, t.booking_date, t.journey_date, t.source_station,
		       t.destination_station, t.train_number, t.class_type,
		       t.total_passengers, t.total_fare, t.booking_status,
		       t.booking_timestamp, t.booking_channel, t.cancelled_at, t.cancellation_reason,
		       tr.train_name,
		       rs1.departure_time, rs2.arrival_time,
		       p.payment_mode, p.transaction_id, p.payment_status
		FROM tickets t
		JOIN trains tr ON tr.train_number = t.train_number
		JOIN payments p ON p.pnr_number = t.pnr_number
		JOIN routes r ON r.train_number = t.train_number
		LEFT JOIN route_stations rs1 ON rs1.route_id = r.route_id AND rs1.station_code = t.source_station
		LEFT JOIN route_stations rs2 ON rs2.route_id = r.route_id AND rs2.station_code = t.destination_station
		WHERE t.pnr_number = $1`, pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "booking", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT p.name, p.date_of_birth, p.gender,
		       pt.seat_number, pt.coach_number, pt.reservation_status
		FROM passenger_tickets pt
		JOIN passengers p ON p.passenger_id = pt.passenger_id
		WHERE pt.pnr_number = $1
		ORDER BY pt.is_primary_passenger DESC, p.name`, pnr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch passengers: %w", err)
	}
	defer rows.Close()

	var passengers []models.BookedPassenger
	for rows.Next() {
		var (
			bp  models.BookedPassenger
			dob sql.NullTime
		)
		if err := rows.Scan(&bp.Name, &dob, &bp.Gender, &bp.SeatNumber, &bp.CoachNumber, &bp.Status); err != nil {
			return nil, fmt.Errorf("failed to scan passenger: %w", err)
		}
		if dob.Valid {
			p := models.Passenger{DateOfBirth: &dob.Time}
			bp.Age = p.Age(row.Ticket.JourneyDate)
		}
		passengers = append(passengers, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passengers: %w", err)
	}

	return &models.BookingDetails{
		PNR:                row.Ticket.PNRNumber,
		TrainNumber:        row.Ticket.TrainNumber,
		TrainName:          row.TrainName,
		ClassType:          row.Ticket.ClassType,
		JourneyDate:        row.Ticket.JourneyDate.Format("2006-01-02"),
		SourceStation:      row.Ticket.SourceStation,
		DestinationStation: row.Ticket.DestinationStation,
		DepartureTime:      row.DepartureTime,
		ArrivalTime:        row.ArrivalTime,
		TotalFare:          row.Ticket.TotalFare,
		BookingStatus:      row.Ticket.BookingStatus,
		Passengers:         passengers,
		PaymentMode:        row.PaymentMode,
		TransactionID:      row.TransactionID,
		PaymentStatus:      row.PaymentStatus,
	}, nil
}

// ============================================================================
// CANCELLATION
// ============================================================================

// CancelTicket cancels a booking in a single transaction: it locks the
// ticket row, applies the cancellation policy, flips the ticket and
// passenger rows to CANCELLED, returns the seats to inventory (or shrinks
// the waitlist) and marks the payment refunded.
func (r *BookingRepository) CancelTicket(pnr, reason string, policy CancellationPolicy) (*models.CancellationResponse, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback()

	ticket := &models.Ticket{}
	err = tx.Get(ticket, `
		SELECT pnr_number, booking_date, journey_date, source_station, destination_station,
		       train_number, class_type, total_passengers, total_fare,
		       booking_status, booking_timestamp, booking_channel,
		       cancelled_at, cancellation_reason
		FROM tickets
		WHERE pnr_number = $1
		FOR UPDATE`, pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "ticket", Err: err}
		}
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to fetch ticket: %w", err)}
	}

	if ticket.BookingStatus == models.BookingCancelled {
		return nil, models.InvalidStateError{Resource: "ticket", Msg: "ticket is already cancelled"}
	}

	var amountPaid float64
	err = tx.Get(&amountPaid, `
		SELECT amount FROM payments
		WHERE pnr_number = $1 AND payment_status = $2`, pnr, models.PaymentSuccess)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.InvalidStateError{Resource: "payment", Msg: "no refundable payment for ticket"}
		}
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to fetch payment: %w", err)}
	}

	charge, refund := policy(ticket, amountPaid)

	_, err = tx.Exec(`
		UPDATE tickets
		SET booking_status = $2, cancelled_at = NOW(), cancellation_reason = $3
		WHERE pnr_number = $1`,
		pnr, models.BookingCancelled, reason)
	if err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to update ticket: %w", err)}
	}

	_, err = tx.Exec(`
		UPDATE passenger_tickets
		SET reservation_status = $2
		WHERE pnr_number = $1`,
		pnr, models.BookingCancelled)
	if err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to update passenger tickets: %w", err)}
	}

	// Seats only return to inventory for confirmed tickets; a waitlisted
	// party never held any.
	if ticket.BookingStatus == models.BookingConfirmed {
		_, err = tx.Exec(`
			UPDATE train_status
			SET available_seats = available_seats + $1
			WHERE train_number = $2 AND journey_date = $3 AND class_type = $4`,
			ticket.TotalPassengers, ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType)
	} else {
		_, err = tx.Exec(`
			UPDATE train_status
			SET waitlist_count = GREATEST(waitlist_count - $1, 0)
			WHERE train_number = $2 AND journey_date = $3 AND class_type = $4`,
			ticket.TotalPassengers, ticket.TrainNumber, ticket.JourneyDate, ticket.ClassType)
	}
	if err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to release seats: %w", err)}
	}

	_, err = tx.Exec(`
		UPDATE payments
		SET payment_status = $2, refund_amount = $3, refunded_at = NOW()
		WHERE pnr_number = $1 AND payment_status = $4`,
		pnr, models.PaymentRefunded, refund, models.PaymentSuccess)
	if err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to refund payment: %w", err)}
	}

	if err = tx.Commit(); err != nil {
		return nil, models.TransactionError{Op: "cancel ticket", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	return &models.CancellationResponse{
		PNR:                pnr,
		CancellationCharge: charge,
		RefundAmount:       refund,
		Message:            "Ticket cancelled successfully",
	}, nil
}
