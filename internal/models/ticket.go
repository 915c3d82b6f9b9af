package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle status of a ticket. A ticket is never
// hard-deleted; cancellation is a status transition.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingWaiting   BookingStatus = "WAITING"
	BookingCancelled BookingStatus = "CANCELLED"
)

// BookingChannel records where the booking originated.
type BookingChannel string

const (
	ChannelOnline  BookingChannel = "Online"
	ChannelCounter BookingChannel = "Counter"
)

// PaymentMode is the payment method chosen at booking time.
type PaymentMode string

const (
	PaymentOnline  PaymentMode = "Online"
	PaymentOffline PaymentMode = "Offline"
	PaymentCounter PaymentMode = "Counter"
)

// PaymentStatus tracks a payment row. Amounts are immutable after Success;
// the only later transition is Success -> Refunded on cancellation.
type PaymentStatus string

const (
	PaymentSuccess  PaymentStatus = "Success"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Ticket is one PNR, one journey (tickets table).
type Ticket struct {
	PNRNumber          string         `json:"pnr_number" db:"pnr_number"`
	BookingDate        time.Time      `json:"booking_date" db:"booking_date"`
	JourneyDate        time.Time      `json:"journey_date" db:"journey_date"`
	SourceStation      string         `json:"source_station" db:"source_station"`
	DestinationStation string         `json:"destination_station" db:"destination_station"`
	TrainNumber        string         `json:"train_number" db:"train_number"`
	ClassType          string         `json:"class_type" db:"class_type"`
	TotalPassengers    int            `json:"total_passengers" db:"total_passengers"`
	TotalFare          float64        `json:"total_fare" db:"total_fare"`
	BookingStatus      BookingStatus  `json:"booking_status" db:"booking_status"`
	BookingTimestamp   time.Time      `json:"booking_timestamp" db:"booking_timestamp"`
	BookingChannel     BookingChannel `json:"booking_channel" db:"booking_channel"`
	CancelledAt        *time.Time     `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancellationReason *string        `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
}

// PassengerTicket binds one passenger to one ticket (passenger_tickets
// table). Seat and coach stay NULL until a separate allocation pass assigns
// them.
type PassengerTicket struct {
	PNRNumber          string        `json:"pnr_number" db:"pnr_number"`
	PassengerID        uuid.UUID     `json:"passenger_id" db:"passenger_id"`
	SeatNumber         *string       `json:"seat_number" db:"seat_number"`
	CoachNumber        *string       `json:"coach_number" db:"coach_number"`
	ReservationStatus  BookingStatus `json:"reservation_status" db:"reservation_status"`
	IsPrimaryPassenger bool          `json:"is_primary_passenger" db:"is_primary_passenger"`
	ConcessionCategory *string       `json:"concession_category" db:"concession_category"`
	ConcessionAmount   float64       `json:"concession_amount" db:"concession_amount"`
}

// Payment is the single payment row of a ticket (payments table).
type Payment struct {
	PaymentID        uuid.UUID     `json:"payment_id" db:"payment_id"`
	PNRNumber        string        `json:"pnr_number" db:"pnr_number"`
	Amount           float64       `json:"amount" db:"amount"`
	PaymentMode      PaymentMode   `json:"payment_mode" db:"payment_mode"`
	PaymentTimestamp time.Time     `json:"payment_timestamp" db:"payment_timestamp"`
	TransactionID    string        `json:"transaction_id" db:"transaction_id"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	GSTAmount        float64       `json:"gst_amount" db:"gst_amount"`
	ServiceCharge    float64       `json:"service_charge" db:"service_charge"`
	RefundAmount     *float64      `json:"refund_amount,omitempty" db:"refund_amount"`
	RefundedAt       *time.Time    `json:"refunded_at,omitempty" db:"refunded_at"`
}

// ============================================================================
// REQUESTS / RESPONSES
// ============================================================================

// PassengerDetails carries the identity fields of one passenger in a booking
// request.
type PassengerDetails struct {
	Name               string  `json:"name"`
	Email              *string `json:"email"`
	Phone              string  `json:"phone"`
	Address            *string `json:"address"`
	DateOfBirth        *string `json:"date_of_birth"` // YYYY-MM-DD
	Gender             *string `json:"gender"`
	IDProofType        *string `json:"id_proof_type"`
	IDProofNumber      *string `json:"id_proof_number"`
	IsRegistered       bool    `json:"is_registered"`
	ConcessionCategory *string `json:"concession_category"`
}

// CreateBookingRequest is the bookTicket input.
type CreateBookingRequest struct {
	Passengers         []PassengerDetails `json:"passengers"`
	TrainNumber        string             `json:"train_number"`
	SourceStation      string             `json:"source_station"`
	DestinationStation string             `json:"destination_station"`
	JourneyDate        string             `json:"journey_date"` // YYYY-MM-DD
	ClassType          string             `json:"class_type"`
	PaymentMode        PaymentMode        `json:"payment_mode"`
}

// Validate checks required passenger and journey fields.
func (r *CreateBookingRequest) Validate() error {
	if len(r.Passengers) == 0 {
		return ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	for _, p := range r.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return ValidationError{Field: "passengers.name", Msg: "name is required"}
		}
		if strings.TrimSpace(p.Phone) == "" {
			return ValidationError{Field: "passengers.phone", Msg: "phone is required"}
		}
		if p.DateOfBirth != nil && *p.DateOfBirth != "" {
			if _, err := time.Parse("2006-01-02", *p.DateOfBirth); err != nil {
				return ValidationError{Field: "passengers.date_of_birth", Msg: "must be YYYY-MM-DD"}
			}
		}
	}
	if strings.TrimSpace(r.TrainNumber) == "" {
		return ValidationError{Field: "train_number", Msg: "train number is required"}
	}
	if strings.TrimSpace(r.SourceStation) == "" {
		return ValidationError{Field: "source_station", Msg: "source station is required"}
	}
	if strings.TrimSpace(r.DestinationStation) == "" {
		return ValidationError{Field: "destination_station", Msg: "destination station is required"}
	}
	if strings.EqualFold(r.SourceStation, r.DestinationStation) {
		return ValidationError{Field: "destination_station", Msg: "source and destination must differ"}
	}
	if strings.TrimSpace(r.ClassType) == "" {
		return ValidationError{Field: "class_type", Msg: "class type is required"}
	}
	if _, err := time.Parse("2006-01-02", r.JourneyDate); err != nil {
		return ValidationError{Field: "journey_date", Msg: "must be YYYY-MM-DD"}
	}
	switch r.PaymentMode {
	case PaymentOnline, PaymentOffline, PaymentCounter:
	default:
		return ValidationError{Field: "payment_mode", Msg: "must be Online, Offline or Counter"}
	}
	return nil
}

// Channel derives the booking channel from the payment mode: online payments
// are online bookings, everything else is a counter booking.
func (r *CreateBookingRequest) Channel() BookingChannel {
	if r.PaymentMode == PaymentOnline {
		return ChannelOnline
	}
	return ChannelCounter
}

// BookingResponse is the bookTicket output.
type BookingResponse struct {
	PNR       string        `json:"pnr"`
	Status    BookingStatus `json:"status"`
	TotalFare float64       `json:"total_fare"`
	Fare      FareBreakdown `json:"fare"`
	Message   string        `json:"message"`
}

// BookedPassenger is one passenger line in the booking details view.
type BookedPassenger struct {
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	Gender      *string `json:"gender"`
	SeatNumber  *string `json:"seat_number"`
	CoachNumber *string `json:"coach_number"`
	Status      string  `json:"status"`
}

// BookingDetails is the getBookingDetails output.
type BookingDetails struct {
	PNR                string            `json:"pnr"`
	TrainNumber        string            `json:"train_number"`
	TrainName          string            `json:"train_name"`
	ClassType          string            `json:"class_type"`
	JourneyDate        string            `json:"journey_date"`
	SourceStation      string            `json:"source_station"`
	DestinationStation string            `json:"destination_station"`
	DepartureTime      *string           `json:"departure_time"`
	ArrivalTime        *string           `json:"arrival_time"`
	TotalFare          float64           `json:"total_fare"`
	BookingStatus      BookingStatus     `json:"booking_status"`
	Passengers         []BookedPassenger `json:"passengers"`
	PaymentMode        PaymentMode       `json:"payment_mode"`
	TransactionID      string            `json:"transaction_id"`
	PaymentStatus      PaymentStatus     `json:"payment_status"`
}

// CancelTicketRequest is the cancelTicket input.
type CancelTicketRequest struct {
	Reason string `json:"reason"`
}

// CancellationResponse is the cancelTicket output.
type CancellationResponse struct {
	PNR                string  `json:"pnr"`
	CancellationCharge float64 `json:"cancellation_charge"`
	RefundAmount       float64 `json:"refund_amount"`
	Message            string  `json:"message"`
}

// RevenueDetail is the single-row reporting breakdown for one PNR.
type RevenueDetail struct {
	PNRNumber          string        `json:"pnr_number" db:"pnr_number"`
	BookingDate        time.Time     `json:"booking_date" db:"booking_date"`
	JourneyDate        time.Time     `json:"journey_date" db:"journey_date"`
	TrainNumber        string        `json:"train_number" db:"train_number"`
	TrainName          string        `json:"train_name" db:"train_name"`
	SourceStation      string        `json:"source_station" db:"source_station"`
	DestinationStation string        `json:"destination_station" db:"destination_station"`
	ClassType          string        `json:"class_type" db:"class_type"`
	TotalPassengers    int           `json:"total_passengers" db:"total_passengers"`
	BasicFare          float64       `json:"basic_fare" db:"basic_fare"`
	GSTAmount          float64       `json:"gst_amount" db:"gst_amount"`
	ServiceCharge      float64       `json:"service_charge" db:"service_charge"`
	ConcessionAmount   float64       `json:"concession_amount" db:"concession_amount"`
	TotalFare          float64       `json:"total_fare" db:"total_fare"`
	PaymentMode        PaymentMode   `json:"payment_mode" db:"payment_mode"`
	TransactionID      string        `json:"transaction_id" db:"transaction_id"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentTimestamp   time.Time     `json:"payment_timestamp" db:"payment_timestamp"`
	PrimaryPassenger   string        `json:"primary_passenger" db:"primary_passenger"`
}
