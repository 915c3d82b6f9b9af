package models

import (
	"time"

	"github.com/google/uuid"
)

// Passenger is an identity record. It is owned independently of any single
// ticket and referenced through passenger_tickets.
type Passenger struct {
	PassengerID   uuid.UUID  `json:"passenger_id" db:"passenger_id"`
	Name          string     `json:"name" db:"name"`
	Email         *string    `json:"email" db:"email"`
	Phone         string     `json:"phone" db:"phone"`
	Address       *string    `json:"address" db:"address"`
	DateOfBirth   *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender        *string    `json:"gender" db:"gender"`
	IDProofType   *string    `json:"id_proof_type" db:"id_proof_type"`
	IDProofNumber *string    `json:"id_proof_number" db:"id_proof_number"`
	IsRegistered  bool       `json:"is_registered" db:"is_registered"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Age returns the passenger's age in whole years at the given date, or 0
// when the date of birth is unknown.
func (p *Passenger) Age(at time.Time) int {
	if p.DateOfBirth == nil {
		return 0
	}
	dob := *p.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
