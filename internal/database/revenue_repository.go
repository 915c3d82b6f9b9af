package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// RevenueRepository handles the per-PNR revenue reporting query
type RevenueRepository struct {
	db DB
}

// NewRevenueRepository creates a new RevenueRepository
func NewRevenueRepository(db DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// GetRevenueByPNR returns the full fare and payment breakdown for one PNR.
// The basic fare is the tabulated per-seat fare times the party size; the
// concession amount is summed over the party.
func (r *RevenueRepository) GetRevenueByPNR(pnr string) (*models.RevenueDetail, error) {
	detail := &models.RevenueDetail{}
	err := r.db.Get(detail, `
		SELECT t.pnr_number, t.booking_date, t.journey_date,
		       t.train_number, tr.train_name,
		       t.source_station, t.destination_station, t.class_type,
		       t.total_passengers,
		       tc.basic_fare * t.total_passengers AS basic_fare,
		       p.gst_amount, p.service_charge,
		       COALESCE(pc.concession_amount, 0) AS concession_amount,
		       t.total_fare,
		       p.payment_mode, p.transaction_id, p.payment_status, p.payment_timestamp,
		       COALESCE(pp.name, '') AS primary_passenger
		FROM tickets t
		JOIN trains tr ON tr.train_number = t.train_number
		JOIN train_classes tc ON tc.train_number = t.train_number AND tc.class_type = t.class_type
		JOIN payments p ON p.pnr_number = t.pnr_number
		LEFT JOIN (
			SELECT pnr_number, SUM(concession_amount) AS concession_amount
			FROM passenger_tickets
			GROUP BY pnr_number
		) pc ON pc.pnr_number = t.pnr_number
		LEFT JOIN (
			SELECT pt.pnr_number, pa.name
			FROM passenger_tickets pt
			JOIN passengers pa ON pa.passenger_id = pt.passenger_id
			WHERE pt.is_primary_passenger
		) pp ON pp.pnr_number = t.pnr_number
		WHERE t.pnr_number = $1`, pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "ticket", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch revenue detail: %w", err)
	}
	return detail, nil
}
