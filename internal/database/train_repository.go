package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// TrainRepository handles database operations for trains and their classes
type TrainRepository struct {
	db DB
}

// NewTrainRepository creates a new TrainRepository
func NewTrainRepository(db DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// GetTrain retrieves a train by its number
func (r *TrainRepository) GetTrain(trainNumber string) (*models.Train, error) {
	train := &models.Train{}
	err := r.db.Get(train, `
		SELECT train_number, train_name, train_type,
		       runs_on_monday, runs_on_tuesday, runs_on_wednesday, runs_on_thursday,
		       runs_on_friday, runs_on_saturday, runs_on_sunday
		FROM trains
		WHERE train_number = $1`, trainNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "train", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch train: %w", err)
	}
	return train, nil
}

// GetTrainClass retrieves the fare and capacity row for one class of a train
func (r *TrainRepository) GetTrainClass(trainNumber, classType string) (*models.TrainClass, error) {
	class := &models.TrainClass{}
	err := r.db.Get(class, `
		SELECT train_number, class_type, basic_fare, total_seats
		FROM train_classes
		WHERE train_number = $1 AND class_type = $2`, trainNumber, classType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "train class", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch train class: %w", err)
	}
	return class, nil
}

// GetRouteStation retrieves the schedule row for one station on a train's route
func (r *TrainRepository) GetRouteStation(trainNumber, stationCode string) (*models.RouteStation, error) {
	station := &models.RouteStation{}
	err := r.db.Get(station, `
		SELECT rs.route_id, rs.station_code, rs.station_name,
		       rs.arrival_time, rs.departure_time, rs.stop_number
		FROM route_stations rs
		JOIN routes r ON r.route_id = rs.route_id
		WHERE r.train_number = $1 AND rs.station_code = $2`, trainNumber, stationCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "route station", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch route station: %w", err)
	}
	return station, nil
}

// GetSeatStatus retrieves the availability row for a (train, date, class).
// When no bookings have touched the date yet there is no train_status row,
// so availability falls back to the class capacity.
func (r *TrainRepository) GetSeatStatus(trainNumber, journeyDate, classType string) (*models.TrainStatus, error) {
	status := &models.TrainStatus{}
	err := r.db.Get(status, `
		SELECT tc.train_number, $2::date AS journey_date, tc.class_type,
		       COALESCE(ts.available_seats, tc.total_seats) AS available_seats,
		       COALESCE(ts.rac_seats, 0) AS rac_seats,
		       COALESCE(ts.waitlist_count, 0) AS waitlist_count
		FROM train_classes tc
		LEFT JOIN train_status ts
		  ON ts.train_number = tc.train_number
		 AND ts.class_type = tc.class_type
		 AND ts.journey_date = $2
		WHERE tc.train_number = $1 AND tc.class_type = $3`,
		trainNumber, journeyDate, classType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "train class", Err: err}
		}
		return nil, fmt.Errorf("failed to fetch seat status: %w", err)
	}
	return status, nil
}
