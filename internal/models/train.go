package models

import "time"

// Train represents a row of the trains reference table. Reference data is
// never mutated by booking or cancellation.
type Train struct {
	TrainNumber     string `json:"train_number" db:"train_number"`
	TrainName       string `json:"train_name" db:"train_name"`
	TrainType       string `json:"train_type" db:"train_type"`
	RunsOnMonday    bool   `json:"runs_on_monday" db:"runs_on_monday"`
	RunsOnTuesday   bool   `json:"runs_on_tuesday" db:"runs_on_tuesday"`
	RunsOnWednesday bool   `json:"runs_on_wednesday" db:"runs_on_wednesday"`
	RunsOnThursday  bool   `json:"runs_on_thursday" db:"runs_on_thursday"`
	RunsOnFriday    bool   `json:"runs_on_friday" db:"runs_on_friday"`
	RunsOnSaturday  bool   `json:"runs_on_saturday" db:"runs_on_saturday"`
	RunsOnSunday    bool   `json:"runs_on_sunday" db:"runs_on_sunday"`
}

// RunsOn reports whether the train operates on the given weekday.
func (t *Train) RunsOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return t.RunsOnMonday
	case time.Tuesday:
		return t.RunsOnTuesday
	case time.Wednesday:
		return t.RunsOnWednesday
	case time.Thursday:
		return t.RunsOnThursday
	case time.Friday:
		return t.RunsOnFriday
	case time.Saturday:
		return t.RunsOnSaturday
	default:
		return t.RunsOnSunday
	}
}

// TrainClass holds the tabulated per-seat fare and capacity for one
// fare/service tier of a train (e.g. AC1, SL).
type TrainClass struct {
	TrainNumber string  `json:"train_number" db:"train_number"`
	ClassType   string  `json:"class_type" db:"class_type"`
	BasicFare   float64 `json:"basic_fare" db:"basic_fare"`
	TotalSeats  int     `json:"total_seats" db:"total_seats"`
}

// TrainStatus is the per (train, journey date, class) seat inventory row.
// The only shared mutable state; writers serialize on it inside booking and
// cancellation transactions.
type TrainStatus struct {
	TrainNumber    string    `json:"train_number" db:"train_number"`
	JourneyDate    time.Time `json:"journey_date" db:"journey_date"`
	ClassType      string    `json:"class_type" db:"class_type"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	RACSeats       int       `json:"rac_seats" db:"rac_seats"`
	WaitlistCount  int       `json:"waitlist_count" db:"waitlist_count"`
}

// RouteStation is one scheduled stop of a train's route.
type RouteStation struct {
	RouteID       int     `json:"route_id" db:"route_id"`
	StationCode   string  `json:"station_code" db:"station_code"`
	StationName   string  `json:"station_name" db:"station_name"`
	ArrivalTime   *string `json:"arrival_time" db:"arrival_time"`
	DepartureTime *string `json:"departure_time" db:"departure_time"`
	StopNumber    int     `json:"stop_number" db:"stop_number"`
}
