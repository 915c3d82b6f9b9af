package models

import (
	"strings"
	"time"
)

// SearchRequest is the train search query.
type SearchRequest struct {
	SourceStation      string `form:"source" json:"source"`
	DestinationStation string `form:"destination" json:"destination"`
	JourneyDate        string `form:"date" json:"date"` // YYYY-MM-DD
	ClassType          string `form:"class" json:"class"`
}

// Validate checks the required search parameters.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.SourceStation) == "" {
		return ValidationError{Field: "source", Msg: "source station is required"}
	}
	if strings.TrimSpace(r.DestinationStation) == "" {
		return ValidationError{Field: "destination", Msg: "destination station is required"}
	}
	if strings.EqualFold(r.SourceStation, r.DestinationStation) {
		return ValidationError{Field: "destination", Msg: "source and destination must differ"}
	}
	if _, err := time.Parse("2006-01-02", r.JourneyDate); err != nil {
		return ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
	}
	return nil
}

// ClassAvailability is one class row inside a search result.
type ClassAvailability struct {
	ClassType      string  `json:"class_type" db:"class_type"`
	BasicFare      float64 `json:"basic_fare" db:"basic_fare"`
	AvailableSeats int     `json:"available_seats" db:"available_seats"`
	RACSeats       int     `json:"rac_seats" db:"rac_seats"`
	WaitlistCount  int     `json:"waitlist_count" db:"waitlist_count"`
}

// TrainSearchResult is one train matching a search. The schedule times come
// from nullable TIME columns, so they stay pointers.
type TrainSearchResult struct {
	TrainNumber   string              `json:"train_number" db:"train_number"`
	TrainName     string              `json:"train_name" db:"train_name"`
	TrainType     string              `json:"train_type" db:"train_type"`
	SourceStation string              `json:"source_station" db:"source_station"`
	DestStation   string              `json:"destination_station" db:"destination_station"`
	DepartureTime *string             `json:"departure_time" db:"departure_time"`
	ArrivalTime   *string             `json:"arrival_time" db:"arrival_time"`
	Duration      string              `json:"duration"`
	DistanceKM    int                 `json:"distance_km" db:"distance_km"`
	TotalStops    int                 `json:"total_stops" db:"total_stops"`
	Classes       []ClassAvailability `json:"classes"`
}

// SearchLog is one row of the search audit trail (search_logs table).
type SearchLog struct {
	ID               int64      `json:"id" db:"id"`
	SourceInput      string     `json:"source_input" db:"source_input"`
	DestinationInput string     `json:"destination_input" db:"destination_input"`
	JourneyDate      *time.Time `json:"journey_date" db:"journey_date"`
	ClassType        *string    `json:"class_type" db:"class_type"`
	ResultsCount     int        `json:"results_count" db:"results_count"`
	ResponseTimeMS   int        `json:"response_time_ms" db:"response_time_ms"`
	DeviceType       *string    `json:"device_type" db:"device_type"`
	IPAddress        *string    `json:"ip_address" db:"ip_address"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// PopularRoute is one aggregated row of the popular-routes report.
type PopularRoute struct {
	SourceStation      string `json:"source_station" db:"source_station"`
	DestinationStation string `json:"destination_station" db:"destination_station"`
	SearchCount        int    `json:"search_count" db:"search_count"`
}

// StationSuggestion is one autocomplete match.
type StationSuggestion struct {
	StationCode string `json:"station_code" db:"station_code"`
	StationName string `json:"station_name" db:"station_name"`
}
