package database

import (
	"fmt"
	"time"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// weekdayColumns maps a weekday to its trains column. The column name is
// interpolated into the search query, so it must come from this map and
// never from caller input.
var weekdayColumns = map[time.Weekday]string{
	time.Monday:    "runs_on_monday",
	time.Tuesday:   "runs_on_tuesday",
	time.Wednesday: "runs_on_wednesday",
	time.Thursday:  "runs_on_thursday",
	time.Friday:    "runs_on_friday",
	time.Saturday:  "runs_on_saturday",
	time.Sunday:    "runs_on_sunday",
}

// SearchRepository handles train search, station autocomplete and the
// search audit log
type SearchRepository struct {
	db DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchTrains finds trains that stop at both stations, in order, on a day
// the train runs. Availability falls back to class capacity when no booking
// has created a train_status row for the date yet.
func (r *SearchRepository) SearchTrains(source, destination string, journeyDate time.Time, classType string) ([]models.TrainSearchResult, error) {
	dayColumn := weekdayColumns[journeyDate.Weekday()]

	query := fmt.Sprintf(`
		SELECT t.train_number, t.train_name, t.train_type,
		       rs1.station_code AS source_station,
		       rs2.station_code AS destination_station,
		       rs1.departure_time, rs2.arrival_time,
		       r.total_distance AS distance_km,
		       r.total_stops AS total_stops,
		       tc.class_type, tc.basic_fare,
		       COALESCE(ts.available_seats, tc.total_seats) AS available_seats,
		       COALESCE(ts.rac_seats, 0) AS rac_seats,
		       COALESCE(ts.waitlist_count, 0) AS waitlist_count
		FROM trains t
		JOIN routes r ON r.train_number = t.train_number
		JOIN route_stations rs1 ON rs1.route_id = r.route_id AND rs1.station_code = $1
		JOIN route_stations rs2 ON rs2.route_id = r.route_id AND rs2.station_code = $2
		JOIN train_classes tc ON tc.train_number = t.train_number
		LEFT JOIN train_status ts
		  ON ts.train_number = t.train_number
		 AND ts.journey_date = $3
		 AND ts.class_type = tc.class_type
		WHERE rs1.stop_number < rs2.stop_number
		  AND t.%s = TRUE
		  AND ($4 = '' OR tc.class_type = $4)
		ORDER BY rs1.departure_time, t.train_number, tc.class_type`, dayColumn)

	rows, err := r.db.Query(query, source, destination, journeyDate, classType)
	if err != nil {
		return nil, fmt.Errorf("failed to search trains: %w", err)
	}
	defer rows.Close()

	// One row per (train, class); fold the class rows into their train.
	var (
		results []models.TrainSearchResult
		current *models.TrainSearchResult
	)
	for rows.Next() {
		var (
			tr models.TrainSearchResult
			ca models.ClassAvailability
		)
		err := rows.Scan(
			&tr.TrainNumber, &tr.TrainName, &tr.TrainType,
			&tr.SourceStation, &tr.DestStation,
			&tr.DepartureTime, &tr.ArrivalTime, &tr.DistanceKM, &tr.TotalStops,
			&ca.ClassType, &ca.BasicFare, &ca.AvailableSeats, &ca.RACSeats, &ca.WaitlistCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}

		if current == nil || current.TrainNumber != tr.TrainNumber {
			tr.Duration = journeyDuration(tr.DepartureTime, tr.ArrivalTime)
			results = append(results, tr)
			current = &results[len(results)-1]
		}
		current.Classes = append(current.Classes, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}

	return results, nil
}

// journeyDuration formats the travel time between two HH:MM:SS schedule
// times, empty when either is missing. An arrival earlier than the departure
// means the train arrives the next day.
func journeyDuration(departure, arrival *string) string {
	if departure == nil || arrival == nil {
		return ""
	}
	dep, err := time.Parse("15:04:05", *departure)
	if err != nil {
		return ""
	}
	arr, err := time.Parse("15:04:05", *arrival)
	if err != nil {
		return ""
	}

	d := arr.Sub(dep)
	if d < 0 {
		d += 24 * time.Hour
	}
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}

// LogSearch records one search in the audit trail
func (r *SearchRepository) LogSearch(log *models.SearchLog) error {
	_, err := r.db.Exec(`
		INSERT INTO search_logs (
			source_input, destination_input, journey_date, class_type,
			results_count, response_time_ms, device_type, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		log.SourceInput, log.DestinationInput, log.JourneyDate, log.ClassType,
		log.ResultsCount, log.ResponseTimeMS, log.DeviceType, log.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// AutocompleteStations suggests stations whose code or name starts with the
// given prefix, case-insensitively
func (r *SearchRepository) AutocompleteStations(prefix string, limit int) ([]models.StationSuggestion, error) {
	var suggestions []models.StationSuggestion
	err := r.db.Select(&suggestions, `
		SELECT DISTINCT station_code, station_name
		FROM route_stations
		WHERE station_code ILIKE $1 || '%' OR station_name ILIKE $1 || '%'
		ORDER BY station_name
		LIMIT $2`, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete stations: %w", err)
	}
	return suggestions, nil
}

// PopularRoutes returns the most searched station pairs over the last number
// of days
func (r *SearchRepository) PopularRoutes(days, limit int) ([]models.PopularRoute, error) {
	var routes []models.PopularRoute
	err := r.db.Select(&routes, `
		SELECT source_input AS source_station,
		       destination_input AS destination_station,
		       COUNT(*) AS search_count
		FROM search_logs
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY source_input, destination_input
		ORDER BY search_count DESC, source_input
		LIMIT $2`, days, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular routes: %w", err)
	}
	return routes, nil
}
