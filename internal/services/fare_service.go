package services

import (
	"math"
	"time"

	"github.com/swiftrail/train-reservation-backend/internal/config"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// Senior citizen concession requires this age at the journey date.
const seniorCitizenMinAge = 60

// FareService computes the total fare for a booking from the tabulated
// per-seat basic fare.
type FareService struct {
	gstRate           float64
	serviceChargeRate float64
}

// NewFareService creates a new fare service
func NewFareService(cfg config.FareConfig) *FareService {
	return &FareService{
		gstRate:           cfg.GSTRate,
		serviceChargeRate: cfg.ServiceChargeRate,
	}
}

// Calculate computes the fare breakdown for a party. It returns the
// breakdown plus the concession amount per passenger, index-aligned with
// the input slice. GST and service charge apply to the full basic fare
// before concessions.
func (s *FareService) Calculate(basicFare float64, passengers []models.PassengerDetails, journeyDate time.Time) (models.FareBreakdown, []float64, error) {
	partyFare := basicFare * float64(len(passengers))

	concessions := make([]float64, len(passengers))
	var totalConcession float64
	for i, p := range passengers {
		if p.ConcessionCategory == nil || *p.ConcessionCategory == "" {
			continue
		}

		category := models.ConcessionCategory(*p.ConcessionCategory)
		rate, ok := models.ConcessionRates[category]
		if !ok {
			return models.FareBreakdown{}, nil, models.ValidationError{
				Field: "passengers.concession_category",
				Msg:   "unknown concession category " + string(category),
			}
		}

		if category == models.ConcessionSeniorCitizen {
			if p.DateOfBirth == nil || *p.DateOfBirth == "" {
				return models.FareBreakdown{}, nil, models.ValidationError{
					Field: "passengers.date_of_birth",
					Msg:   "date of birth is required for senior citizen concession",
				}
			}
			dob, err := time.Parse("2006-01-02", *p.DateOfBirth)
			if err != nil {
				return models.FareBreakdown{}, nil, models.ValidationError{
					Field: "passengers.date_of_birth",
					Msg:   "must be YYYY-MM-DD",
				}
			}
			passenger := models.Passenger{DateOfBirth: &dob}
			if passenger.Age(journeyDate) < seniorCitizenMinAge {
				return models.FareBreakdown{}, nil, models.ValidationError{
					Field: "passengers.concession_category",
					Msg:   "passenger does not qualify for senior citizen concession",
				}
			}
		}

		concessions[i] = round2(basicFare * rate)
		totalConcession += concessions[i]
	}

	gst := round2(partyFare * s.gstRate)
	serviceCharge := round2(partyFare * s.serviceChargeRate)
	total := round2(partyFare + gst + serviceCharge - totalConcession)
	if total < 0 {
		total = 0
	}

	return models.FareBreakdown{
		BasicFare:        round2(partyFare),
		GSTAmount:        gst,
		ServiceCharge:    serviceCharge,
		ConcessionAmount: round2(totalConcession),
		TotalFare:        total,
	}, concessions, nil
}

// round2 rounds to 2 decimal places, matching the NUMERIC(10,2) columns.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
