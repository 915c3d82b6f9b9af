package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftrail/train-reservation-backend/internal/config"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestFareService() *FareService {
	return NewFareService(config.FareConfig{GSTRate: 0.05, ServiceChargeRate: 0.02})
}

func TestCalculate(t *testing.T) {
	service := newTestFareService()
	journeyDate, _ := time.Parse("2006-01-02", "2026-10-01")

	t.Run("No Concessions", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{Name: "Asha Verma"},
			{Name: "Rohan Verma"},
		}

		breakdown, concessions, err := service.Calculate(500, passengers, journeyDate)
		require.NoError(t, err)

		assert.Equal(t, 1000.0, breakdown.BasicFare)
		assert.Equal(t, 50.0, breakdown.GSTAmount)
		assert.Equal(t, 20.0, breakdown.ServiceCharge)
		assert.Equal(t, 0.0, breakdown.ConcessionAmount)
		assert.Equal(t, 1070.0, breakdown.TotalFare)
		assert.Equal(t, []float64{0, 0}, concessions)
	})

	t.Run("Student Concession", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{Name: "Asha Verma"},
			{Name: "Rohan Verma", ConcessionCategory: strPtr("STUDENT")},
		}

		breakdown, concessions, err := service.Calculate(500, passengers, journeyDate)
		require.NoError(t, err)

		// 25% of one passenger's basic fare.
		assert.Equal(t, 125.0, breakdown.ConcessionAmount)
		assert.Equal(t, 945.0, breakdown.TotalFare)
		assert.Equal(t, []float64{0, 125}, concessions)
	})

	t.Run("Senior Citizen Qualifies", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{
				Name:               "Kamala Iyer",
				DateOfBirth:        strPtr("1960-05-15"),
				ConcessionCategory: strPtr("SENIOR_CITIZEN"),
			},
		}

		breakdown, concessions, err := service.Calculate(500, passengers, journeyDate)
		require.NoError(t, err)

		assert.Equal(t, 200.0, breakdown.ConcessionAmount)
		assert.Equal(t, []float64{200}, concessions)
		assert.Equal(t, 335.0, breakdown.TotalFare)
	})

	t.Run("Senior Citizen Under Age", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{
				Name:               "Ravi Nair",
				DateOfBirth:        strPtr("1970-01-01"),
				ConcessionCategory: strPtr("SENIOR_CITIZEN"),
			},
		}

		_, _, err := service.Calculate(500, passengers, journeyDate)
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "does not qualify")
	})

	t.Run("Senior Citizen Missing DOB", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{Name: "Ravi Nair", ConcessionCategory: strPtr("SENIOR_CITIZEN")},
		}

		_, _, err := service.Calculate(500, passengers, journeyDate)
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "date of birth is required")
	})

	t.Run("Unknown Category", func(t *testing.T) {
		passengers := []models.PassengerDetails{
			{Name: "Asha Verma", ConcessionCategory: strPtr("FREQUENT_FLYER")},
		}

		_, _, err := service.Calculate(500, passengers, journeyDate)
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Every Known Category", func(t *testing.T) {
		for category, rate := range models.ConcessionRates {
			if category == models.ConcessionSeniorCitizen {
				continue
			}
			passengers := []models.PassengerDetails{
				{Name: "Asha Verma", ConcessionCategory: strPtr(string(category))},
			}

			breakdown, _, err := service.Calculate(400, passengers, journeyDate)
			require.NoError(t, err, "category %s", category)
			assert.Equal(t, 400*rate, breakdown.ConcessionAmount, "category %s", category)
		}
	})

	t.Run("Total Never Negative", func(t *testing.T) {
		service := NewFareService(config.FareConfig{GSTRate: 0, ServiceChargeRate: 0})
		passengers := []models.PassengerDetails{
			{Name: "Meera Pillai", ConcessionCategory: strPtr("DISABLED")},
		}

		// A 50% concession cannot exceed a single passenger's fare, but
		// the clamp still holds at the zero boundary.
		breakdown, _, err := service.Calculate(0, passengers, journeyDate)
		require.NoError(t, err)
		assert.Equal(t, 0.0, breakdown.TotalFare)
	})

	t.Run("Rounding", func(t *testing.T) {
		passengers := []models.PassengerDetails{{Name: "Asha Verma"}}

		breakdown, _, err := service.Calculate(420.40, passengers, journeyDate)
		require.NoError(t, err)

		assert.Equal(t, 420.40, breakdown.BasicFare)
		assert.Equal(t, 21.02, breakdown.GSTAmount)
		assert.Equal(t, 8.41, breakdown.ServiceCharge)
		assert.Equal(t, 449.83, breakdown.TotalFare)
	})
}
