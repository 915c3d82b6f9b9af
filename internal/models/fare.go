package models

// ConcessionCategory is a discount class applied per passenger. The discount
// is a fixed percentage of the basic fare for that passenger.
type ConcessionCategory string

const (
	ConcessionSeniorCitizen ConcessionCategory = "SENIOR_CITIZEN"
	ConcessionStudent       ConcessionCategory = "STUDENT"
	ConcessionMilitary      ConcessionCategory = "MILITARY"
	ConcessionDisabled      ConcessionCategory = "DISABLED"
)

// ConcessionRates maps each category to its discount fraction of basic fare.
var ConcessionRates = map[ConcessionCategory]float64{
	ConcessionSeniorCitizen: 0.40,
	ConcessionStudent:       0.25,
	ConcessionMilitary:      0.20,
	ConcessionDisabled:      0.50,
}

// FareBreakdown itemises a booking's charge. TotalFare is what the payment
// row records: basic fare per passenger plus GST plus service charge minus
// the summed concessions.
type FareBreakdown struct {
	BasicFare        float64 `json:"basic_fare"`
	GSTAmount        float64 `json:"gst_amount"`
	ServiceCharge    float64 `json:"service_charge"`
	ConcessionAmount float64 `json:"concession_amount"`
	TotalFare        float64 `json:"total_fare"`
}
