package services

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swiftrail/train-reservation-backend/internal/database"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// Cancellation charge as a fraction of the amount paid, by hours remaining
// before departure.
const (
	chargeRateEarly    = 0.10 // 72h or more
	chargeRateStandard = 0.25 // 24h to 72h
	chargeRateLate     = 0.50 // 4h to 24h
	chargeRateLastMin  = 0.75 // under 4h, or already departed
)

// CancellationService handles business logic for ticket cancellation
type CancellationService struct {
	bookingRepo *database.BookingRepository
	trainRepo   *database.TrainRepository
	logger      *logrus.Logger
	now         func() time.Time
}

// NewCancellationService creates a new cancellation service
func NewCancellationService(
	bookingRepo *database.BookingRepository,
	trainRepo *database.TrainRepository,
	logger *logrus.Logger,
) *CancellationService {
	return &CancellationService{
		bookingRepo: bookingRepo,
		trainRepo:   trainRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Cancel cancels a booking by PNR, computing the cancellation charge from
// the time remaining until departure. The refund never goes negative.
func (s *CancellationService) Cancel(pnr, reason string) (*models.CancellationResponse, error) {
	if pnr == "" {
		return nil, models.ValidationError{Field: "pnr", Msg: "PNR is required"}
	}

	resp, err := s.bookingRepo.CancelTicket(pnr, reason, s.computeCharge)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":    pnr,
		"charge": resp.CancellationCharge,
		"refund": resp.RefundAmount,
	}).Info("Ticket cancelled")

	return resp, nil
}

// computeCharge applies the tiered cancellation policy to a ticket.
func (s *CancellationService) computeCharge(ticket *models.Ticket, amountPaid float64) (float64, float64) {
	hoursLeft := s.hoursToDeparture(ticket)

	var rate float64
	switch {
	case hoursLeft >= 72:
		rate = chargeRateEarly
	case hoursLeft >= 24:
		rate = chargeRateStandard
	case hoursLeft >= 4:
		rate = chargeRateLate
	default:
		rate = chargeRateLastMin
	}

	charge := round2(amountPaid * rate)
	refund := round2(amountPaid - charge)
	if refund < 0 {
		refund = 0
	}
	return charge, refund
}

// hoursToDeparture returns the hours between now and the scheduled
// departure from the ticket's source station. When the schedule row is
// missing, midnight of the journey date is used.
func (s *CancellationService) hoursToDeparture(ticket *models.Ticket) float64 {
	departure := ticket.JourneyDate

	station, err := s.trainRepo.GetRouteStation(ticket.TrainNumber, ticket.SourceStation)
	if err == nil && station.DepartureTime != nil {
		if t, perr := time.Parse("15:04:05", *station.DepartureTime); perr == nil {
			departure = time.Date(
				departure.Year(), departure.Month(), departure.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, departure.Location(),
			)
		}
	} else if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"pnr":   ticket.PNRNumber,
			"train": ticket.TrainNumber,
		}).Warn(fmt.Sprintf("No departure time for station %s, using midnight", ticket.SourceStation))
	}

	return math.Floor(departure.Sub(s.now()).Hours()*100) / 100
}
