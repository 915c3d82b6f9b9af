package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/swiftrail/train-reservation-backend/internal/database"
	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// BookingService handles business logic for ticket booking
type BookingService struct {
	bookingRepo *database.BookingRepository
	trainRepo   *database.TrainRepository
	fareService *FareService
	logger      *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo *database.BookingRepository,
	trainRepo *database.TrainRepository,
	fareService *FareService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		trainRepo:   trainRepo,
		fareService: fareService,
		logger:      logger,
	}
}

// BookTicket books a journey for a party of passengers. The whole party is
// confirmed or the whole party is waitlisted; the repository decides inside
// the booking transaction.
func (s *BookingService) BookTicket(req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	journeyDate, _ := time.Parse("2006-01-02", req.JourneyDate)
	if journeyDate.Before(today()) {
		return nil, models.ValidationError{Field: "journey_date", Msg: "journey date cannot be in the past"}
	}

	class, err := s.trainRepo.GetTrainClass(req.TrainNumber, req.ClassType)
	if err != nil {
		return nil, err
	}

	// The train must run on the journey weekday.
	train, err := s.trainRepo.GetTrain(req.TrainNumber)
	if err != nil {
		return nil, err
	}
	if !train.RunsOn(journeyDate.Weekday()) {
		return nil, models.ValidationError{Field: "journey_date", Msg: "train does not run on the selected date"}
	}

	// Both stations must be on the train's route, in travel order.
	source, err := s.trainRepo.GetRouteStation(req.TrainNumber, req.SourceStation)
	if err != nil {
		return nil, err
	}
	destination, err := s.trainRepo.GetRouteStation(req.TrainNumber, req.DestinationStation)
	if err != nil {
		return nil, err
	}
	if source.StopNumber >= destination.StopNumber {
		return nil, models.ValidationError{Field: "destination_station", Msg: "destination must come after source on the route"}
	}

	fare, concessions, err := s.fareService.Calculate(class.BasicFare, req.Passengers, journeyDate)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		JourneyDate:        journeyDate,
		SourceStation:      source.StationCode,
		DestinationStation: destination.StationCode,
		TrainNumber:        req.TrainNumber,
		ClassType:          req.ClassType,
		TotalPassengers:    len(req.Passengers),
		TotalFare:          fare.TotalFare,
		BookingChannel:     req.Channel(),
	}

	passengers := make([]models.Passenger, len(req.Passengers))
	passengerTickets := make([]models.PassengerTicket, len(req.Passengers))
	for i, pd := range req.Passengers {
		var dob *time.Time
		if pd.DateOfBirth != nil && *pd.DateOfBirth != "" {
			d, _ := time.Parse("2006-01-02", *pd.DateOfBirth)
			dob = &d
		}
		passengers[i] = models.Passenger{
			PassengerID:   uuid.New(),
			Name:          pd.Name,
			Email:         pd.Email,
			Phone:         pd.Phone,
			Address:       pd.Address,
			DateOfBirth:   dob,
			Gender:        pd.Gender,
			IDProofType:   pd.IDProofType,
			IDProofNumber: pd.IDProofNumber,
			IsRegistered:  pd.IsRegistered,
		}
		passengerTickets[i] = models.PassengerTicket{
			PassengerID:        passengers[i].PassengerID,
			IsPrimaryPassenger: i == 0,
			ConcessionCategory: pd.ConcessionCategory,
			ConcessionAmount:   concessions[i],
		}
	}

	payment := &models.Payment{
		PaymentID:     uuid.New(),
		Amount:        fare.TotalFare,
		PaymentMode:   req.PaymentMode,
		TransactionID: fmt.Sprintf("TXN%d", time.Now().UnixMilli()),
		PaymentStatus: models.PaymentSuccess,
		GSTAmount:     fare.GSTAmount,
		ServiceCharge: fare.ServiceCharge,
	}

	if err := s.bookingRepo.CreateBooking(ticket, passengers, passengerTickets, payment); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"train_number": req.TrainNumber,
			"journey_date": req.JourneyDate,
			"class_type":   req.ClassType,
		}).Error("Failed to create booking")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"pnr":          ticket.PNRNumber,
		"status":       ticket.BookingStatus,
		"train_number": ticket.TrainNumber,
		"passengers":   ticket.TotalPassengers,
		"total_fare":   ticket.TotalFare,
	}).Info("Booking created")

	message := "Booking confirmed"
	if ticket.BookingStatus == models.BookingWaiting {
		message = "No confirmed seats available; booking placed on waitlist"
	}

	return &models.BookingResponse{
		PNR:       ticket.PNRNumber,
		Status:    ticket.BookingStatus,
		TotalFare: fare.TotalFare,
		Fare:      fare,
		Message:   message,
	}, nil
}

// GetBookingDetails returns the full view of a booking by PNR
func (s *BookingService) GetBookingDetails(pnr string) (*models.BookingDetails, error) {
	if pnr == "" {
		return nil, models.ValidationError{Field: "pnr", Msg: "PNR is required"}
	}
	return s.bookingRepo.GetBookingDetails(pnr)
}

// today returns midnight of the current local day.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
