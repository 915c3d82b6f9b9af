package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validBookingRequest() CreateBookingRequest {
	return CreateBookingRequest{
		Passengers: []PassengerDetails{
			{Name: "Asha Verma", Phone: "+919812345678"},
		},
		TrainNumber:        "12951",
		SourceStation:      "NDLS",
		DestinationStation: "BCT",
		JourneyDate:        "2026-10-01",
		ClassType:          "AC2",
		PaymentMode:        PaymentOnline,
	}
}

func TestCreateBookingRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := validBookingRequest()
		assert.NoError(t, req.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*CreateBookingRequest)
		wantMsg string
	}{
		{
			name:    "No Passengers",
			mutate:  func(r *CreateBookingRequest) { r.Passengers = nil },
			wantMsg: "at least one passenger is required",
		},
		{
			name:    "Blank Name",
			mutate:  func(r *CreateBookingRequest) { r.Passengers[0].Name = "  " },
			wantMsg: "name is required",
		},
		{
			name:    "Missing Phone",
			mutate:  func(r *CreateBookingRequest) { r.Passengers[0].Phone = "" },
			wantMsg: "phone is required",
		},
		{
			name: "Bad Date Of Birth",
			mutate: func(r *CreateBookingRequest) {
				dob := "15-05-1960"
				r.Passengers[0].DateOfBirth = &dob
			},
			wantMsg: "must be YYYY-MM-DD",
		},
		{
			name:    "Missing Train",
			mutate:  func(r *CreateBookingRequest) { r.TrainNumber = "" },
			wantMsg: "train number is required",
		},
		{
			name:    "Same Stations",
			mutate:  func(r *CreateBookingRequest) { r.DestinationStation = "ndls" },
			wantMsg: "source and destination must differ",
		},
		{
			name:    "Bad Journey Date",
			mutate:  func(r *CreateBookingRequest) { r.JourneyDate = "01/10/2026" },
			wantMsg: "must be YYYY-MM-DD",
		},
		{
			name:    "Bad Payment Mode",
			mutate:  func(r *CreateBookingRequest) { r.PaymentMode = "Card" },
			wantMsg: "must be Online, Offline or Counter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBookingRequest()
			tt.mutate(&req)

			err := req.Validate()
			assert.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestChannel(t *testing.T) {
	req := validBookingRequest()
	assert.Equal(t, ChannelOnline, req.Channel())

	req.PaymentMode = PaymentCounter
	assert.Equal(t, ChannelCounter, req.Channel())

	req.PaymentMode = PaymentOffline
	assert.Equal(t, ChannelCounter, req.Channel())
}

func TestSearchRequestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := SearchRequest{
			SourceStation:      "NDLS",
			DestinationStation: "BCT",
			JourneyDate:        "2026-10-01",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Missing Source", func(t *testing.T) {
		req := SearchRequest{DestinationStation: "BCT", JourneyDate: "2026-10-01"}
		err := req.Validate()
		assert.True(t, IsValidation(err))
	})

	t.Run("Same Stations", func(t *testing.T) {
		req := SearchRequest{SourceStation: "NDLS", DestinationStation: "NDLS", JourneyDate: "2026-10-01"}
		err := req.Validate()
		assert.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("Bad Date", func(t *testing.T) {
		req := SearchRequest{SourceStation: "NDLS", DestinationStation: "BCT", JourneyDate: "tomorrow"}
		err := req.Validate()
		assert.True(t, IsValidation(err))
	})
}
