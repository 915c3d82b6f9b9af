package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/swiftrail/train-reservation-backend/internal/models"
)

// BuildETicket renders a booking as a printable A4 e-ticket and returns the
// PDF bytes together with a download filename.
func BuildETicket(details *models.BookingDetails) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("PNR            : %s", details.PNR),
		fmt.Sprintf("Train          : %s - %s", details.TrainNumber, safe(details.TrainName, "-")),
		fmt.Sprintf("Class          : %s", details.ClassType),
		fmt.Sprintf("Journey Date   : %s", details.JourneyDate),
		fmt.Sprintf("From           : %s (dep %s)", details.SourceStation, timeHM(details.DepartureTime)),
		fmt.Sprintf("To             : %s (arr %s)", details.DestinationStation, timeHM(details.ArrivalTime)),
		fmt.Sprintf("Status         : %s", details.BookingStatus),
		fmt.Sprintf("Total Fare     : %.2f", details.TotalFare),
		fmt.Sprintf("Payment        : %s (%s)", details.PaymentMode, details.TransactionID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range details.Passengers {
		seat := "-"
		if p.SeatNumber != nil && p.CoachNumber != nil {
			seat = fmt.Sprintf("%s/%s", *p.CoachNumber, *p.SeatNumber)
		}
		pdf.Cell(0, 6, fmt.Sprintf("%d) %s  Seat: %s  Status: %s", i+1, p.Name, seat, p.Status))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID for every passenger. This e-ticket together with the ID is required during the journey.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", details.PNR)
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func timeHM(v *string) string {
	if v == nil {
		return "-"
	}
	s := strings.TrimSpace(*v)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
