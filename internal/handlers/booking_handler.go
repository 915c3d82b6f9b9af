package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftrail/train-reservation-backend/internal/models"
	"github.com/swiftrail/train-reservation-backend/internal/services"
	"github.com/swiftrail/train-reservation-backend/pkg/pdf"
)

// BookingHandler handles ticket booking operations
type BookingHandler struct {
	bookingService      *services.BookingService
	cancellationService *services.CancellationService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	cancellationService *services.CancellationService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		cancellationService: cancellationService,
	}
}

// CreateBooking books a journey for one or more passengers
// @Summary Book a train ticket
// @Description Book a journey for a party of passengers; the whole party is confirmed or waitlisted together
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.BookingResponse "Booking created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Train or station not found"
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.bookingService.BookTicket(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetBooking returns the full booking view for a PNR
// @Summary Get booking details
// @Tags Bookings
// @Produce json
// @Param pnr path string true "PNR number"
// @Success 200 {object} models.BookingDetails
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /api/v1/bookings/{pnr} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	details, err := h.bookingService.GetBookingDetails(c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// GetETicket returns the booking as a downloadable PDF e-ticket
// @Summary Download the e-ticket PDF
// @Tags Bookings
// @Produce application/pdf
// @Param pnr path string true "PNR number"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /api/v1/bookings/{pnr}/ticket [get]
func (h *BookingHandler) GetETicket(c *gin.Context) {
	details, err := h.bookingService.GetBookingDetails(c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}

	if details.BookingStatus == models.BookingCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot issue an e-ticket for a cancelled booking"})
		return
	}

	data, filename, err := pdf.BuildETicket(details)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// CancelBooking cancels a booking by PNR
// @Summary Cancel a booking
// @Description Cancel a ticket and refund the payment minus the cancellation charge
// @Tags Bookings
// @Accept json
// @Produce json
// @Param pnr path string true "PNR number"
// @Param request body models.CancelTicketRequest false "Cancellation reason"
// @Success 200 {object} models.CancellationResponse
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Already cancelled"
// @Router /api/v1/bookings/{pnr}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req models.CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.cancellationService.Cancel(c.Param("pnr"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
