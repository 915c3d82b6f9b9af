package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swiftrail/train-reservation-backend/internal/models"
	"github.com/swiftrail/train-reservation-backend/internal/services"
)

// SearchHandler handles train search and station autocomplete
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchTrains finds trains between two stations on a date
// @Summary Search trains
// @Tags Search
// @Produce json
// @Param source query string true "Source station code"
// @Param destination query string true "Destination station code"
// @Param date query string true "Journey date (YYYY-MM-DD)"
// @Param class query string false "Class type filter"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Router /api/v1/trains/search [get]
func (h *SearchHandler) SearchTrains(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	results, err := h.searchService.SearchTrains(
		c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"results": results,
	})
}

// AutocompleteStations suggests stations matching a prefix
// @Summary Station autocomplete
// @Tags Search
// @Produce json
// @Param q query string true "Station code or name prefix"
// @Param limit query int false "Maximum suggestions (default 10)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/stations/autocomplete [get]
func (h *SearchHandler) AutocompleteStations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	suggestions, err := h.searchService.AutocompleteStations(c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
