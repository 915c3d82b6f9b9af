package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swiftrail/train-reservation-backend/internal/database"
	"github.com/swiftrail/train-reservation-backend/internal/services"
)

// AdminHandler handles the protected reporting endpoints
type AdminHandler struct {
	revenueRepo   *database.RevenueRepository
	searchService *services.SearchService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(revenueRepo *database.RevenueRepository, searchService *services.SearchService) *AdminHandler {
	return &AdminHandler{
		revenueRepo:   revenueRepo,
		searchService: searchService,
	}
}

// GetRevenue returns the fare and payment breakdown for one PNR
// @Summary Revenue breakdown for a PNR
// @Tags Admin
// @Produce json
// @Param pnr path string true "PNR number"
// @Success 200 {object} models.RevenueDetail
// @Failure 404 {object} map[string]interface{} "PNR not found"
// @Security BearerAuth
// @Router /api/v1/admin/revenue/{pnr} [get]
func (h *AdminHandler) GetRevenue(c *gin.Context) {
	pnr := c.Param("pnr")
	if pnr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PNR is required"})
		return
	}

	detail, err := h.revenueRepo.GetRevenueByPNR(pnr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetPopularRoutes returns the most searched routes
// @Summary Most searched routes
// @Tags Admin
// @Produce json
// @Param days query int false "Lookback window in days (default 30)"
// @Param limit query int false "Maximum routes (default 10)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/admin/search/popular [get]
func (h *AdminHandler) GetPopularRoutes(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	routes, err := h.searchService.PopularRoutes(days, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes})
}
