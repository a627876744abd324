package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/services"
)

type ValuationHandler struct {
	valuationService *services.ValuationService
}

func NewValuationHandler(valuationService *services.ValuationService) *ValuationHandler {
	return &ValuationHandler{valuationService: valuationService}
}

// GetPropertyValuation godoc
// @Summary Estimate a property's unit price
// @Description Looks up recorded New Taipei City transactions near the address and summarizes their unit prices
// @Tags Valuation
// @Produce json
// @Param address query string true "Free-text address, e.g. 新北市板橋區文化路一段"
// @Success 200 {object} models.ValuationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /property-valuation [get]
func (h *ValuationHandler) GetPropertyValuation(c *gin.Context) {
	result, err := h.valuationService.Valuate(c.Request.Context(), c.Query("address"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.ValuationResponse{Success: true, Data: result})
}
