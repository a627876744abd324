package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onchain-re-lending/internal/services"
)

type AssetHandler struct {
	mintService *services.MintService
}

func NewAssetHandler(mintService *services.MintService) *AssetHandler {
	return &AssetHandler{mintService: mintService}
}

// GetAsset godoc
// @Summary Get a minted asset
// @Tags Assets
// @Produce json
// @Param assetId path string true "Asset id"
// @Success 200 {object} models.Asset
// @Failure 404 {object} map[string]interface{}
// @Router /assets/{assetId} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.mintService.GetAsset(c.Request.Context(), c.Param("assetId"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, asset)
}
