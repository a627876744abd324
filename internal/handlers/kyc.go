package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/services"
)

type KYCHandler struct {
	kycService     *services.KYCService
	maxUploadBytes int64
}

func NewKYCHandler(kycService *services.KYCService, maxUploadBytes int64) *KYCHandler {
	return &KYCHandler{kycService: kycService, maxUploadBytes: maxUploadBytes}
}

// SelfVerify godoc
// @Summary Identity proof callback
// @Description Called by the identity relayer. Always answers 200; the outcome is in the body.
// @Tags KYC
// @Accept json
// @Produce json
// @Param request body models.SelfVerifyRequest true "Proof payload"
// @Success 200 {object} models.SelfVerifyResponse
// @Router /kyc/self-verify [post]
func (h *KYCHandler) SelfVerify(c *gin.Context) {
	var req models.SelfVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.SelfVerifyResponse{
			Status:  services.SelfStatusError,
			Result:  false,
			Message: errors.MsgSelfMissingParams,
		})
		return
	}
	c.JSON(http.StatusOK, h.kycService.SelfVerify(c.Request.Context(), &req))
}

// TraditionalUpload godoc
// @Summary Submit documents for manual KYC review
// @Tags KYC
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param fullName formData string true "Full name"
// @Param idType formData string true "Document type"
// @Param idNumber formData string true "Document number"
// @Param birthDate formData string true "Birth date (YYYY-MM-DD)"
// @Param idDocument formData file true "Identity document image"
// @Param selfiePhoto formData file true "Selfie image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /kyc/traditional-upload [post]
func (h *KYCHandler) TraditionalUpload(c *gin.Context) {
	var form models.TraditionalKYCForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(errors.InvalidParameters("invalid kyc form", err))
		return
	}

	idDocument, err := readUpload(c, "idDocument", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}
	selfie, err := readUpload(c, "selfiePhoto", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}

	submission, err := h.kycService.SubmitTraditional(c.Request.Context(), currentSessionID(c), &form, idDocument, selfie)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": services.SelfStatusSuccess,
		"data": gin.H{
			"kycId":       submission.KYCID,
			"verified":    false,
			"status":      submission.Status,
			"submittedAt": submission.SubmittedAt.Format(time.RFC3339),
			"message":     errors.MsgKYCSubmitted,
		},
	})
}

// ReviewSubmission godoc
// @Summary Approve or reject a manual KYC submission
// @Tags Admin
// @Accept json
// @Produce json
// @Param kycId path string true "KYC submission id"
// @Param X-Admin-Key header string true "Admin key"
// @Param request body models.KYCReviewRequest true "Decision"
// @Success 200 {object} models.KYCSubmission
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /admin/kyc/{kycId}/review [post]
func (h *KYCHandler) ReviewSubmission(c *gin.Context) {
	var req models.KYCReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.InvalidParameters("invalid review request", err))
		return
	}

	submission, err := h.kycService.Review(c.Request.Context(), c.Param("kycId"), *req.Approved, req.Note)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, submission)
}
