package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/services"
)

type SessionHandler struct {
	sessionService   *services.SessionService
	kycService       *services.KYCService
	valuationService *services.SessionValuationService
	mintService      *services.MintService
	loanService      *services.LoanService
	maxUploadBytes   int64
}

func NewSessionHandler(
	sessionService *services.SessionService,
	kycService *services.KYCService,
	valuationService *services.SessionValuationService,
	mintService *services.MintService,
	loanService *services.LoanService,
	maxUploadBytes int64,
) *SessionHandler {
	return &SessionHandler{
		sessionService:   sessionService,
		kycService:       kycService,
		valuationService: valuationService,
		mintService:      mintService,
		loanService:      loanService,
		maxUploadBytes:   maxUploadBytes,
	}
}

// CreateSession godoc
// @Summary Start a wizard session
// @Description Opens a session for a connected wallet and returns its bearer token
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest true "Wallet address"
// @Success 201 {object} models.SessionTokenResponse
// @Failure 400 {object} map[string]interface{}
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.InvalidParameters("invalid session request", err))
		return
	}

	session, token, err := h.sessionService.Create(c.Request.Context(), req.WalletAddress)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, models.SessionTokenResponse{
		SessionID: session.ID,
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn,
		TokenType: token.TokenType,
	})
}

// GetCurrentSession godoc
// @Summary Get the current session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Session
// @Failure 401 {object} map[string]interface{}
// @Router /sessions/current [get]
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), currentSessionID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// EndSession godoc
// @Summary End the current session
// @Tags Sessions
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]interface{}
// @Router /sessions/current [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.sessionService.End(c.Request.Context(), currentSessionID(c)); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SkipKYC godoc
// @Summary Skip identity verification
// @Description Only available when KYC skipping is enabled (development)
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Session
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /sessions/current/kyc/skip [post]
func (h *SessionHandler) SkipKYC(c *gin.Context) {
	session, err := h.kycService.Skip(c.Request.Context(), currentSessionID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ValuateAsset godoc
// @Summary Value the session's property
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SessionValuationRequest true "Property address and labels"
// @Success 200 {object} models.SessionValuationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /sessions/current/valuation [post]
func (h *SessionHandler) ValuateAsset(c *gin.Context) {
	var req models.SessionValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.MissingParameter("address"))
		return
	}

	result, session, err := h.valuationService.Valuate(c.Request.Context(), currentSessionID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.SessionValuationResponse{Success: true, Data: result, Session: session})
}

// UploadAssetImage godoc
// @Summary Pin an asset image to IPFS
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} models.PinResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /sessions/current/assets/image [post]
func (h *SessionHandler) UploadAssetImage(c *gin.Context) {
	upload, err := readUpload(c, "file", h.maxUploadBytes)
	if err != nil {
		c.Error(err)
		return
	}
	if upload == nil {
		c.Error(errors.MissingParameter("file"))
		return
	}

	resp, err := h.mintService.PinImage(c.Request.Context(), currentSessionID(c), upload.Filename, bytes.NewReader(upload.Data))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MintAsset godoc
// @Summary Mint the valued property as an NFT
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MintRequest false "Certificate fields"
// @Success 201 {object} models.MintResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 402 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /sessions/current/mint [post]
func (h *SessionHandler) MintAsset(c *gin.Context) {
	var req models.MintRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(errors.InvalidParameters("invalid mint request", err))
			return
		}
	}

	resp, err := h.mintService.Mint(c.Request.Context(), currentSessionID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// QuoteLoan godoc
// @Summary Quote a loan against the minted asset
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param amount query int false "Loan amount; defaults to half the valuation"
// @Param termDays query int false "Term in days; defaults to 180"
// @Success 200 {object} models.Loan
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /sessions/current/loan/quote [get]
func (h *SessionHandler) QuoteLoan(c *gin.Context) {
	amount, err := optionalInt(c, "amount")
	if err != nil {
		c.Error(err)
		return
	}
	termDays, err := optionalInt(c, "termDays")
	if err != nil {
		c.Error(err)
		return
	}

	loan, err := h.loanService.QuoteForSession(c.Request.Context(), currentSessionID(c), amount, int(termDays))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// ConfigureLoan godoc
// @Summary Configure the loan
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.LoanRequest true "Loan amount and term"
// @Success 200 {object} models.Loan
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /sessions/current/loan [post]
func (h *SessionHandler) ConfigureLoan(c *gin.Context) {
	var req models.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.InvalidParameters("invalid loan request", err))
		return
	}

	loan, err := h.loanService.Configure(c.Request.Context(), currentSessionID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

func optionalInt(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, errors.InvalidParameters("invalid query parameter "+name, err)
	}
	return v, nil
}
