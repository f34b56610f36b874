package rentals

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/common"
	"github.com/wheelio/bike-rental/pkg/middleware"
)

// Handler handles rental HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// billingStatus maps pricing engine sentinels onto HTTP statuses. Window
// problems are the caller's input; tariff problems are the bike's data.
func billingStatus(err error) int {
	switch {
	case errors.Is(err, billing.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, billing.ErrNoPricingSignal),
		errors.Is(err, billing.ErrIncompleteTariff),
		errors.Is(err, billing.ErrInvalidOdometer):
		return http.StatusUnprocessableEntity
	default:
		return common.StatusFromError(err)
	}
}

// PreviewQuote prices a window without booking
func (h *Handler) PreviewQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.service.PreviewQuote(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, billingStatus(err), err.Error())
		return
	}

	common.SuccessResponse(c, quote)
}

// CreateRental books a bike for the authenticated rider
func (h *Handler) CreateRental(c *gin.Context) {
	riderID, err := uuid.Parse(c.GetString(middleware.UserIDKey))
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "invalid user identity")
		return
	}

	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rental, err := h.service.CreateRental(c.Request.Context(), riderID, req)
	if err != nil {
		common.ErrorResponse(c, billingStatus(err), err.Error())
		return
	}

	common.CreatedResponse(c, rental)
}

// GetRental returns a rental with its stored quote and settlement
func (h *Handler) GetRental(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rental_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid rental_id")
		return
	}

	rental, err := h.service.GetRental(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "failed to get rental")
		return
	}

	common.SuccessResponse(c, rental)
}

// Settle closes a paid rental against end-of-ride facts
func (h *Handler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rental_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid rental_id")
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Settle(c.Request.Context(), id, req)
	if err != nil {
		common.ErrorResponse(c, billingStatus(err), err.Error())
		return
	}

	common.SuccessResponse(c, result)
}

// RegisterRoutes registers rider-facing rental routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.PreviewQuote)

	rentals := rg.Group("/rentals")
	{
		rentals.POST("", h.CreateRental)
		rentals.GET("/:rental_id", h.GetRental)
	}
}

// RegisterAdminRoutes registers settlement routes for fleet staff
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/rentals/:rental_id/settle", h.Settle)
}
