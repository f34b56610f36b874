package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wheelio/bike-rental/pkg/common"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ConfirmPayment charges the rental's quoted total and freezes the quote
func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rental_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid rental_id")
		return
	}

	result, err := h.service.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error())
		return
	}

	common.SuccessResponse(c, result)
}

// RegisterRoutes registers payment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rentals/:rental_id/pay", h.ConfirmPayment)
}
