package invoices

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wheelio/bike-rental/pkg/common"
)

// Handler handles invoice HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetInvoice renders the invoice for a rental
func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("rental_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid rental_id")
		return
	}

	invoice, err := h.service.Render(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), err.Error())
		return
	}

	common.SuccessResponse(c, invoice)
}

// RegisterRoutes registers invoice routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rentals/:rental_id/invoice", h.GetInvoice)
}
