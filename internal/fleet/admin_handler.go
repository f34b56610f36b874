package fleet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/common"
	"github.com/wheelio/bike-rental/pkg/logger"
	"go.uber.org/zap"
)

// AdminHandler handles admin HTTP requests for fleet management
type AdminHandler struct {
	repo RepositoryInterface
}

// NewAdminHandler creates a new fleet admin handler
func NewAdminHandler(repo RepositoryInterface) *AdminHandler {
	return &AdminHandler{repo: repo}
}

// ListBikes returns the active fleet
func (h *AdminHandler) ListBikes(c *gin.Context) {
	city := c.Query("city")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bikes, total, err := h.repo.ListBikes(c.Request.Context(), city, limit, offset)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "failed to list bikes")
		return
	}

	common.SuccessResponse(c, gin.H{
		"bikes": bikes,
		"total": total,
	})
}

// GetBike returns a single bike with its tariff
func (h *AdminHandler) GetBike(c *gin.Context) {
	id, err := uuid.Parse(c.Param("bike_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid bike_id")
		return
	}

	bike, err := h.repo.GetBike(c.Request.Context(), id)
	if err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "failed to get bike")
		return
	}

	common.SuccessResponse(c, bike)
}

// CreateBike adds a bike to the fleet. The tariff must carry at least one
// usable pricing signal.
func (h *AdminHandler) CreateBike(c *gin.Context) {
	var req CreateBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := billing.Resolve(req.Tariff); err != nil {
		common.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	bike := &Bike{
		ID:           uuid.New(),
		Name:         req.Name,
		Registration: req.Registration,
		City:         req.City,
		IsActive:     true,
		Tariff:       req.Tariff,
	}

	if err := h.repo.CreateBike(c.Request.Context(), bike); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "failed to create bike")
		return
	}

	logger.WithContext(c.Request.Context()).Info("bike created",
		zap.String("bike_id", bike.ID.String()),
		zap.String("city", bike.City))

	common.CreatedResponse(c, bike)
}

// UpdateTariff replaces a bike's tariff. Rejected when the new tariff has
// no usable pricing signal, so a fleet bike can never become unpriceable.
func (h *AdminHandler) UpdateTariff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("bike_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid bike_id")
		return
	}

	var req UpdateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := billing.Resolve(req.Tariff); err != nil {
		if errors.Is(err, billing.ErrNoPricingSignal) {
			common.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	bike := &Bike{Tariff: req.Tariff}
	if err := h.repo.UpdateTariff(c.Request.Context(), id, bike); err != nil {
		common.ErrorResponse(c, common.StatusFromError(err), "failed to update tariff")
		return
	}

	logger.WithContext(c.Request.Context()).Info("tariff updated",
		zap.String("bike_id", id.String()))

	common.SuccessResponse(c, gin.H{"bike_id": id, "tariff": req.Tariff})
}

// RegisterRoutes registers fleet admin routes
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bikes := rg.Group("/bikes")
	{
		bikes.GET("", h.ListBikes)
		bikes.POST("", h.CreateBike)
		bikes.GET("/:bike_id", h.GetBike)
		bikes.PUT("/:bike_id/tariff", h.UpdateTariff)
	}
}
