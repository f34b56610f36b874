package fleet

import (
	"time"

	"github.com/google/uuid"
	"github.com/wheelio/bike-rental/internal/billing"
)

// Bike represents a rentable vehicle and its attached tariff
type Bike struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	Name         string               `json:"name" db:"name"`
	Registration string               `json:"registration" db:"registration"`
	City         string               `json:"city" db:"city"`
	IsActive     bool                 `json:"is_active" db:"is_active"`
	Tariff       billing.TariffConfig `json:"tariff"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" db:"updated_at"`
}

// CreateBikeRequest is the admin payload for adding a bike
type CreateBikeRequest struct {
	Name         string               `json:"name" binding:"required"`
	Registration string               `json:"registration" binding:"required"`
	City         string               `json:"city" binding:"required"`
	Tariff       billing.TariffConfig `json:"tariff"`
}

// UpdateTariffRequest is the admin payload for replacing a bike's tariff
type UpdateTariffRequest struct {
	Tariff billing.TariffConfig `json:"tariff"`
}
