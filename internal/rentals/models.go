package rentals

import (
	"time"

	"github.com/google/uuid"
	"github.com/wheelio/bike-rental/internal/billing"
)

// Status is the monetary state of a rental. Transitions are strictly
// quoted -> paid -> settled; no state is ever skipped.
type Status string

const (
	StatusQuoted  Status = "quoted"
	StatusPaid    Status = "paid"
	StatusSettled Status = "settled"
)

// Rental is a booking's monetary record. Quote and Settlement are stored
// verbatim as computed; no surface recomputes them.
type Rental struct {
	ID      uuid.UUID `json:"id" db:"id"`
	BikeID  uuid.UUID `json:"bike_id" db:"bike_id"`
	RiderID uuid.UUID `json:"rider_id" db:"rider_id"`
	Status  Status    `json:"status" db:"status"`

	Window   billing.RentalWindow `json:"window"`
	SlabName string               `json:"slab_name,omitempty" db:"slab_name"`
	Quote    *billing.Quote       `json:"quote" db:"quote"`

	// Settlement inputs, recorded at ride close. Delay is persisted in
	// minutes; the engine charges in hours via its own conversion helper.
	StartKm        *float64   `json:"start_km,omitempty" db:"start_km"`
	EndKm          *float64   `json:"end_km,omitempty" db:"end_km"`
	ActualReturnAt *time.Time `json:"actual_return_at,omitempty" db:"actual_return_at"`
	DelayMinutes   *int       `json:"delay_minutes,omitempty" db:"delay_minutes"`

	Settlement *billing.Settlement `json:"settlement,omitempty" db:"settlement"`
	PaymentRef *string             `json:"payment_ref,omitempty" db:"payment_ref"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	SettledAt *time.Time `json:"settled_at,omitempty" db:"settled_at"`
}

// QuoteRequest asks for a price preview for a bike and window
type QuoteRequest struct {
	BikeID   uuid.UUID `json:"bike_id" binding:"required"`
	Pickup   time.Time `json:"pickup" binding:"required"`
	Dropoff  time.Time `json:"dropoff" binding:"required"`
	SlabName string    `json:"slab_name,omitempty"`
}

// CreateRentalRequest books a bike for a window at the quoted price
type CreateRentalRequest struct {
	BikeID   uuid.UUID `json:"bike_id" binding:"required"`
	Pickup   time.Time `json:"pickup" binding:"required"`
	Dropoff  time.Time `json:"dropoff" binding:"required"`
	SlabName string    `json:"slab_name,omitempty"`
}

// SettleRequest carries the end-of-ride facts supplied by the admin
type SettleRequest struct {
	StartKm      float64   `json:"start_km" binding:"min=0"`
	EndKm        float64   `json:"end_km" binding:"min=0"`
	ActualReturn time.Time `json:"actual_return" binding:"required"`
}

// SettleResult reports the state machine's answer to a settle attempt.
// AlreadySettled is true when the stored settlement was returned unchanged.
type SettleResult struct {
	Status         Status              `json:"status"`
	Settlement     *billing.Settlement `json:"settlement"`
	AlreadySettled bool                `json:"already_settled"`
}
