package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/wheelio/bike-rental/internal/rentals"
)

// Line is one invoice row. Amounts are copied from the stored quote and
// settlement, never recomputed.
type Line struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Invoice is a read model over a rental's persisted monetary record
type Invoice struct {
	RentalID  uuid.UUID      `json:"rental_id"`
	BikeID    uuid.UUID      `json:"bike_id"`
	Status    rentals.Status `json:"status"`
	IssuedAt  time.Time      `json:"issued_at"`
	Lines     []Line         `json:"lines"`
	AmountDue float64        `json:"amount_due"`
}
