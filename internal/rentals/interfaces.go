package rentals

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/internal/fleet"
)

type RepositoryInterface interface {
	CreateRental(ctx context.Context, rental *Rental) error
	GetRental(ctx context.Context, id uuid.UUID) (*Rental, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error
	SaveSettlement(ctx context.Context, id uuid.UUID, facts billing.SettlementFacts, settlement *billing.Settlement) error
}

// BikeReader is the slice of the fleet repository the rental service needs
type BikeReader interface {
	GetBike(ctx context.Context, id uuid.UUID) (*fleet.Bike, error)
}

type QuoteCacheInterface interface {
	Get(ctx context.Context, key string) (*billing.Quote, bool)
	Set(ctx context.Context, key string, quote *billing.Quote)
}
