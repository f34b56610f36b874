package fleet

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the interface for fleet repository operations
type RepositoryInterface interface {
	GetBike(ctx context.Context, id uuid.UUID) (*Bike, error)
	ListBikes(ctx context.Context, city string, limit, offset int) ([]*Bike, int64, error)
	CreateBike(ctx context.Context, bike *Bike) error
	UpdateTariff(ctx context.Context, id uuid.UUID, bike *Bike) error
}
