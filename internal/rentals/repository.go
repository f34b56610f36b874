package rentals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const rentalColumns = `id, bike_id, rider_id, status, pickup_at, dropoff_at, slab_name,
	quote, start_km, end_km, actual_return_at, delay_minutes, settlement, payment_ref,
	created_at, updated_at, paid_at, settled_at`

func (r *Repository) CreateRental(ctx context.Context, rental *Rental) error {
	quoteJSON, err := json.Marshal(rental.Quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	query := `
		INSERT INTO rentals (id, bike_id, rider_id, status, pickup_at, dropoff_at, slab_name, quote)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		rental.ID, rental.BikeID, rental.RiderID, rental.Status,
		rental.Window.Pickup, rental.Window.Dropoff, rental.SlabName, quoteJSON,
	).Scan(&rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return nil
}

func (r *Repository) GetRental(ctx context.Context, id uuid.UUID) (*Rental, error) {
	query := fmt.Sprintf(`SELECT %s FROM rentals WHERE id = $1`, rentalColumns)

	rental := &Rental{}
	var quoteJSON, settlementJSON []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&rental.ID, &rental.BikeID, &rental.RiderID, &rental.Status,
		&rental.Window.Pickup, &rental.Window.Dropoff, &rental.SlabName,
		&quoteJSON, &rental.StartKm, &rental.EndKm, &rental.ActualReturnAt,
		&rental.DelayMinutes, &settlementJSON, &rental.PaymentRef,
		&rental.CreatedAt, &rental.UpdatedAt, &rental.PaidAt, &rental.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("rental not found", err)
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}

	if len(quoteJSON) > 0 {
		if err := json.Unmarshal(quoteJSON, &rental.Quote); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
		}
	}
	if len(settlementJSON) > 0 {
		if err := json.Unmarshal(settlementJSON, &rental.Settlement); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settlement: %w", err)
		}
	}
	return rental, nil
}

// MarkPaid freezes the stored quote by moving the rental to paid. The
// status guard in the WHERE clause makes the transition race-safe.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	query := `
		UPDATE rentals
		SET status = $2, payment_ref = $3, paid_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $4`

	tag, err := r.db.Exec(ctx, query, id, StatusPaid, paymentRef, StatusQuoted)
	if err != nil {
		return fmt.Errorf("failed to mark rental paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewConflictError("rental is not in quoted state", nil)
	}
	return nil
}

// SaveSettlement records the ride-close facts and the computed settlement
// in one update, guarded on the paid state so a rental settles exactly once.
func (r *Repository) SaveSettlement(ctx context.Context, id uuid.UUID, facts billing.SettlementFacts, settlement *billing.Settlement) error {
	settlementJSON, err := json.Marshal(settlement)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement: %w", err)
	}

	query := `
		UPDATE rentals
		SET status = $2, start_km = $3, end_km = $4, actual_return_at = $5,
		    delay_minutes = $6, settlement = $7, settled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $8`

	tag, err := r.db.Exec(ctx, query, id, StatusSettled,
		facts.StartKm, facts.EndKm, facts.ActualReturn, settlement.DelayMinutes,
		settlementJSON, StatusPaid)
	if err != nil {
		return fmt.Errorf("failed to save settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewConflictError("rental is not in paid state", nil)
	}
	return nil
}
