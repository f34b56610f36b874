package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/common"
)

// Repository handles database operations for the fleet
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new fleet repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bikeColumns = `
	id, name, registration, city, is_active,
	weekday_rate, weekend_rate, price_12_hours, price_per_week, hourly_overrides,
	km_limit, km_limit_per_hour, excess_km_charge,
	min_booking_hours, gst_percentage, price_per_hour, pricing_slabs,
	created_at, updated_at
`

// GetBike retrieves a bike with its tariff configuration
func (r *Repository) GetBike(ctx context.Context, id uuid.UUID) (*Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE id = $1`

	bike, err := scanBike(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("bike not found", err)
		}
		return nil, fmt.Errorf("failed to get bike: %w", err)
	}
	return bike, nil
}

// ListBikes retrieves active bikes, optionally filtered by city
func (r *Repository) ListBikes(ctx context.Context, city string, limit, offset int) ([]*Bike, int64, error) {
	query := `SELECT ` + bikeColumns + `
		FROM bikes
		WHERE is_active = true AND ($1 = '' OR city = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, city, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bikes: %w", err)
	}
	defer rows.Close()

	bikes := make([]*Bike, 0)
	for rows.Next() {
		bike, err := scanBike(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bike: %w", err)
		}
		bikes = append(bikes, bike)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM bikes WHERE is_active = true AND ($1 = '' OR city = $1)`
	if err := r.db.QueryRow(ctx, countQuery, city).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bikes: %w", err)
	}

	return bikes, total, nil
}

// CreateBike inserts a bike with its tariff
func (r *Repository) CreateBike(ctx context.Context, bike *Bike) error {
	overridesJSON, slabsJSON, err := marshalTariffJSON(&bike.Tariff)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO bikes (
			id, name, registration, city, is_active,
			weekday_rate, weekend_rate, price_12_hours, price_per_week, hourly_overrides,
			km_limit, km_limit_per_hour, excess_km_charge,
			min_booking_hours, gst_percentage, price_per_hour, pricing_slabs,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	now := time.Now()
	bike.CreatedAt = now
	bike.UpdatedAt = now

	_, err = r.db.Exec(ctx, query,
		bike.ID, bike.Name, bike.Registration, bike.City, bike.IsActive,
		bike.Tariff.WeekdayRate, bike.Tariff.WeekendRate, bike.Tariff.Price12Hours,
		bike.Tariff.PricePerWeek, overridesJSON,
		bike.Tariff.KmLimit, bike.Tariff.KmLimitPerHour, bike.Tariff.ExcessKmCharge,
		bike.Tariff.MinBookingHours, bike.Tariff.GSTPercentage, bike.Tariff.PricePerHour, slabsJSON,
		bike.CreatedAt, bike.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bike: %w", err)
	}
	return nil
}

// UpdateTariff replaces a bike's tariff configuration
func (r *Repository) UpdateTariff(ctx context.Context, id uuid.UUID, bike *Bike) error {
	overridesJSON, slabsJSON, err := marshalTariffJSON(&bike.Tariff)
	if err != nil {
		return err
	}

	query := `
		UPDATE bikes SET
			weekday_rate = $2, weekend_rate = $3, price_12_hours = $4, price_per_week = $5,
			hourly_overrides = $6, km_limit = $7, km_limit_per_hour = $8, excess_km_charge = $9,
			min_booking_hours = $10, gst_percentage = $11, price_per_hour = $12, pricing_slabs = $13,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		id,
		bike.Tariff.WeekdayRate, bike.Tariff.WeekendRate, bike.Tariff.Price12Hours,
		bike.Tariff.PricePerWeek, overridesJSON,
		bike.Tariff.KmLimit, bike.Tariff.KmLimitPerHour, bike.Tariff.ExcessKmCharge,
		bike.Tariff.MinBookingHours, bike.Tariff.GSTPercentage, bike.Tariff.PricePerHour, slabsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update tariff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("bike not found", nil)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBike(row rowScanner) (*Bike, error) {
	bike := &Bike{}
	var overridesJSON, slabsJSON []byte

	err := row.Scan(
		&bike.ID, &bike.Name, &bike.Registration, &bike.City, &bike.IsActive,
		&bike.Tariff.WeekdayRate, &bike.Tariff.WeekendRate, &bike.Tariff.Price12Hours,
		&bike.Tariff.PricePerWeek, &overridesJSON,
		&bike.Tariff.KmLimit, &bike.Tariff.KmLimitPerHour, &bike.Tariff.ExcessKmCharge,
		&bike.Tariff.MinBookingHours, &bike.Tariff.GSTPercentage, &bike.Tariff.PricePerHour, &slabsJSON,
		&bike.CreatedAt, &bike.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(overridesJSON) > 0 {
		if err := json.Unmarshal(overridesJSON, &bike.Tariff.HourlyOverrides); err != nil {
			return nil, fmt.Errorf("failed to parse hourly overrides: %w", err)
		}
	}
	if len(slabsJSON) > 0 {
		if err := json.Unmarshal(slabsJSON, &bike.Tariff.Slabs); err != nil {
			return nil, fmt.Errorf("failed to parse pricing slabs: %w", err)
		}
	}
	return bike, nil
}

func marshalTariffJSON(tariff *billing.TariffConfig) ([]byte, []byte, error) {
	var overridesJSON, slabsJSON []byte
	var err error

	if len(tariff.HourlyOverrides) > 0 {
		if overridesJSON, err = json.Marshal(tariff.HourlyOverrides); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal hourly overrides: %w", err)
		}
	}
	if len(tariff.Slabs) > 0 {
		if slabsJSON, err = json.Marshal(tariff.Slabs); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal pricing slabs: %w", err)
		}
	}
	return overridesJSON, slabsJSON, nil
}
