package billing

import (
	"time"
)

// PricingModel identifies which pricing model a tariff resolved to.
type PricingModel string

const (
	ModelSimple     PricingModel = "simple"
	ModelSlab       PricingModel = "slab"
	ModelFlatHourly PricingModel = "flat_hourly"
)

// Slab names for the legacy slab model
const (
	SlabHourly = "hourly"
	SlabDaily  = "daily"
	SlabWeekly = "weekly"
)

// DefaultGSTPercentage applies when a tariff does not set its own rate
const DefaultGSTPercentage = 18.0

// HoursPerWeek is the block size for weekly pricing
const HoursPerWeek = 7 * 24

// TariffConfig is the full set of rate fields attached to a bike. All rate
// fields are optional; which ones are set decides the pricing model.
type TariffConfig struct {
	WeekdayRate  *float64 `json:"weekday_rate,omitempty" db:"weekday_rate"`
	WeekendRate  *float64 `json:"weekend_rate,omitempty" db:"weekend_rate"`
	Price12Hours *float64 `json:"price_12_hours,omitempty" db:"price_12_hours"`
	PricePerWeek *float64 `json:"price_per_week,omitempty" db:"price_per_week"`

	// HourlyOverrides maps an exact hour count (13..24) to a flat price for
	// that many hours. Entries outside that range are ignored.
	HourlyOverrides map[int]float64 `json:"hourly_overrides,omitempty" db:"hourly_overrides"`

	KmLimit        *float64 `json:"km_limit,omitempty" db:"km_limit"`
	KmLimitPerHour *float64 `json:"km_limit_per_hour,omitempty" db:"km_limit_per_hour"`
	ExcessKmCharge *float64 `json:"excess_km_charge,omitempty" db:"excess_km_charge"`

	MinBookingHours int      `json:"min_booking_hours,omitempty" db:"min_booking_hours"`
	GSTPercentage   *float64 `json:"gst_percentage,omitempty" db:"gst_percentage"`

	// Legacy fields
	PricePerHour *float64      `json:"price_per_hour,omitempty" db:"price_per_hour"`
	Slabs        []PricingSlab `json:"pricing_slabs,omitempty" db:"pricing_slabs"`
}

// PricingSlab is a legacy named pricing tier with its own rate and
// included-distance allowance per unit.
type PricingSlab struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	KmLimit float64 `json:"km_limit"`
}

// SimpleRates holds the normalized simple-model rate fields. Only fields
// that carried a positive value in the source tariff are present.
type SimpleRates struct {
	WeekdayRate     *float64
	WeekendRate     *float64
	Price12Hours    *float64
	PricePerWeek    *float64
	HourlyOverrides map[int]float64
}

// ResolvedSchedule is the output of the Tariff Resolver: one closed variant
// (Model) plus the normalized rates for it. Downstream calculators pattern
// match on Model instead of re-checking which tariff fields are set.
type ResolvedSchedule struct {
	Model PricingModel

	Simple         *SimpleRates  // set when Model == ModelSimple
	Slabs          []PricingSlab // set when Model == ModelSlab
	FlatHourlyRate float64       // set when Model == ModelFlatHourly

	MinBookingHours int
	GSTPercentage   float64

	KmLimit        *float64
	KmLimitPerHour *float64
}

// RentalWindow is the requested pickup/dropoff span.
type RentalWindow struct {
	Pickup  time.Time `json:"pickup"`
	Dropoff time.Time `json:"dropoff"`
}

// DurationHours returns the elapsed window length in fractional hours.
func (w RentalWindow) DurationHours() float64 {
	return w.Dropoff.Sub(w.Pickup).Hours()
}

// Validate rejects windows where dropoff is not strictly after pickup.
func (w RentalWindow) Validate() error {
	if !w.Dropoff.After(w.Pickup) {
		return ErrInvalidWindow
	}
	return nil
}

// QuoteOptions carries caller choices that the schedule alone cannot decide.
type QuoteOptions struct {
	// SlabName picks among configured slabs for the slab model. Optional
	// when exactly one slab is configured.
	SlabName string `json:"slab_name,omitempty"`
}

// Quote is the price computed before payment. It is persisted verbatim and
// every surface renders these fields without recomputing them.
type Quote struct {
	Model            PricingModel `json:"model"`
	BasePrice        float64      `json:"base_price"`
	WeekendSurcharge float64      `json:"weekend_surcharge"`
	Subtotal         float64      `json:"subtotal"`
	GSTPercentage    float64      `json:"gst_percentage"`
	GSTAmount        float64      `json:"gst_amount"`
	Total            float64      `json:"total"`
	BreakdownText    string       `json:"breakdown_text"`
	IncludedKm       float64      `json:"included_km"`
	BilledHours      int          `json:"billed_hours"`
	HasWeekend       bool         `json:"has_weekend"`
}

// SettlementFacts are the post-ride inputs supplied at ride close.
type SettlementFacts struct {
	StartKm          float64   `json:"start_km"`
	EndKm            float64   `json:"end_km"`
	ScheduledDropoff time.Time `json:"scheduled_dropoff"`
	ActualReturn     time.Time `json:"actual_return"`
}

// DelayMinutes returns the whole minutes past the scheduled dropoff,
// never negative. This is the unit the delay is persisted in.
func (f SettlementFacts) DelayMinutes() int {
	d := f.ActualReturn.Sub(f.ScheduledDropoff)
	if d <= 0 {
		return 0
	}
	return int(d.Minutes() + 0.5)
}

// Settlement is the final additional-charge record computed at ride close.
type Settlement struct {
	TotalKm        float64 `json:"total_km"`
	ExcessKm       float64 `json:"excess_km"`
	DistanceCharge float64 `json:"distance_charge"`
	DelayMinutes   int     `json:"delay_minutes"`
	DelayCharge    float64 `json:"delay_charge"`
	Extras         float64 `json:"extras"`
	FinalTotal     float64 `json:"final_total"`
}
