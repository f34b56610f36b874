package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-12 is a Wednesday, 2024-06-15 a Saturday.
var (
	wednesday = time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	friday    = time.Date(2024, 6, 14, 22, 0, 0, 0, time.UTC)
)

func window(pickup time.Time, d time.Duration) RentalWindow {
	return RentalWindow{Pickup: pickup, Dropoff: pickup.Add(d)}
}

func mustResolve(t *testing.T, cfg TariffConfig) *ResolvedSchedule {
	t.Helper()
	schedule, err := Resolve(cfg)
	require.NoError(t, err)
	return schedule
}

// Weekday-only rate 100/hr, 3-hour weekday window, 18% GST.
func TestComputeQuote_WeekdayHourly(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{WeekdayRate: fptr(100)})

	quote, err := ComputeQuote(schedule, window(wednesday, 3*time.Hour), QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 300.0, quote.BasePrice)
	assert.Equal(t, 0.0, quote.WeekendSurcharge)
	assert.Equal(t, 300.0, quote.Subtotal)
	assert.Equal(t, 54.0, quote.GSTAmount)
	assert.Equal(t, 354.0, quote.Total)
	assert.False(t, quote.HasWeekend)
	assert.Equal(t, 3, quote.BilledHours)
}

// price12Hours = 900, window exactly 12 hours: block pricing wins over any
// configured hourly rate.
func TestComputeQuote_TwelveHourBlockPrecedence(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:  fptr(100),
		Price12Hours: fptr(900),
	})

	quote, err := ComputeQuote(schedule, window(wednesday, 12*time.Hour), QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 900.0, quote.BasePrice)
	assert.Equal(t, "12-hour block @ 900.00", quote.BreakdownText)

	// The block also covers shorter windows.
	short, err := ComputeQuote(schedule, window(wednesday, 3*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 900.0, short.BasePrice)
}

func TestComputeQuote_HourlyOverride(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:     fptr(100),
		HourlyOverrides: map[int]float64{15: 1200},
	})

	// 14.5 elapsed hours round up to the 15-hour override.
	quote, err := ComputeQuote(schedule, window(wednesday, 14*time.Hour+30*time.Minute), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, quote.BasePrice)
	assert.Equal(t, "15-hour block @ 1200.00", quote.BreakdownText)

	// An hour count without an override falls through to the hourly rate.
	hourly, err := ComputeQuote(schedule, window(wednesday, 14*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1400.0, hourly.BasePrice)
}

func TestComputeQuote_WeekendSplit(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate: fptr(100),
		WeekendRate: fptr(150),
	})

	// Friday 22:00 to Saturday 02:00: two hours each side of midnight.
	quote, err := ComputeQuote(schedule, window(friday, 4*time.Hour), QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 400.0, quote.BasePrice)
	assert.Equal(t, 100.0, quote.WeekendSurcharge)
	assert.Equal(t, 500.0, quote.Subtotal)
	assert.Equal(t, 90.0, quote.GSTAmount)
	assert.Equal(t, 590.0, quote.Total)
	assert.True(t, quote.HasWeekend)
}

func TestComputeQuote_WeekendOnlyRate(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{WeekendRate: fptr(150)})

	saturday := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	quote, err := ComputeQuote(schedule, window(saturday, 2*time.Hour), QuoteOptions{})
	require.NoError(t, err)

	// On a pure weekend window the weekend rate is the base rate; no
	// surcharge on top of itself.
	assert.Equal(t, 300.0, quote.BasePrice)
	assert.Equal(t, 0.0, quote.WeekendSurcharge)
	assert.True(t, quote.HasWeekend)
}

// A weekend-only rate cannot price weekday hours. The tariff is incomplete
// for such a window and the flat-hourly fallback takes over instead of the
// weekend rate leaking onto weekdays.
func TestComputeQuote_WeekendOnlyRateRejectsWeekdayHours(t *testing.T) {
	cfg := TariffConfig{WeekendRate: fptr(150), PricePerHour: fptr(100)}
	schedule := mustResolve(t, cfg)

	_, err := ComputeQuote(schedule, window(wednesday, 3*time.Hour), QuoteOptions{})
	require.ErrorIs(t, err, ErrIncompleteTariff)

	fallback, ok := FlatHourlyFallback(cfg)
	require.True(t, ok)
	quote, err := ComputeQuote(fallback, window(wednesday, 3*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, ModelFlatHourly, quote.Model)
	assert.Equal(t, 300.0, quote.BasePrice)

	// A window straddling Friday midnight has weekday hours too.
	_, err = ComputeQuote(schedule, window(friday, 4*time.Hour), QuoteOptions{})
	assert.ErrorIs(t, err, ErrIncompleteTariff)
}

// The symmetric case keeps pricing: weekendRate is a surcharge atop
// weekdayRate, so a weekday-only rate prices weekend hours at the base
// rate with no surcharge.
func TestComputeQuote_WeekdayOnlyRateCoversWeekend(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{WeekdayRate: fptr(100)})

	saturday := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	quote, err := ComputeQuote(schedule, window(saturday, 2*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 200.0, quote.BasePrice)
	assert.Equal(t, 0.0, quote.WeekendSurcharge)
	assert.True(t, quote.HasWeekend)
}

func TestComputeQuote_WeeklyProration(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:  fptr(100),
		PricePerWeek: fptr(4200),
	})

	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// 10 days: first week in full plus 72/168 of a second week.
	quote, err := ComputeQuote(schedule, window(monday, 240*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 6000.0, quote.BasePrice)

	// Exactly one week stays on hourly accrual.
	hourly, err := ComputeQuote(schedule, window(monday, 168*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, ModelSimple, hourly.Model)
	assert.Greater(t, hourly.BasePrice, 0.0)
}

func TestComputeQuote_MinBookingHoursFloor(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:     fptr(100),
		MinBookingHours: 4,
	})

	quote, err := ComputeQuote(schedule, window(wednesday, 1*time.Hour), QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, quote.BilledHours)
	assert.Equal(t, 400.0, quote.BasePrice)
}

func TestComputeQuote_IncludedKm(t *testing.T) {
	tests := []struct {
		name     string
		config   TariffConfig
		expected float64
	}{
		{
			name:     "absolute limit wins over per-hour",
			config:   TariffConfig{WeekdayRate: fptr(100), KmLimit: fptr(100), KmLimitPerHour: fptr(15)},
			expected: 100,
		},
		{
			name:     "per-hour limit scales with billed hours",
			config:   TariffConfig{WeekdayRate: fptr(100), KmLimitPerHour: fptr(15)},
			expected: 45,
		},
		{
			name:     "no limit configured",
			config:   TariffConfig{WeekdayRate: fptr(100)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := ComputeQuote(mustResolve(t, tt.config), window(wednesday, 3*time.Hour), QuoteOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, quote.IncludedKm)
		})
	}
}

func TestComputeQuote_FlatHourly(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{PricePerHour: fptr(110)})

	quote, err := ComputeQuote(schedule, window(wednesday, 5*time.Hour+30*time.Minute), QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, ModelFlatHourly, quote.Model)
	assert.Equal(t, 660.0, quote.BasePrice)
	assert.Equal(t, "6 hr x 110.00/hr", quote.BreakdownText)
}

func TestComputeQuote_Slabs(t *testing.T) {
	cfg := TariffConfig{
		Slabs: []PricingSlab{
			{Name: SlabHourly, Price: 90, KmLimit: 10},
			{Name: SlabDaily, Price: 800, KmLimit: 120},
		},
	}
	schedule := mustResolve(t, cfg)

	// 30 elapsed hours round up to two daily units.
	quote, err := ComputeQuote(schedule, window(wednesday, 30*time.Hour), QuoteOptions{SlabName: SlabDaily})
	require.NoError(t, err)
	assert.Equal(t, 1600.0, quote.BasePrice)
	assert.Equal(t, 240.0, quote.IncludedKm)

	// The hourly slab prices the same window by the hour.
	hourly, err := ComputeQuote(schedule, window(wednesday, 30*time.Hour), QuoteOptions{SlabName: SlabHourly})
	require.NoError(t, err)
	assert.Equal(t, 2700.0, hourly.BasePrice)

	// An unconfigured slab is an incomplete tariff, not a silent substitute.
	_, err = ComputeQuote(schedule, window(wednesday, 30*time.Hour), QuoteOptions{SlabName: SlabWeekly})
	assert.ErrorIs(t, err, ErrIncompleteTariff)
}

func TestComputeQuote_SingleSlabAutoSelected(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		Slabs: []PricingSlab{{Name: SlabDaily, Price: 800, KmLimit: 120}},
	})

	quote, err := ComputeQuote(schedule, window(wednesday, 20*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 800.0, quote.BasePrice)
}

func TestComputeQuote_IncompleteTariff(t *testing.T) {
	// Only a 12-hour block is configured; a 30-hour window has no rate.
	schedule := mustResolve(t, TariffConfig{Price12Hours: fptr(900)})

	_, err := ComputeQuote(schedule, window(wednesday, 30*time.Hour), QuoteOptions{})
	assert.ErrorIs(t, err, ErrIncompleteTariff)
}

func TestComputeQuote_InvalidWindow(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{WeekdayRate: fptr(100)})

	tests := []struct {
		name   string
		window RentalWindow
	}{
		{"dropoff equals pickup", RentalWindow{Pickup: wednesday, Dropoff: wednesday}},
		{"dropoff before pickup", RentalWindow{Pickup: wednesday, Dropoff: wednesday.Add(-time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeQuote(schedule, tt.window, QuoteOptions{})
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

// total == subtotal + gst and subtotal == base + surcharge must hold for
// every valid quote, post-rounding.
func TestComputeQuote_Additivity(t *testing.T) {
	configs := []TariffConfig{
		{WeekdayRate: fptr(99.99), WeekendRate: fptr(149.99)},
		{WeekdayRate: fptr(33.33), GSTPercentage: fptr(12.5)},
		{Price12Hours: fptr(899.95), WeekdayRate: fptr(77.7)},
		{PricePerHour: fptr(110.01)},
	}

	for _, cfg := range configs {
		schedule := mustResolve(t, cfg)
		for hours := 1; hours <= 60; hours += 7 {
			quote, err := ComputeQuote(schedule, window(friday, time.Duration(hours)*time.Hour), QuoteOptions{})
			require.NoError(t, err)
			assert.InDelta(t, quote.Subtotal, quote.BasePrice+quote.WeekendSurcharge, 0.01)
			assert.InDelta(t, quote.Total, quote.Subtotal+quote.GSTAmount, 0.01)
		}
	}
}

// A longer window never costs less than a shorter one under the same
// schedule.
func TestComputeQuote_Monotonicity(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:  fptr(100),
		WeekendRate:  fptr(150),
		Price12Hours: fptr(900),
	})

	prev := 0.0
	for hours := 1; hours <= 48; hours++ {
		quote, err := ComputeQuote(schedule, window(wednesday, time.Duration(hours)*time.Hour), QuoteOptions{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.BasePrice, prev, "base price decreased at %d hours", hours)
		prev = quote.BasePrice
	}
}

// Block prices always beat per-hour rates, even when a low hourly rate
// makes hour 13 cheaper than the 12-hour block. The discrete price is the
// operator's word for that block; monotonicity holds only across tariffs
// priced coherently (hourlyRate x 12 >= price12Hours).
func TestComputeQuote_BlockPrecedenceBeatsMonotonicity(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate:  fptr(50),
		Price12Hours: fptr(900),
	})

	block, err := ComputeQuote(schedule, window(wednesday, 12*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 900.0, block.BasePrice)

	hourly, err := ComputeQuote(schedule, window(wednesday, 13*time.Hour), QuoteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 650.0, hourly.BasePrice)
}

func TestComputeQuote_Idempotence(t *testing.T) {
	schedule := mustResolve(t, TariffConfig{
		WeekdayRate: fptr(100),
		WeekendRate: fptr(150),
		KmLimit:     fptr(100),
	})
	w := window(friday, 36*time.Hour)

	first, err := ComputeQuote(schedule, w, QuoteOptions{})
	require.NoError(t, err)
	second, err := ComputeQuote(schedule, w, QuoteOptions{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWeekendHours(t *testing.T) {
	tests := []struct {
		name     string
		pickup   time.Time
		duration time.Duration
		expected float64
	}{
		{"all weekday", wednesday, 5 * time.Hour, 0},
		{"straddles friday midnight", friday, 4 * time.Hour, 2},
		{"full weekend", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 48 * time.Hour, 48},
		{"sunday into monday", time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC), 2 * time.Hour, 1},
		{"fractional boundary", time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC), time.Hour, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weekendHours(tt.pickup, tt.pickup.Add(tt.duration))
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
