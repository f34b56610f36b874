package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 {
	return &v
}

func TestResolve_ModelSelection(t *testing.T) {
	tests := []struct {
		name     string
		config   TariffConfig
		expected PricingModel
	}{
		{
			name:     "weekday rate selects simple",
			config:   TariffConfig{WeekdayRate: fptr(100)},
			expected: ModelSimple,
		},
		{
			name:     "weekend rate alone selects simple",
			config:   TariffConfig{WeekendRate: fptr(150)},
			expected: ModelSimple,
		},
		{
			name:     "12-hour block selects simple",
			config:   TariffConfig{Price12Hours: fptr(900)},
			expected: ModelSimple,
		},
		{
			name:     "hourly override selects simple",
			config:   TariffConfig{HourlyOverrides: map[int]float64{15: 1200}},
			expected: ModelSimple,
		},
		{
			name:     "weekly price selects simple",
			config:   TariffConfig{PricePerWeek: fptr(4500)},
			expected: ModelSimple,
		},
		{
			name: "simple beats slabs when both present",
			config: TariffConfig{
				WeekdayRate: fptr(100),
				Slabs:       []PricingSlab{{Name: SlabDaily, Price: 800, KmLimit: 120}},
			},
			expected: ModelSimple,
		},
		{
			name: "slabs beat flat hourly",
			config: TariffConfig{
				Slabs:        []PricingSlab{{Name: SlabHourly, Price: 90, KmLimit: 10}},
				PricePerHour: fptr(110),
			},
			expected: ModelSlab,
		},
		{
			name:     "price per hour is the final fallback",
			config:   TariffConfig{PricePerHour: fptr(110)},
			expected: ModelFlatHourly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Resolve(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, schedule.Model)
		})
	}
}

// A tariff with every field empty must fail deterministically instead of
// silently quoting zero.
func TestResolve_NoPricingSignal(t *testing.T) {
	tests := []struct {
		name   string
		config TariffConfig
	}{
		{"empty config", TariffConfig{}},
		{
			"zero-valued rates are not a signal",
			TariffConfig{WeekdayRate: fptr(0), PricePerHour: fptr(0)},
		},
		{
			"zero-priced slab is not a signal",
			TariffConfig{Slabs: []PricingSlab{{Name: SlabDaily, Price: 0}}},
		},
		{
			"unknown slab name is not a signal",
			TariffConfig{Slabs: []PricingSlab{{Name: "monthly", Price: 5000}}},
		},
		{
			"km fields alone are not a signal",
			TariffConfig{KmLimit: fptr(100), ExcessKmCharge: fptr(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Resolve(tt.config)
			assert.ErrorIs(t, err, ErrNoPricingSignal)
			assert.Nil(t, schedule)
		})
	}
}

func TestResolve_Normalization(t *testing.T) {
	schedule, err := Resolve(TariffConfig{
		WeekdayRate: fptr(100),
		HourlyOverrides: map[int]float64{
			12: 800,  // below supported range, dropped
			15: 1200, // kept
			25: 2400, // above supported range, dropped
			18: 0,    // non-positive, dropped
		},
		MinBookingHours: 4,
		KmLimit:         fptr(0), // zero allowance treated as unset
		KmLimitPerHour:  fptr(15),
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]float64{15: 1200}, schedule.Simple.HourlyOverrides)
	assert.Equal(t, 4, schedule.MinBookingHours)
	assert.Nil(t, schedule.KmLimit)
	require.NotNil(t, schedule.KmLimitPerHour)
	assert.Equal(t, 15.0, *schedule.KmLimitPerHour)
}

func TestResolve_GSTDefault(t *testing.T) {
	tests := []struct {
		name     string
		gst      *float64
		expected float64
	}{
		{"unset defaults to 18", nil, 18.0},
		{"explicit rate kept", fptr(5), 5.0},
		{"explicit zero kept", fptr(0), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := Resolve(TariffConfig{WeekdayRate: fptr(100), GSTPercentage: tt.gst})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, schedule.GSTPercentage)
		})
	}
}

func TestFlatHourlyFallback(t *testing.T) {
	schedule, ok := FlatHourlyFallback(TariffConfig{
		Price12Hours: fptr(900),
		PricePerHour: fptr(110),
	})
	require.True(t, ok)
	assert.Equal(t, ModelFlatHourly, schedule.Model)
	assert.Equal(t, 110.0, schedule.FlatHourlyRate)

	_, ok = FlatHourlyFallback(TariffConfig{Price12Hours: fptr(900)})
	assert.False(t, ok)
}
