package billing

// Resolve decides which pricing model applies to a tariff and normalizes
// its fields into a ResolvedSchedule. It computes no prices itself.
//
// Decision order, first match wins:
//  1. any simple-model field set (price12Hours, hourly override,
//     pricePerWeek, weekday/weekend rate) -> simple model
//  2. legacy pricing slabs present -> slab model
//  3. legacy pricePerHour set -> flat-hourly fallback
//  4. otherwise ErrNoPricingSignal
//
// A field counts as set only when it carries a positive value, so a tariff
// of all zeros fails instead of quoting zero.
func Resolve(cfg TariffConfig) (*ResolvedSchedule, error) {
	schedule := &ResolvedSchedule{
		MinBookingHours: cfg.MinBookingHours,
		GSTPercentage:   gstOrDefault(cfg.GSTPercentage),
		KmLimit:         positiveOrNil(cfg.KmLimit),
		KmLimitPerHour:  positiveOrNil(cfg.KmLimitPerHour),
	}

	overrides := usableOverrides(cfg.HourlyOverrides)

	if isSet(cfg.Price12Hours) || len(overrides) > 0 || isSet(cfg.PricePerWeek) ||
		isSet(cfg.WeekdayRate) || isSet(cfg.WeekendRate) {
		schedule.Model = ModelSimple
		schedule.Simple = &SimpleRates{
			WeekdayRate:     positiveOrNil(cfg.WeekdayRate),
			WeekendRate:     positiveOrNil(cfg.WeekendRate),
			Price12Hours:    positiveOrNil(cfg.Price12Hours),
			PricePerWeek:    positiveOrNil(cfg.PricePerWeek),
			HourlyOverrides: overrides,
		}
		return schedule, nil
	}

	if slabs := usableSlabs(cfg.Slabs); len(slabs) > 0 {
		schedule.Model = ModelSlab
		schedule.Slabs = slabs
		return schedule, nil
	}

	if isSet(cfg.PricePerHour) {
		schedule.Model = ModelFlatHourly
		schedule.FlatHourlyRate = *cfg.PricePerHour
		return schedule, nil
	}

	return nil, ErrNoPricingSignal
}

// FlatHourlyFallback builds a flat-hourly schedule from the legacy
// pricePerHour field regardless of what model Resolve would pick. Callers
// use it after ErrIncompleteTariff; the second return is false when no
// fallback rate is configured.
func FlatHourlyFallback(cfg TariffConfig) (*ResolvedSchedule, bool) {
	if !isSet(cfg.PricePerHour) {
		return nil, false
	}
	return &ResolvedSchedule{
		Model:           ModelFlatHourly,
		FlatHourlyRate:  *cfg.PricePerHour,
		MinBookingHours: cfg.MinBookingHours,
		GSTPercentage:   gstOrDefault(cfg.GSTPercentage),
		KmLimit:         positiveOrNil(cfg.KmLimit),
		KmLimitPerHour:  positiveOrNil(cfg.KmLimitPerHour),
	}, true
}

func isSet(p *float64) bool {
	return p != nil && *p > 0
}

func positiveOrNil(p *float64) *float64 {
	if isSet(p) {
		v := *p
		return &v
	}
	return nil
}

func gstOrDefault(p *float64) float64 {
	if p != nil && *p >= 0 {
		return *p
	}
	return DefaultGSTPercentage
}

// usableOverrides filters hourly overrides down to the supported 13..24
// range with positive prices.
func usableOverrides(src map[int]float64) map[int]float64 {
	var out map[int]float64
	for hours, price := range src {
		if hours < 13 || hours > 24 || price <= 0 {
			continue
		}
		if out == nil {
			out = make(map[int]float64, len(src))
		}
		out[hours] = price
	}
	return out
}

func usableSlabs(src []PricingSlab) []PricingSlab {
	out := make([]PricingSlab, 0, len(src))
	for _, s := range src {
		if s.Price > 0 && slabUnitHours(s.Name) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// slabUnitHours returns the billing unit length for a slab name, or 0 for
// an unrecognized name.
func slabUnitHours(name string) int {
	switch name {
	case SlabHourly:
		return 1
	case SlabDaily:
		return 24
	case SlabWeekly:
		return HoursPerWeek
	default:
		return 0
	}
}
