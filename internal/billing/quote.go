package billing

import (
	"fmt"
	"math"
	"time"
)

// ComputeQuote prices a rental window against a resolved schedule. It is a
// pure function: identical inputs always produce an identical Quote.
func ComputeQuote(schedule *ResolvedSchedule, window RentalWindow, opts QuoteOptions) (*Quote, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	duration := window.DurationHours()
	billed := int(math.Ceil(duration))
	if billed < schedule.MinBookingHours {
		billed = schedule.MinBookingHours
	}

	quote := &Quote{
		Model:         schedule.Model,
		GSTPercentage: schedule.GSTPercentage,
		BilledHours:   billed,
	}

	var err error
	switch schedule.Model {
	case ModelSimple:
		err = simpleBase(schedule, window, duration, billed, quote)
		quote.IncludedKm = includedKm(schedule, billed)
	case ModelSlab:
		err = slabBase(schedule, duration, opts.SlabName, quote)
	case ModelFlatHourly:
		quote.BasePrice = RoundMoney(float64(billed) * schedule.FlatHourlyRate)
		quote.BreakdownText = fmt.Sprintf("%d hr x %.2f/hr", billed, schedule.FlatHourlyRate)
		quote.IncludedKm = includedKm(schedule, billed)
	default:
		err = fmt.Errorf("%w: unknown pricing model %q", ErrIncompleteTariff, schedule.Model)
	}
	if err != nil {
		return nil, err
	}

	quote.Subtotal = RoundMoney(quote.BasePrice + quote.WeekendSurcharge)
	quote.GSTAmount = RoundMoney(quote.Subtotal * quote.GSTPercentage / 100)
	quote.Total = RoundMoney(quote.Subtotal + quote.GSTAmount)
	return quote, nil
}

// simpleBase fills BasePrice, WeekendSurcharge, HasWeekend and
// BreakdownText for the simple model. Discrete block prices always beat
// continuous per-hour rates when both could apply.
func simpleBase(schedule *ResolvedSchedule, window RentalWindow, duration float64, billed int, quote *Quote) error {
	rates := schedule.Simple

	// 12-hour block
	if billed <= 12 && rates.Price12Hours != nil {
		quote.BasePrice = RoundMoney(*rates.Price12Hours)
		quote.BreakdownText = fmt.Sprintf("12-hour block @ %.2f", *rates.Price12Hours)
		return nil
	}

	// Exact hour-count override (13..24)
	if price, ok := rates.HourlyOverrides[billed]; ok {
		quote.BasePrice = RoundMoney(price)
		quote.BreakdownText = fmt.Sprintf("%d-hour block @ %.2f", billed, price)
		return nil
	}

	// Weekly pricing beyond the first week, pro-rated
	if duration > HoursPerWeek && rates.PricePerWeek != nil {
		weeks := 1 + (float64(billed)-HoursPerWeek)/HoursPerWeek
		quote.BasePrice = RoundMoney(*rates.PricePerWeek * weeks)
		quote.BreakdownText = fmt.Sprintf("%.2f wk x %.2f/wk", weeks, *rates.PricePerWeek)
		return nil
	}

	// Hourly accrual with the weekend-attributable portion surcharged.
	// Rates are keyed by calendar day: weekday hours need weekdayRate. A
	// weekend-only rate cannot price weekday hours, that surfaces as an
	// incomplete tariff so the caller can fall back to pricePerHour.
	weekendHrs := weekendHours(window.Pickup, window.Dropoff)
	weekdayHrs := duration - weekendHrs

	baseRate := 0.0
	switch {
	case rates.WeekdayRate != nil:
		baseRate = *rates.WeekdayRate
	case rates.WeekendRate != nil:
		if weekdayHrs > 1e-9 {
			return fmt.Errorf("%w: no weekday rate for %.2f weekday hours", ErrIncompleteTariff, weekdayHrs)
		}
		baseRate = *rates.WeekendRate
	default:
		return fmt.Errorf("%w: no hourly rate for a %d hour window", ErrIncompleteTariff, billed)
	}

	// The rounding/minimum padding is distributed proportionally across the
	// weekday and weekend portions of the window.
	weekendBilled := weekendHrs * float64(billed) / duration

	quote.BasePrice = RoundMoney(float64(billed) * baseRate)
	quote.HasWeekend = weekendHrs > 0
	if rates.WeekdayRate != nil && rates.WeekendRate != nil && *rates.WeekendRate > baseRate {
		quote.WeekendSurcharge = RoundMoney(weekendBilled * (*rates.WeekendRate - baseRate))
	}

	if quote.HasWeekend {
		quote.BreakdownText = fmt.Sprintf("%d hr x %.2f/hr (%.2f weekend hr)", billed, baseRate, weekendBilled)
	} else {
		quote.BreakdownText = fmt.Sprintf("%d hr x %.2f/hr", billed, baseRate)
	}
	return nil
}

// slabBase prices the caller-chosen legacy slab: elapsed units rounded up
// to the unit, times the slab price.
func slabBase(schedule *ResolvedSchedule, duration float64, name string, quote *Quote) error {
	if name == "" && len(schedule.Slabs) == 1 {
		name = schedule.Slabs[0].Name
	}

	for _, slab := range schedule.Slabs {
		if slab.Name != name {
			continue
		}
		unit := slabUnitHours(slab.Name)
		units := int(math.Ceil(duration / float64(unit)))
		if units < 1 {
			units = 1
		}
		quote.BasePrice = RoundMoney(float64(units) * slab.Price)
		quote.IncludedKm = slab.KmLimit * float64(units)
		quote.BreakdownText = fmt.Sprintf("%d %s slab x %.2f", units, slab.Name, slab.Price)
		return nil
	}

	return fmt.Errorf("%w: slab %q not configured", ErrIncompleteTariff, name)
}

// includedKm freezes the distance allowance for a quote. The absolute
// kmLimit wins over the per-hour limit when both are configured.
func includedKm(schedule *ResolvedSchedule, billed int) float64 {
	if schedule.KmLimit != nil {
		return *schedule.KmLimit
	}
	if schedule.KmLimitPerHour != nil {
		return *schedule.KmLimitPerHour * float64(billed)
	}
	return 0
}

// weekendHours returns the elapsed hours of [pickup, dropoff) that fall on
// a Saturday or Sunday. The window is walked midnight to midnight so a span
// straddling a weekday/weekend boundary is split by exact elapsed time on
// each side.
func weekendHours(pickup, dropoff time.Time) float64 {
	var hours float64
	cur := pickup
	for cur.Before(dropoff) {
		midnight := time.Date(cur.Year(), cur.Month(), cur.Day(), 0, 0, 0, 0, cur.Location()).Add(24 * time.Hour)
		end := dropoff
		if midnight.Before(end) {
			end = midnight
		}
		if wd := cur.Weekday(); wd == time.Saturday || wd == time.Sunday {
			hours += end.Sub(cur).Hours()
		}
		cur = end
	}
	return hours
}
