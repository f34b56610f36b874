package billing

// ComputeSettlement reconciles a frozen quote against post-ride facts:
// distance driven beyond the included allowance and delay past the
// scheduled dropoff. Pure function; it never mutates the quote.
//
// Odometer readings are validated before any charge math runs. Clamping to
// zero happens only for derived values (totalKm, excessKm) so a ride
// returned at exactly the start reading settles cleanly.
func ComputeSettlement(cfg TariffConfig, quote *Quote, facts SettlementFacts) (*Settlement, error) {
	if facts.EndKm < facts.StartKm {
		return nil, ErrInvalidOdometer
	}

	totalKm := facts.EndKm - facts.StartKm
	if totalKm < 0 {
		totalKm = 0
	}
	excessKm := totalKm - quote.IncludedKm
	if excessKm < 0 {
		excessKm = 0
	}

	var distanceCharge float64
	if isSet(cfg.ExcessKmCharge) && quote.IncludedKm > 0 && excessKm > 0 {
		distanceCharge = RoundMoney(excessKm * *cfg.ExcessKmCharge)
	}

	delayMinutes := facts.DelayMinutes()
	delayHours := DelayHoursFromMinutes(delayMinutes)

	var delayCharge float64
	if delayHours > 0 {
		if rate, ok := delayRate(cfg); ok {
			delayCharge = RoundMoney(delayHours * rate)
		}
	}

	extras := RoundMoney(distanceCharge + delayCharge)
	return &Settlement{
		TotalKm:        totalKm,
		ExcessKm:       excessKm,
		DistanceCharge: distanceCharge,
		DelayMinutes:   delayMinutes,
		DelayCharge:    delayCharge,
		Extras:         extras,
		FinalTotal:     RoundMoney(quote.Total + extras),
	}, nil
}

// delayRate picks the hourly rate late returns are charged at: the weekday
// rate when present, the legacy pricePerHour otherwise.
func delayRate(cfg TariffConfig) (float64, bool) {
	if isSet(cfg.WeekdayRate) {
		return *cfg.WeekdayRate, true
	}
	if isSet(cfg.PricePerHour) {
		return *cfg.PricePerHour, true
	}
	return 0, false
}
