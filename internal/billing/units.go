package billing

import "math"

// RoundMoney rounds a currency amount to 2 decimal places, half-up.
// Every money-producing line in the engine goes through this helper so all
// surfaces round identically.
func RoundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// DelayHoursFromMinutes converts a persisted delay in whole minutes into
// the fractional hours the charge math operates in, to two-decimal
// precision. Delay is stored in minutes and charged in hours; this is the
// single conversion point between the two units.
func DelayHoursFromMinutes(minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return RoundMoney(float64(minutes) / 60)
}
