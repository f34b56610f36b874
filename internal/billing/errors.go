package billing

import "errors"

var (
	// ErrNoPricingSignal means no tariff field resolves to a non-zero rate.
	ErrNoPricingSignal = errors.New("tariff has no usable pricing signal")

	// ErrIncompleteTariff means the resolved model is missing a rate it
	// needs for the requested window. Callers may retry with the
	// flat-hourly fallback when one is configured.
	ErrIncompleteTariff = errors.New("tariff is missing a required rate for the selected model")

	// ErrInvalidOdometer means the end reading is below the start reading.
	ErrInvalidOdometer = errors.New("end odometer reading is less than start reading")

	// ErrInvalidWindow means dropoff is not strictly after pickup.
	ErrInvalidWindow = errors.New("dropoff must be after pickup")
)
