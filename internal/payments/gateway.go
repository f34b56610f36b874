package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"github.com/wheelio/bike-rental/pkg/config"
)

// ChargeRequest asks the gateway to collect a rental's quoted total
type ChargeRequest struct {
	RentalID    uuid.UUID
	Amount      float64
	Currency    string
	Description string
}

// ChargeResult is the gateway's reference for a successful charge
type ChargeResult struct {
	Reference string
	Status    string
}

// Gateway collects payments. Implementations must be safe for concurrent use.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// StripeGateway charges through Stripe payment intents
type StripeGateway struct{}

func NewStripeGateway(cfg *config.StripeConfig) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		Confirm:     stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("rental_id", req.RentalID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe charge failed: %w", err)
	}

	return &ChargeResult{
		Reference: pi.ID,
		Status:    string(pi.Status),
	}, nil
}

// toMinorUnits converts a major-unit amount to the gateway's integer minor
// units (paise for INR).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ManualGateway records offline payments when no gateway is configured,
// such as cash collected at the pickup point.
type ManualGateway struct{}

func NewManualGateway() *ManualGateway {
	return &ManualGateway{}
}

func (g *ManualGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{
		Reference: "manual_" + uuid.New().String(),
		Status:    "succeeded",
	}, nil
}
