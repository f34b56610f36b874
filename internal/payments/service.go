package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/internal/rentals"
	"github.com/wheelio/bike-rental/pkg/common"
	"github.com/wheelio/bike-rental/pkg/logger"
)

// RentalBooks is the slice of the rental service the payment flow needs
type RentalBooks interface {
	GetRental(ctx context.Context, id uuid.UUID) (*rentals.Rental, error)
	QuoteForRental(ctx context.Context, rental *rentals.Rental) (*billing.Quote, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error
}

// PaymentResult reports a confirmed payment
type PaymentResult struct {
	RentalID  uuid.UUID      `json:"rental_id"`
	Reference string         `json:"reference"`
	Amount    float64        `json:"amount"`
	Currency  string         `json:"currency"`
	Status    rentals.Status `json:"status"`
}

// Service confirms rental payments. Before charging, it reprices the
// rental's window against the bike's current tariff; if the total has
// drifted past the epsilon, the charge is blocked and the rider must
// re-quote. A successful charge freezes the stored quote.
type Service struct {
	books    RentalBooks
	gateway  Gateway
	epsilon  float64
	currency string
}

func NewService(books RentalBooks, gateway Gateway, epsilon float64, currency string) *Service {
	return &Service{books: books, gateway: gateway, epsilon: epsilon, currency: currency}
}

func (s *Service) ConfirmPayment(ctx context.Context, rentalID uuid.UUID) (*PaymentResult, error) {
	rental, err := s.books.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status != rentals.StatusQuoted {
		return nil, common.NewConflictError(fmt.Sprintf("rental is already %s", rental.Status), nil)
	}

	current, err := s.books.QuoteForRental(ctx, rental)
	if err != nil {
		return nil, err
	}
	if math.Abs(current.Total-rental.Quote.Total) > s.epsilon {
		logger.WithContext(ctx).Warn("blocking payment on stale quote",
			zap.String("rental_id", rentalID.String()),
			zap.Float64("quoted_total", rental.Quote.Total),
			zap.Float64("current_total", current.Total))
		return nil, common.NewConflictError(
			fmt.Sprintf("quoted total %.2f is stale, current total is %.2f; request a new quote",
				rental.Quote.Total, current.Total), nil)
	}

	charge, err := s.gateway.Charge(ctx, ChargeRequest{
		RentalID:    rental.ID,
		Amount:      rental.Quote.Total,
		Currency:    s.currency,
		Description: fmt.Sprintf("bike rental %s", rental.ID),
	})
	if err != nil {
		return nil, common.NewInternalError("payment failed", err)
	}

	if err := s.books.MarkPaid(ctx, rental.ID, charge.Reference); err != nil {
		// Charged but could not record it. Surface loudly; reconciliation
		// picks these up from the gateway's metadata.
		logger.WithContext(ctx).Error("charge succeeded but rental not marked paid",
			zap.String("rental_id", rentalID.String()),
			zap.String("reference", charge.Reference),
			zap.Error(err))
		return nil, err
	}

	logger.WithContext(ctx).Info("payment confirmed",
		zap.String("rental_id", rentalID.String()),
		zap.String("reference", charge.Reference),
		zap.Float64("amount", rental.Quote.Total))

	return &PaymentResult{
		RentalID:  rental.ID,
		Reference: charge.Reference,
		Amount:    rental.Quote.Total,
		Currency:  s.currency,
		Status:    rentals.StatusPaid,
	}, nil
}
