package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wheelio/bike-rental/internal/rentals"
	"github.com/wheelio/bike-rental/pkg/common"
)

// RentalReader is the slice of the rental repository invoicing needs
type RentalReader interface {
	GetRental(ctx context.Context, id uuid.UUID) (*rentals.Rental, error)
}

// Service renders invoices from persisted rentals. Every amount on an
// invoice is a stored field from the quote or settlement; this package
// never touches the pricing engine, so an invoice always matches what
// was actually charged.
type Service struct {
	reader RentalReader
}

func NewService(reader RentalReader) *Service {
	return &Service{reader: reader}
}

// Render builds the invoice for a paid or settled rental
func (s *Service) Render(ctx context.Context, rentalID uuid.UUID) (*Invoice, error) {
	rental, err := s.reader.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.Status == rentals.StatusQuoted {
		return nil, common.NewConflictError("no invoice before payment", nil)
	}

	quote := rental.Quote
	invoice := &Invoice{
		RentalID: rental.ID,
		BikeID:   rental.BikeID,
		Status:   rental.Status,
		IssuedAt: time.Now().UTC(),
	}

	invoice.Lines = append(invoice.Lines, Line{
		Description: quote.BreakdownText,
		Amount:      quote.BasePrice,
	})
	if quote.WeekendSurcharge > 0 {
		invoice.Lines = append(invoice.Lines, Line{
			Description: "weekend surcharge",
			Amount:      quote.WeekendSurcharge,
		})
	}
	invoice.Lines = append(invoice.Lines, Line{
		Description: fmt.Sprintf("GST %.1f%%", quote.GSTPercentage),
		Amount:      quote.GSTAmount,
	})

	invoice.AmountDue = quote.Total

	if settlement := rental.Settlement; settlement != nil {
		if settlement.DistanceCharge > 0 {
			invoice.Lines = append(invoice.Lines, Line{
				Description: fmt.Sprintf("%.1f km beyond %.1f km allowance", settlement.ExcessKm, quote.IncludedKm),
				Amount:      settlement.DistanceCharge,
			})
		}
		if settlement.DelayCharge > 0 {
			invoice.Lines = append(invoice.Lines, Line{
				Description: fmt.Sprintf("late return (%d min)", settlement.DelayMinutes),
				Amount:      settlement.DelayCharge,
			})
		}
		invoice.AmountDue = settlement.FinalTotal
	}

	return invoice, nil
}
