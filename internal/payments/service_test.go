package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/internal/rentals"
	"github.com/wheelio/bike-rental/pkg/common"
)

type fakeBooks struct {
	rental       *rentals.Rental
	currentQuote *billing.Quote
	quoteErr     error
	markPaidErr  error
	paidRef      string
}

func (b *fakeBooks) GetRental(_ context.Context, id uuid.UUID) (*rentals.Rental, error) {
	if b.rental == nil || b.rental.ID != id {
		return nil, common.NewNotFoundError("rental not found", nil)
	}
	return b.rental, nil
}

func (b *fakeBooks) QuoteForRental(_ context.Context, _ *rentals.Rental) (*billing.Quote, error) {
	return b.currentQuote, b.quoteErr
}

func (b *fakeBooks) MarkPaid(_ context.Context, _ uuid.UUID, ref string) error {
	if b.markPaidErr != nil {
		return b.markPaidErr
	}
	b.paidRef = ref
	b.rental.Status = rentals.StatusPaid
	return nil
}

type fakeGateway struct {
	calls int
	err   error
}

func (g *fakeGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &ChargeResult{Reference: "pi_test_123", Status: "succeeded"}, nil
}

func quotedRental(total float64) *rentals.Rental {
	pickup := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	return &rentals.Rental{
		ID:      uuid.New(),
		BikeID:  uuid.New(),
		RiderID: uuid.New(),
		Status:  rentals.StatusQuoted,
		Window:  billing.RentalWindow{Pickup: pickup, Dropoff: pickup.Add(3 * time.Hour)},
		Quote:   &billing.Quote{Model: billing.ModelSimple, Total: total},
	}
}

func TestConfirmPayment(t *testing.T) {
	rental := quotedRental(354.0)
	books := &fakeBooks{rental: rental, currentQuote: &billing.Quote{Total: 354.0}}
	gateway := &fakeGateway{}
	svc := NewService(books, gateway, 0.01, "inr")

	result, err := svc.ConfirmPayment(context.Background(), rental.ID)
	require.NoError(t, err)

	assert.Equal(t, "pi_test_123", result.Reference)
	assert.Equal(t, 354.0, result.Amount)
	assert.Equal(t, "inr", result.Currency)
	assert.Equal(t, rentals.StatusPaid, result.Status)
	assert.Equal(t, "pi_test_123", books.paidRef)
	assert.Equal(t, 1, gateway.calls)
}

func TestConfirmPayment_WithinEpsilon(t *testing.T) {
	// Sub-paisa drift from repricing is tolerated.
	rental := quotedRental(354.0)
	books := &fakeBooks{rental: rental, currentQuote: &billing.Quote{Total: 354.01}}
	gateway := &fakeGateway{}
	svc := NewService(books, gateway, 0.01, "inr")

	result, err := svc.ConfirmPayment(context.Background(), rental.ID)
	require.NoError(t, err)
	// The frozen quote is what gets charged, not the reprice.
	assert.Equal(t, 354.0, result.Amount)
}

func TestConfirmPayment_StaleQuote(t *testing.T) {
	rental := quotedRental(354.0)
	books := &fakeBooks{rental: rental, currentQuote: &billing.Quote{Total: 531.0}}
	gateway := &fakeGateway{}
	svc := NewService(books, gateway, 0.01, "inr")

	_, err := svc.ConfirmPayment(context.Background(), rental.ID)
	require.Error(t, err)
	assert.Equal(t, 409, common.StatusFromError(err))
	assert.Equal(t, 0, gateway.calls, "stale quote must block the charge")
	assert.Equal(t, rentals.StatusQuoted, rental.Status)
}

func TestConfirmPayment_AlreadyPaid(t *testing.T) {
	rental := quotedRental(354.0)
	rental.Status = rentals.StatusPaid
	books := &fakeBooks{rental: rental}
	gateway := &fakeGateway{}
	svc := NewService(books, gateway, 0.01, "inr")

	_, err := svc.ConfirmPayment(context.Background(), rental.ID)
	require.Error(t, err)
	assert.Equal(t, 409, common.StatusFromError(err))
	assert.Equal(t, 0, gateway.calls)
}

func TestConfirmPayment_GatewayFailure(t *testing.T) {
	rental := quotedRental(354.0)
	books := &fakeBooks{rental: rental, currentQuote: &billing.Quote{Total: 354.0}}
	gateway := &fakeGateway{err: errors.New("card declined")}
	svc := NewService(books, gateway, 0.01, "inr")

	_, err := svc.ConfirmPayment(context.Background(), rental.ID)
	require.Error(t, err)
	assert.Equal(t, rentals.StatusQuoted, rental.Status, "failed charge must not freeze the quote")
}

func TestManualGateway(t *testing.T) {
	gateway := NewManualGateway()

	result, err := gateway.Charge(context.Background(), ChargeRequest{Amount: 100, Currency: "inr"})
	require.NoError(t, err)
	assert.Contains(t, result.Reference, "manual_")
	assert.Equal(t, "succeeded", result.Status)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(35400), toMinorUnits(354.0))
	assert.Equal(t, int64(35401), toMinorUnits(354.01))
	assert.Equal(t, int64(0), toMinorUnits(0))
}
