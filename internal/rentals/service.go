package rentals

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/common"
	"github.com/wheelio/bike-rental/pkg/logger"
	"github.com/wheelio/bike-rental/pkg/middleware"
)

// Service owns the rental lifecycle. Quotes are previews until payment;
// payment freezes the quote and settlement closes the books against it.
type Service struct {
	repo  RepositoryInterface
	bikes BikeReader
	cache QuoteCacheInterface
}

// NewService creates a rental service. cache may be nil, in which case
// every preview recomputes.
func NewService(repo RepositoryInterface, bikes BikeReader, cache QuoteCacheInterface) *Service {
	return &Service{repo: repo, bikes: bikes, cache: cache}
}

// quoteBike prices a window against a bike's tariff. When the resolved
// schedule cannot price this particular window, the flat-hourly fallback
// gets a chance before the error surfaces.
func (s *Service) quoteBike(ctx context.Context, tariff billing.TariffConfig, window billing.RentalWindow, slabName string) (*billing.Quote, error) {
	schedule, err := billing.Resolve(tariff)
	if err != nil {
		return nil, err
	}

	opts := billing.QuoteOptions{SlabName: slabName}
	quote, err := billing.ComputeQuote(schedule, window, opts)
	if errors.Is(err, billing.ErrIncompleteTariff) {
		if fallback, ok := billing.FlatHourlyFallback(tariff); ok {
			logger.WithContext(ctx).Debug("falling back to flat hourly pricing")
			quote, err = billing.ComputeQuote(fallback, window, opts)
		}
	}
	return quote, err
}

// PreviewQuote prices a window without creating a rental
func (s *Service) PreviewQuote(ctx context.Context, req QuoteRequest) (*billing.Quote, error) {
	bike, err := s.bikes.GetBike(ctx, req.BikeID)
	if err != nil {
		return nil, err
	}

	window := billing.RentalWindow{Pickup: req.Pickup, Dropoff: req.Dropoff}
	key := QuoteKey(bike.ID, window, req.SlabName)
	if s.cache != nil {
		if quote, ok := s.cache.Get(ctx, key); ok {
			return quote, nil
		}
	}

	quote, err := s.quoteBike(ctx, bike.Tariff, window, req.SlabName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, quote)
	}
	middleware.CountQuote(string(quote.Model))
	return quote, nil
}

// CreateRental books a bike at a freshly computed quote. The booking
// never trusts a cached preview.
func (s *Service) CreateRental(ctx context.Context, riderID uuid.UUID, req CreateRentalRequest) (*Rental, error) {
	bike, err := s.bikes.GetBike(ctx, req.BikeID)
	if err != nil {
		return nil, err
	}
	if !bike.IsActive {
		return nil, common.NewConflictError("bike is not available for rental", nil)
	}

	window := billing.RentalWindow{Pickup: req.Pickup, Dropoff: req.Dropoff}
	quote, err := s.quoteBike(ctx, bike.Tariff, window, req.SlabName)
	if err != nil {
		return nil, err
	}

	rental := &Rental{
		ID:       uuid.New(),
		BikeID:   bike.ID,
		RiderID:  riderID,
		Status:   StatusQuoted,
		Window:   window,
		SlabName: req.SlabName,
		Quote:    quote,
	}
	if err := s.repo.CreateRental(ctx, rental); err != nil {
		return nil, err
	}

	middleware.CountQuote(string(quote.Model))
	logger.WithContext(ctx).Info("rental created",
		zap.String("rental_id", rental.ID.String()),
		zap.String("bike_id", bike.ID.String()),
		zap.Float64("total", quote.Total))
	return rental, nil
}

func (s *Service) GetRental(ctx context.Context, id uuid.UUID) (*Rental, error) {
	return s.repo.GetRental(ctx, id)
}

// QuoteForRental reprices a stored rental's window against the bike's
// current tariff. The payment flow uses it to detect tariff drift since
// the rental was quoted.
func (s *Service) QuoteForRental(ctx context.Context, rental *Rental) (*billing.Quote, error) {
	bike, err := s.bikes.GetBike(ctx, rental.BikeID)
	if err != nil {
		return nil, err
	}
	return s.quoteBike(ctx, bike.Tariff, rental.Window, rental.SlabName)
}

// MarkPaid transitions a quoted rental to paid, freezing its quote
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	return s.repo.MarkPaid(ctx, id, paymentRef)
}

// Settle closes the books on a paid rental. Settling an already-settled
// rental returns the stored settlement unchanged; settling an unpaid one
// is rejected with the rental's current state.
func (s *Service) Settle(ctx context.Context, id uuid.UUID, req SettleRequest) (*SettleResult, error) {
	rental, err := s.repo.GetRental(ctx, id)
	if err != nil {
		return nil, err
	}

	switch rental.Status {
	case StatusSettled:
		return &SettleResult{
			Status:         StatusSettled,
			Settlement:     rental.Settlement,
			AlreadySettled: true,
		}, nil
	case StatusPaid:
		// fall through to computation
	default:
		return nil, common.NewConflictError(fmt.Sprintf("rental is %s, not paid", rental.Status), nil)
	}

	bike, err := s.bikes.GetBike(ctx, rental.BikeID)
	if err != nil {
		return nil, err
	}

	facts := billing.SettlementFacts{
		StartKm:          req.StartKm,
		EndKm:            req.EndKm,
		ScheduledDropoff: rental.Window.Dropoff,
		ActualReturn:     req.ActualReturn,
	}
	settlement, err := billing.ComputeSettlement(bike.Tariff, rental.Quote, facts)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveSettlement(ctx, id, facts, settlement); err != nil {
		// Lost the race to another settle; report the stored outcome.
		var appErr *common.AppError
		if errors.As(err, &appErr) && appErr.Status == http.StatusConflict {
			stored, getErr := s.repo.GetRental(ctx, id)
			if getErr == nil && stored.Status == StatusSettled {
				return &SettleResult{
					Status:         StatusSettled,
					Settlement:     stored.Settlement,
					AlreadySettled: true,
				}, nil
			}
		}
		return nil, err
	}

	middleware.CountSettlement()
	logger.WithContext(ctx).Info("rental settled",
		zap.String("rental_id", id.String()),
		zap.Float64("extras", settlement.Extras),
		zap.Float64("final_total", settlement.FinalTotal))
	return &SettleResult{Status: StatusSettled, Settlement: settlement}, nil
}
