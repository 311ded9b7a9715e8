package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/metrics"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/repository"
)

var (
	ErrCoffeeNotFound = repository.ErrCoffeeNotFound
	ErrEmptyRequest   = coffeespec.ErrEmptyRequest
	ErrUnknownCoffee  = coffeespec.ErrUnknownType
	ErrTooMuchSugar   = coffeespec.ErrTooMuchSugar
)

const (
	PricingFlat = "flat"
	PricingCafe = "cafe"
)

// Pricing picks how new orders are priced. Flat is also the fallback for
// sizes a cafe has not priced.
type Pricing struct {
	Strategy string
	Flat     decimal.Decimal
}

type CoffeeRepository interface {
	Create(ctx context.Context, coffee domain.Coffee) (domain.Coffee, error)
	FindByID(ctx context.Context, id uint) (domain.Coffee, error)
	FindByPersonID(ctx context.Context, userID uint) ([]domain.Coffee, error)
}

type CoffeeService struct {
	repo    CoffeeRepository
	runs    RunFinder
	cafes   CafeFinder
	events  EventRecorder
	pricing Pricing
	f       *timefmt.Formatter
}

func NewCoffeeService(
	repo CoffeeRepository,
	runs RunFinder,
	cafes CafeFinder,
	events EventRecorder,
	pricing Pricing,
	f *timefmt.Formatter,
) *CoffeeService {
	return &CoffeeService{
		repo:    repo,
		runs:    runs,
		cafes:   cafes,
		events:  events,
		pricing: pricing,
		f:       f,
	}
}

// Order places personID's drink request on an open run. A positive price
// replaces the computed one.
func (s *CoffeeService) Order(ctx context.Context, personID, runID uint, request string, price decimal.Decimal) (domain.Coffee, error) {
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("s.runs.FindByID -> %w", err)
	}
	if !run.IsOpen {
		return domain.Coffee{}, ErrRunClosed
	}

	pricer, err := s.pricerFor(ctx, run)
	if err != nil {
		return domain.Coffee{}, err
	}

	coffee, err := domain.NewCoffee(personID, run.ID, request, pricer, s.f.Now())
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("domain.NewCoffee -> %w", err)
	}
	if price.IsPositive() {
		coffee.Price = domain.ToCents(price)
	}

	created, err := s.repo.Create(ctx, coffee)
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("s.repo.Create -> %w", err)
	}
	metrics.CoffeesOrdered.Inc()

	if _, err = s.events.Record(ctx, personID, domain.ActionCreated, domain.CoffeeRef{ID: created.ID}); err != nil {
		return domain.Coffee{}, fmt.Errorf("s.events.Record -> %w", err)
	}

	return created, nil
}

func (s *CoffeeService) GetCoffee(ctx context.Context, id uint) (domain.Coffee, error) {
	coffee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return coffee, nil
}

func (s *CoffeeService) CoffeesOrderedBy(ctx context.Context, userID uint) ([]domain.Coffee, error) {
	coffees, err := s.repo.FindByPersonID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByPersonID -> %w", err)
	}

	return coffees, nil
}

func (s *CoffeeService) pricerFor(ctx context.Context, run domain.Run) (domain.Pricer, error) {
	flat := domain.NewFlatPricer(s.pricing.Flat)
	if s.pricing.Strategy != PricingCafe || run.CafeID == nil {
		return flat, nil
	}

	cafe, err := s.cafes.FindByID(ctx, *run.CafeID)
	if err != nil {
		if errors.Is(err, repository.ErrCafeNotFound) {
			return flat, nil
		}

		return nil, fmt.Errorf("s.cafes.FindByID -> %w", err)
	}

	return domain.NewCafePricer(cafe, flat), nil
}
