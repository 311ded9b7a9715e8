package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/repository"
)

const DefaultEventLimit = 50

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Event, error)
	FindByUserID(ctx context.Context, userID uint, limit int) ([]domain.Event, error)
}

type RunFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Run, error)
}

type CoffeeFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Coffee, error)
}

type CafeFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Cafe, error)
}

type PriceFinder interface {
	FindPriceByID(ctx context.Context, id uint) (domain.Price, error)
}

// EventPublisher is told about every event after it is stored.
type EventPublisher interface {
	Publish(event domain.Event)
}

type EventService struct {
	repo    EventRepository
	runs    RunFinder
	coffees CoffeeFinder
	cafes   CafeFinder
	prices  PriceFinder
	f       *timefmt.Formatter

	mu         sync.RWMutex
	publishers []EventPublisher
}

func NewEventService(
	repo EventRepository,
	runs RunFinder,
	coffees CoffeeFinder,
	cafes CafeFinder,
	prices PriceFinder,
	f *timefmt.Formatter,
) *EventService {
	return &EventService{
		repo:    repo,
		runs:    runs,
		coffees: coffees,
		cafes:   cafes,
		prices:  prices,
		f:       f,
	}
}

func (s *EventService) Subscribe(p EventPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishers = append(s.publishers, p)
}

// Record stores that userID performed action on object and notifies
// subscribers.
func (s *EventService) Record(ctx context.Context, userID uint, action domain.Action, object domain.ObjectRef) (domain.Event, error) {
	created, err := s.repo.Create(ctx, domain.NewEvent(userID, action, object, s.f.Now()))
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.mu.RLock()
	for _, p := range s.publishers {
		p.Publish(created)
	}
	s.mu.RUnlock()

	return created, nil
}

func (s *EventService) Recent(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	events, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRecent -> %w", err)
	}

	return events, nil
}

func (s *EventService) ByUser(ctx context.Context, userID uint, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}

	events, err := s.repo.FindByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return events, nil
}

// Describe renders a short html fragment about the event's object. Events
// for deleted objects, unknown kinds and objects that no longer exist
// describe as the empty string.
func (s *EventService) Describe(ctx context.Context, e domain.Event) (string, error) {
	if e.Action == domain.ActionDeleted {
		return "", nil
	}

	switch ref := e.Object.(type) {
	case domain.RunRef:
		run, err := s.runs.FindByID(ctx, ref.ID)
		if err != nil {
			return missing(err, repository.ErrRunNotFound, "s.runs.FindByID")
		}
		return fmt.Sprintf("for time %s", run.ReadTime(s.f)), nil

	case domain.CoffeeRef:
		coffee, err := s.coffees.FindByID(ctx, ref.ID)
		if err != nil {
			return missing(err, repository.ErrCoffeeNotFound, "s.coffees.FindByID")
		}
		if coffee.Run == nil {
			return "", nil
		}
		return fmt.Sprintf(`for <a href="/run/%d/">run</a> at time %s`, coffee.Run.ID, coffee.Run.ReadTime(s.f)), nil

	case domain.CafeRef:
		cafe, err := s.cafes.FindByID(ctx, ref.ID)
		if err != nil {
			return missing(err, repository.ErrCafeNotFound, "s.cafes.FindByID")
		}
		return fmt.Sprintf("named '%s'", cafe.Name), nil

	case domain.PriceRef:
		price, err := s.prices.FindPriceByID(ctx, ref.ID)
		if err != nil {
			return missing(err, repository.ErrPriceNotFound, "s.prices.FindPriceByID")
		}
		if price.Cafe == nil {
			return "", nil
		}
		return fmt.Sprintf(`for <a href="/cafe/%d/">cafe</a> '%s'`, price.Cafe.ID, price.Cafe.Name), nil

	default:
		return "", nil
	}
}

// DescribeAll pairs each event with its description. A failed lookup is
// logged and leaves that description empty.
func (s *EventService) DescribeAll(ctx context.Context, events []domain.Event) []string {
	descriptions := make([]string, len(events))
	for i, e := range events {
		d, err := s.Describe(ctx, e)
		if err != nil {
			zap.L().Warn("describe event", zap.Uint("event_id", e.ID), zap.Error(err))
			continue
		}
		descriptions[i] = d
	}

	return descriptions
}

func missing(err, notFound error, op string) (string, error) {
	if errors.Is(err, notFound) {
		return "", nil
	}

	return "", fmt.Errorf("%s -> %w", op, err)
}
