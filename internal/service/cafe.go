package service

import (
	"context"
	"fmt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository"
)

var (
	ErrCafeNotFound  = repository.ErrCafeNotFound
	ErrPriceNotFound = repository.ErrPriceNotFound
	ErrNegativePrice = domain.ErrNegativeAmount
)

type CafeRepository interface {
	Create(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error)
	FindByID(ctx context.Context, id uint) (domain.Cafe, error)
	FindAll(ctx context.Context) ([]domain.Cafe, error)
	Delete(ctx context.Context, id uint) error
	CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error)
	FindPriceByID(ctx context.Context, id uint) (domain.Price, error)
	CreateModifier(ctx context.Context, modifier domain.PriceModifier) (domain.PriceModifier, error)
}

// EventRecorder appends to the audit log.
type EventRecorder interface {
	Record(ctx context.Context, userID uint, action domain.Action, object domain.ObjectRef) (domain.Event, error)
}

type CafeService struct {
	repo   CafeRepository
	events EventRecorder
}

func NewCafeService(repo CafeRepository, events EventRecorder) *CafeService {
	return &CafeService{
		repo:   repo,
		events: events,
	}
}

func (s *CafeService) CreateCafe(ctx context.Context, userID uint, cafe domain.Cafe) (domain.Cafe, error) {
	created, err := s.repo.Create(ctx, cafe)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if _, err = s.events.Record(ctx, userID, domain.ActionCreated, domain.CafeRef{ID: created.ID}); err != nil {
		return domain.Cafe{}, fmt.Errorf("s.events.Record -> %w", err)
	}

	return created, nil
}

func (s *CafeService) GetCafe(ctx context.Context, id uint) (domain.Cafe, error) {
	cafe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return cafe, nil
}

func (s *CafeService) ListCafes(ctx context.Context) ([]domain.Cafe, error) {
	cafes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return cafes, nil
}

// DeleteCafe removes the cafe and its price list. Runs that went to the
// cafe are kept.
func (s *CafeService) DeleteCafe(ctx context.Context, userID, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if _, err := s.events.Record(ctx, userID, domain.ActionDeleted, domain.CafeRef{ID: id}); err != nil {
		return fmt.Errorf("s.events.Record -> %w", err)
	}

	return nil
}

func (s *CafeService) AddPrice(ctx context.Context, userID uint, price domain.Price) (domain.Price, error) {
	if price.Amount.IsNegative() {
		return domain.Price{}, ErrNegativePrice
	}

	cafe, err := s.repo.FindByID(ctx, price.CafeID)
	if err != nil {
		return domain.Price{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreatePrice(ctx, price)
	if err != nil {
		return domain.Price{}, fmt.Errorf("s.repo.CreatePrice -> %w", err)
	}
	created.Cafe = &cafe

	if _, err = s.events.Record(ctx, userID, domain.ActionCreated, domain.PriceRef{ID: created.ID}); err != nil {
		return domain.Price{}, fmt.Errorf("s.events.Record -> %w", err)
	}

	return created, nil
}

func (s *CafeService) GetPrice(ctx context.Context, id uint) (domain.Price, error) {
	price, err := s.repo.FindPriceByID(ctx, id)
	if err != nil {
		return domain.Price{}, fmt.Errorf("s.repo.FindPriceByID -> %w", err)
	}

	return price, nil
}

// AddModifier adds a surcharge to the cafe. It is logged as an update to
// the cafe.
func (s *CafeService) AddModifier(ctx context.Context, userID uint, modifier domain.PriceModifier) (domain.PriceModifier, error) {
	if modifier.Amount.IsNegative() {
		return domain.PriceModifier{}, ErrNegativePrice
	}

	if _, err := s.repo.FindByID(ctx, modifier.CafeID); err != nil {
		return domain.PriceModifier{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.CreateModifier(ctx, modifier)
	if err != nil {
		return domain.PriceModifier{}, fmt.Errorf("s.repo.CreateModifier -> %w", err)
	}

	if _, err = s.events.Record(ctx, userID, domain.ActionUpdated, domain.CafeRef{ID: modifier.CafeID}); err != nil {
		return domain.PriceModifier{}, fmt.Errorf("s.events.Record -> %w", err)
	}

	return created, nil
}
