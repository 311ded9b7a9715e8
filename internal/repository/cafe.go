package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

var (
	ErrCafeNotFound  = dao.ErrCafeNotFound
	ErrPriceNotFound = dao.ErrPriceNotFound
)

type CafeDAO interface {
	Insert(ctx context.Context, cafe dao.Cafe) (dao.Cafe, error)
	FindByID(ctx context.Context, id uint) (dao.Cafe, error)
	FindAll(ctx context.Context) ([]dao.Cafe, error)
	Delete(ctx context.Context, id uint) error
	InsertPrice(ctx context.Context, price dao.Price) (dao.Price, error)
	FindPriceByID(ctx context.Context, id uint) (dao.Price, error)
	InsertModifier(ctx context.Context, modifier dao.PriceModifier) (dao.PriceModifier, error)
}

type CafeRepository struct {
	dao CafeDAO
}

func NewCafeRepository(dao CafeDAO) *CafeRepository {
	return &CafeRepository{
		dao: dao,
	}
}

func (r *CafeRepository) Create(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error) {
	created, err := r.dao.Insert(ctx, dao.Cafe{
		Name:     cafe.Name,
		Location: cafe.Location,
	})
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return cafeToDomain(created), nil
}

func (r *CafeRepository) FindByID(ctx context.Context, id uint) (domain.Cafe, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return cafeToDomain(found), nil
}

func (r *CafeRepository) FindAll(ctx context.Context) ([]domain.Cafe, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	cafes := make([]domain.Cafe, len(found))
	for i, c := range found {
		cafes[i] = cafeToDomain(c)
	}

	return cafes, nil
}

func (r *CafeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CafeRepository) CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error) {
	created, err := r.dao.InsertPrice(ctx, dao.Price{
		CafeID: price.CafeID,
		Size:   string(price.Size),
		Amount: price.Amount,
	})
	if err != nil {
		return domain.Price{}, fmt.Errorf("r.dao.InsertPrice -> %w", err)
	}

	return priceToDomain(created), nil
}

// FindPriceByID loads the price and the cafe it belongs to.
func (r *CafeRepository) FindPriceByID(ctx context.Context, id uint) (domain.Price, error) {
	found, err := r.dao.FindPriceByID(ctx, id)
	if err != nil {
		return domain.Price{}, fmt.Errorf("r.dao.FindPriceByID -> %w", err)
	}

	price := priceToDomain(found)

	cafe, err := r.dao.FindByID(ctx, found.CafeID)
	switch {
	case err == nil:
		c := cafeToDomain(cafe)
		price.Cafe = &c
	case !errors.Is(err, dao.ErrCafeNotFound):
		return domain.Price{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return price, nil
}

func (r *CafeRepository) CreateModifier(ctx context.Context, modifier domain.PriceModifier) (domain.PriceModifier, error) {
	created, err := r.dao.InsertModifier(ctx, dao.PriceModifier{
		CafeID:  modifier.CafeID,
		ModType: modifier.ModType,
		Amount:  modifier.Amount,
	})
	if err != nil {
		return domain.PriceModifier{}, fmt.Errorf("r.dao.InsertModifier -> %w", err)
	}

	return modifierToDomain(created), nil
}

func cafeToDomain(c dao.Cafe) domain.Cafe {
	cafe := domain.Cafe{
		ID:       c.ID,
		Name:     c.Name,
		Location: c.Location,
	}

	if len(c.Prices) > 0 {
		cafe.Prices = make([]domain.Price, len(c.Prices))
		for i, p := range c.Prices {
			cafe.Prices[i] = priceToDomain(p)
		}
	}

	if len(c.Modifiers) > 0 {
		cafe.Modifiers = make([]domain.PriceModifier, len(c.Modifiers))
		for i, m := range c.Modifiers {
			cafe.Modifiers[i] = modifierToDomain(m)
		}
	}

	return cafe
}

func priceToDomain(p dao.Price) domain.Price {
	return domain.Price{
		ID:     p.ID,
		CafeID: p.CafeID,
		Size:   coffeespec.Size(p.Size),
		Amount: p.Amount,
	}
}

func modifierToDomain(m dao.PriceModifier) domain.PriceModifier {
	return domain.PriceModifier{
		ID:      m.ID,
		CafeID:  m.CafeID,
		ModType: m.ModType,
		Amount:  m.Amount,
	}
}
