package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

var ErrCoffeeNotFound = dao.ErrCoffeeNotFound

type CoffeeDAO interface {
	Insert(ctx context.Context, coffee dao.Coffee) (dao.Coffee, error)
	FindByID(ctx context.Context, id uint) (dao.Coffee, error)
	FindByPersonID(ctx context.Context, userID uint) ([]dao.Coffee, error)
}

type CoffeeRepository struct {
	dao CoffeeDAO
}

func NewCoffeeRepository(dao CoffeeDAO) *CoffeeRepository {
	return &CoffeeRepository{
		dao: dao,
	}
}

// Create stores the order. The run must exist and still be open.
func (r *CoffeeRepository) Create(ctx context.Context, coffee domain.Coffee) (domain.Coffee, error) {
	spec, err := coffee.Spec.JSON()
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("coffee.Spec.JSON -> %w", err)
	}

	created, err := r.dao.Insert(ctx, dao.Coffee{
		PersonID: coffee.PersonID,
		RunID:    coffee.RunID,
		Spec:     datatypes.JSON(spec),
		Price:    coffee.Price,
		Modified: coffee.Modified,
	})
	if err != nil {
		if errors.Is(err, dao.ErrRunClosed) {
			return domain.Coffee{}, ErrRunClosed
		}

		return domain.Coffee{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return coffeeToDomain(created)
}

func (r *CoffeeRepository) FindByID(ctx context.Context, id uint) (domain.Coffee, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return coffeeToDomain(found)
}

func (r *CoffeeRepository) FindByPersonID(ctx context.Context, userID uint) ([]domain.Coffee, error) {
	found, err := r.dao.FindByPersonID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPersonID -> %w", err)
	}

	coffees := make([]domain.Coffee, len(found))
	for i, c := range found {
		coffee, err := coffeeToDomain(c)
		if err != nil {
			return nil, err
		}
		coffees[i] = coffee
	}

	return coffees, nil
}

func coffeeToDomain(c dao.Coffee) (domain.Coffee, error) {
	spec, err := coffeespec.FromJSON(c.Spec)
	if err != nil {
		return domain.Coffee{}, fmt.Errorf("coffee %d: coffeespec.FromJSON -> %w", c.ID, err)
	}

	coffee := domain.Coffee{
		ID:       c.ID,
		PersonID: c.PersonID,
		Person:   userToDomain(c.Person),
		RunID:    c.RunID,
		Spec:     spec,
		Price:    c.Price,
		Modified: c.Modified,
	}

	if c.Run != nil {
		run, err := runToDomain(*c.Run)
		if err != nil {
			return domain.Coffee{}, err
		}
		coffee.Run = &run
	}

	return coffee, nil
}
