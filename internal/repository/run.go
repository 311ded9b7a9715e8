package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

var (
	ErrRunNotFound = dao.ErrRunNotFound
	ErrRunClosed   = domain.ErrRunClosed
)

type RunDAO interface {
	Insert(ctx context.Context, run dao.Run) (dao.Run, error)
	FindByID(ctx context.Context, id uint) (dao.Run, error)
	FindAll(ctx context.Context) ([]dao.Run, error)
	FindByFetcherID(ctx context.Context, userID uint) ([]dao.Run, error)
	Close(ctx context.Context, id uint, settle dao.SettleFunc) (dao.Run, []dao.MoneyExchange, error)
}

type RunRepository struct {
	dao RunDAO
}

func NewRunRepository(dao RunDAO) *RunRepository {
	return &RunRepository{
		dao: dao,
	}
}

func (r *RunRepository) Create(ctx context.Context, run domain.Run) (domain.Run, error) {
	created, err := r.dao.Insert(ctx, dao.Run{
		FetcherID: run.FetcherID,
		CafeID:    run.CafeID,
		Time:      run.Time,
		Pickup:    run.Pickup,
		IsOpen:    run.IsOpen,
		Modified:  run.Modified,
	})
	if err != nil {
		return domain.Run{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return runToDomain(created)
}

// FindByID loads the run with its fetcher, cafe and every coffee ordered on
// it.
func (r *RunRepository) FindByID(ctx context.Context, id uint) (domain.Run, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Run{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return runToDomain(found)
}

func (r *RunRepository) FindAll(ctx context.Context) ([]domain.Run, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return runsToDomain(found)
}

func (r *RunRepository) FindByFetcherID(ctx context.Context, userID uint) ([]domain.Run, error) {
	found, err := r.dao.FindByFetcherID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByFetcherID -> %w", err)
	}

	return runsToDomain(found)
}

// SettleFunc is handed the run with every order on it at the moment it
// closes.
type SettleFunc func(run domain.Run) ([]domain.MoneyExchange, error)

// Close marks the run closed and stores the exchanges settle works out for
// it, atomically.
func (r *RunRepository) Close(ctx context.Context, id uint, settle SettleFunc) (domain.Run, []domain.MoneyExchange, error) {
	closed, saved, err := r.dao.Close(ctx, id, func(found dao.Run) ([]dao.MoneyExchange, error) {
		run, err := runToDomain(found)
		if err != nil {
			return nil, err
		}

		exchanges, err := settle(run)
		if err != nil {
			return nil, err
		}

		daoExchanges := make([]dao.MoneyExchange, len(exchanges))
		for i, e := range exchanges {
			daoExchanges[i] = exchangeToDAO(e)
		}

		return daoExchanges, nil
	})
	if err != nil {
		if errors.Is(err, dao.ErrRunClosed) {
			return domain.Run{}, nil, ErrRunClosed
		}

		return domain.Run{}, nil, fmt.Errorf("r.dao.Close -> %w", err)
	}

	run, err := runToDomain(closed)
	if err != nil {
		return domain.Run{}, nil, err
	}

	return run, exchangesToDomain(saved), nil
}

func runToDomain(r dao.Run) (domain.Run, error) {
	run := domain.Run{
		ID:        r.ID,
		FetcherID: r.FetcherID,
		Fetcher:   userToDomain(r.Fetcher),
		CafeID:    r.CafeID,
		Time:      r.Time,
		Pickup:    r.Pickup,
		IsOpen:    r.IsOpen,
		Modified:  r.Modified,
	}

	if r.Cafe != nil {
		cafe := cafeToDomain(*r.Cafe)
		run.Cafe = &cafe
	}

	if len(r.Coffees) > 0 {
		run.Coffees = make([]domain.Coffee, len(r.Coffees))
		for i, c := range r.Coffees {
			coffee, err := coffeeToDomain(c)
			if err != nil {
				return domain.Run{}, err
			}
			run.Coffees[i] = coffee
		}
	}

	return run, nil
}

func runsToDomain(found []dao.Run) ([]domain.Run, error) {
	runs := make([]domain.Run, len(found))
	for i, r := range found {
		run, err := runToDomain(r)
		if err != nil {
			return nil, err
		}
		runs[i] = run
	}

	return runs, nil
}
