package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/metrics"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/repository"
)

var (
	ErrRunNotFound = repository.ErrRunNotFound
	ErrRunClosed   = repository.ErrRunClosed
)

type RunRepository interface {
	Create(ctx context.Context, run domain.Run) (domain.Run, error)
	FindByID(ctx context.Context, id uint) (domain.Run, error)
	FindAll(ctx context.Context) ([]domain.Run, error)
	FindByFetcherID(ctx context.Context, userID uint) ([]domain.Run, error)
	Close(ctx context.Context, id uint, settle repository.SettleFunc) (domain.Run, []domain.MoneyExchange, error)
}

type RunService struct {
	repo   RunRepository
	cafes  CafeFinder
	events EventRecorder
	policy domain.SettlementPolicy
	f      *timefmt.Formatter
}

func NewRunService(
	repo RunRepository,
	cafes CafeFinder,
	events EventRecorder,
	policy domain.SettlementPolicy,
	f *timefmt.Formatter,
) *RunService {
	return &RunService{
		repo:   repo,
		cafes:  cafes,
		events: events,
		policy: policy,
		f:      f,
	}
}

// CreateRun opens a new run fetched by fetcherID.
func (s *RunService) CreateRun(ctx context.Context, fetcherID uint, cafeID uint, at time.Time, pickup string) (domain.Run, error) {
	if cafeID != 0 {
		if _, err := s.cafes.FindByID(ctx, cafeID); err != nil {
			return domain.Run{}, fmt.Errorf("s.cafes.FindByID -> %w", err)
		}
	}

	created, err := s.repo.Create(ctx, domain.NewRun(fetcherID, cafeID, at, pickup, s.f.Now()))
	if err != nil {
		return domain.Run{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if _, err = s.events.Record(ctx, fetcherID, domain.ActionCreated, domain.RunRef{ID: created.ID}); err != nil {
		return domain.Run{}, fmt.Errorf("s.events.Record -> %w", err)
	}

	return created, nil
}

func (s *RunService) GetRun(ctx context.Context, id uint) (domain.Run, error) {
	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Run{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return run, nil
}

func (s *RunService) ListRuns(ctx context.Context) ([]domain.Run, error) {
	runs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return runs, nil
}

func (s *RunService) RunsFetchedBy(ctx context.Context, userID uint) ([]domain.Run, error) {
	runs, err := s.repo.FindByFetcherID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByFetcherID -> %w", err)
	}

	return runs, nil
}

// TotalRunCost sums the listed price of every coffee on the run.
func (s *RunService) TotalRunCost(ctx context.Context, id uint) (decimal.Decimal, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	return run.TotalCost(), nil
}

// CloseRun stops the run taking orders and records what each orderer owes
// the fetcher. totalCost is what the fetcher paid in cents; zero means the
// listed prices. The split is worked out from the orders on the run at the
// moment it closes.
func (s *RunService) CloseRun(ctx context.Context, userID, id uint, totalCost int) (domain.Run, []domain.MoneyExchange, error) {
	run, exchanges, err := s.repo.Close(ctx, id, func(run domain.Run) ([]domain.MoneyExchange, error) {
		if err := run.Close(); err != nil {
			return nil, err
		}

		return s.policy.Settle(run, totalCost), nil
	})
	if err != nil {
		return domain.Run{}, nil, fmt.Errorf("s.repo.Close -> %w", err)
	}
	metrics.RunsClosed.Inc()

	zap.L().Info("run closed",
		zap.Uint("run_id", run.ID),
		zap.Uint("closed_by", userID),
		zap.Int("exchanges", len(exchanges)),
	)

	if _, err = s.events.Record(ctx, userID, domain.ActionClosed, domain.RunRef{ID: run.ID}); err != nil {
		return domain.Run{}, nil, fmt.Errorf("s.events.Record -> %w", err)
	}

	return run, exchanges, nil
}
