package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository"
	"github.com/ncss/coffeerun/internal/service"
)

func TestRunService_TotalRunCost(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	run := fx.run(t, fetcher, 0)

	total, err := fx.runSvc.TotalRunCost(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	for i := 0; i < 3; i++ {
		fx.order(t, fetcher, run, "flat white")
	}

	total, err = fx.runSvc.TotalRunCost(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(12)), "got %s", total)
}

func TestRunService_CloseRun(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	bea := fx.user(t, "bea")
	cal := fx.user(t, "cal")

	run := fx.run(t, fetcher, 0)
	fx.order(t, fetcher, run, "latte")
	fx.order(t, bea, run, "latte")
	fx.order(t, bea, run, "mocha")
	fx.order(t, cal, run, "long black")

	closed, exchanges, err := fx.runSvc.CloseRun(ctx, fetcher.ID, run.ID, 1000)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen)
	require.Len(t, exchanges, 2)
	assert.Equal(t, bea.ID, exchanges[0].PayerID)
	assert.Equal(t, 500, exchanges[0].Amount)
	assert.Equal(t, cal.ID, exchanges[1].PayerID)
	assert.Equal(t, 250, exchanges[1].Amount)
	for _, e := range exchanges {
		assert.Equal(t, fetcher.ID, e.PayeeID)
		require.NotNil(t, e.RunID)
		assert.Equal(t, run.ID, *e.RunID)
	}

	owed, err := fx.userSvc.MoneyOwed(ctx, fetcher.ID)
	require.NoError(t, err)
	assert.Equal(t, 750, owed)

	owing, err := fx.userSvc.MoneyOwing(ctx, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, owing)

	_, _, err = fx.runSvc.CloseRun(ctx, fetcher.ID, run.ID, 0)
	assert.ErrorIs(t, err, service.ErrRunClosed)

	reloaded, err := fx.runSvc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsOpen)
}

func TestRunService_CloseRunAtListedPrices(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	bea := fx.user(t, "bea")

	run := fx.run(t, fetcher, 0)
	fx.order(t, bea, run, "latte")

	_, exchanges, err := fx.runSvc.CloseRun(ctx, fetcher.ID, run.ID, 0)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, 400, exchanges[0].Amount)

	events, err := fx.eventSvc.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionClosed, events[0].Action)
	assert.Equal(t, domain.RunRef{ID: run.ID}, events[0].Object)
}

func TestRunService_CreateRunErrors(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")

	_, err := fx.runSvc.CreateRun(ctx, fetcher.ID, 42, runTime, "")
	assert.ErrorIs(t, err, service.ErrCafeNotFound)

	_, err = fx.runSvc.GetRun(ctx, 42)
	assert.ErrorIs(t, err, service.ErrRunNotFound)

	_, _, err = fx.runSvc.CloseRun(ctx, fetcher.ID, 42, 0)
	assert.ErrorIs(t, err, service.ErrRunNotFound)
}

func TestRunService_ListRunsOpenFirst(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")

	first := fx.run(t, fetcher, 0)
	second := fx.run(t, fetcher, 0)
	_, _, err := fx.runSvc.CloseRun(ctx, fetcher.ID, second.ID, 0)
	require.NoError(t, err)

	runs, err := fx.runSvc.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.True(t, runs[0].IsOpen)
	assert.Equal(t, "fetcher", runs[0].Fetcher.Name)

	fetched, err := fx.runSvc.RunsFetchedBy(ctx, fetcher.ID)
	require.NoError(t, err)
	assert.Len(t, fetched, 2)
}

// lateOrderRuns places an order on the run right before handing the close
// to the real repository.
type lateOrderRuns struct {
	service.RunRepository
	order func(runID uint)
}

func (r lateOrderRuns) Close(ctx context.Context, id uint, settle repository.SettleFunc) (domain.Run, []domain.MoneyExchange, error) {
	r.order(id)
	return r.RunRepository.Close(ctx, id, settle)
}

func TestRunService_CloseRunSettlesLateOrder(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	bea := fx.user(t, "bea")
	cal := fx.user(t, "cal")

	run := fx.run(t, fetcher, 0)
	fx.order(t, bea, run, "latte")

	var late domain.Coffee
	runs := lateOrderRuns{
		RunRepository: fx.runs,
		order: func(runID uint) {
			late = fx.order(t, cal, domain.Run{ID: runID}, "mocha")
		},
	}
	svc := service.NewRunService(runs, fx.cafes, fx.eventSvc, domain.ProportionalSplit{}, fx.f)

	closed, exchanges, err := svc.CloseRun(ctx, fetcher.ID, run.ID, 0)
	require.NoError(t, err)
	require.Len(t, closed.Coffees, 2)
	assert.Equal(t, late.ID, closed.Coffees[1].ID)

	require.Len(t, exchanges, 2)
	assert.Equal(t, cal.ID, exchanges[1].PayerID)
	assert.Equal(t, late.Price, exchanges[1].Amount)

	owing, err := fx.userSvc.MoneyOwing(ctx, cal.ID)
	require.NoError(t, err)
	assert.Equal(t, late.Price, owing)
}

func TestRunService_CloseRunWhileOrdering(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	fetcher := fx.user(t, "fetcher")
	run := fx.run(t, fetcher, 0)

	drinkers := make([]domain.User, 8)
	for i := range drinkers {
		drinkers[i] = fx.user(t, fmt.Sprintf("drinker%d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted = make(map[uint]int)
	)
	for _, d := range drinkers {
		wg.Add(1)
		go func(d domain.User) {
			defer wg.Done()
			c, err := fx.coffeeSvc.Order(ctx, d.ID, run.ID, "latte", decimal.Zero)
			if err != nil {
				assert.ErrorIs(t, err, service.ErrRunClosed)
				return
			}
			mu.Lock()
			accepted[d.ID] += c.Price
			mu.Unlock()
		}(d)
	}

	_, exchanges, err := fx.runSvc.CloseRun(ctx, fetcher.ID, run.ID, 0)
	require.NoError(t, err)
	wg.Wait()

	settled := make(map[uint]int)
	for _, e := range exchanges {
		settled[e.PayerID] += e.Amount
	}
	assert.Equal(t, accepted, settled)
}
