package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/db"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/repository"
	"github.com/ncss/coffeerun/internal/repository/dao"
	"github.com/ncss/coffeerun/internal/service"
)

type fixture struct {
	f *timefmt.Formatter

	users   *repository.UserRepository
	cafes   *repository.CafeRepository
	runs    *repository.RunRepository
	coffees *repository.CoffeeRepository

	auth      *service.AuthService
	userSvc   *service.UserService
	eventSvc  *service.EventService
	cafeSvc   *service.CafeService
	runSvc    *service.RunService
	coffeeSvc *service.CoffeeService
}

func newFixture(t *testing.T, pricing service.Pricing) *fixture {
	t.Helper()

	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"), true)
	require.NoError(t, err)

	f := timefmt.New(time.UTC)
	users := repository.NewUserRepository(dao.NewUserDAO(gdb))
	money := repository.NewMoneyRepository(dao.NewMoneyExchangeDAO(gdb))
	cafes := repository.NewCafeRepository(dao.NewCafeDAO(gdb))
	runs := repository.NewRunRepository(dao.NewRunDAO(gdb))
	coffees := repository.NewCoffeeRepository(dao.NewCoffeeDAO(gdb))
	events := repository.NewEventRepository(dao.NewEventDAO(gdb))

	eventSvc := service.NewEventService(events, runs, coffees, cafes, cafes, f)
	userSvc := service.NewUserService(users, money)

	return &fixture{
		f:         f,
		users:     users,
		cafes:     cafes,
		runs:      runs,
		coffees:   coffees,
		auth:      service.NewAuthService(users, userSvc),
		userSvc:   userSvc,
		eventSvc:  eventSvc,
		cafeSvc:   service.NewCafeService(cafes, eventSvc),
		runSvc:    service.NewRunService(runs, cafes, eventSvc, domain.ProportionalSplit{}, f),
		coffeeSvc: service.NewCoffeeService(coffees, runs, cafes, eventSvc, pricing, f),
	}
}

func flatPricing() service.Pricing {
	return service.Pricing{Strategy: service.PricingFlat, Flat: decimal.NewFromInt(4)}
}

func (fx *fixture) user(t *testing.T, name string) domain.User {
	t.Helper()

	u, err := fx.users.Create(context.Background(), domain.User{Name: name, Email: name + "@example.com", Password: "x"})
	require.NoError(t, err)

	return u
}

var runTime = time.Date(2024, 3, 4, 4, 30, 0, 0, time.UTC)

func (fx *fixture) run(t *testing.T, fetcher domain.User, cafeID uint) domain.Run {
	t.Helper()

	run, err := fx.runSvc.CreateRun(context.Background(), fetcher.ID, cafeID, runTime, "foyer")
	require.NoError(t, err)

	return run
}

func (fx *fixture) order(t *testing.T, person domain.User, run domain.Run, request string) domain.Coffee {
	t.Helper()

	c, err := fx.coffeeSvc.Order(context.Background(), person.ID, run.ID, request, decimal.Zero)
	require.NoError(t, err)

	return c
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(e domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, e)
}
