package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/service"
)

func TestEventService_Describe(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "maddy")

	cafe, err := fx.cafeSvc.CreateCafe(ctx, u.ID, domain.Cafe{Name: "Campos"})
	require.NoError(t, err)
	price, err := fx.cafeSvc.AddPrice(ctx, u.ID, domain.NewPrice(cafe.ID, coffeespec.SizeMedium))
	require.NoError(t, err)
	run := fx.run(t, u, cafe.ID)
	coffee := fx.order(t, u, run, "flat white")

	tests := []struct {
		name   string
		action domain.Action
		object domain.ObjectRef
		want   string
	}{
		{"run", domain.ActionCreated, domain.RunRef{ID: run.ID}, "for time 04:30 AM Mon 04 Mar"},
		{"coffee", domain.ActionCreated, domain.CoffeeRef{ID: coffee.ID}, fmt.Sprintf(`for <a href="/run/%d/">run</a> at time 04:30 AM Mon 04 Mar`, run.ID)},
		{"cafe", domain.ActionCreated, domain.CafeRef{ID: cafe.ID}, "named 'Campos'"},
		{"price", domain.ActionCreated, domain.PriceRef{ID: price.ID}, fmt.Sprintf(`for <a href="/cafe/%d/">cafe</a> 'Campos'`, cafe.ID)},
		{"missing run", domain.ActionCreated, domain.RunRef{ID: 999}, ""},
		{"missing coffee", domain.ActionCreated, domain.CoffeeRef{ID: 999}, ""},
		{"missing cafe", domain.ActionUpdated, domain.CafeRef{ID: 999}, ""},
		{"missing price", domain.ActionCreated, domain.PriceRef{ID: 999}, ""},
		{"deleted", domain.ActionDeleted, domain.RunRef{ID: run.ID}, ""},
		{"no object", domain.ActionCreated, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fx.eventSvc.Describe(ctx, domain.NewEvent(u.ID, tt.action, tt.object, time.Now()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventService_DescribeAfterCafeDeleted(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "maddy")

	cafe, err := fx.cafeSvc.CreateCafe(ctx, u.ID, domain.Cafe{Name: "Gone"})
	require.NoError(t, err)
	price, err := fx.cafeSvc.AddPrice(ctx, u.ID, domain.NewPrice(cafe.ID, coffeespec.SizeLarge))
	require.NoError(t, err)
	require.NoError(t, fx.cafeSvc.DeleteCafe(ctx, u.ID, cafe.ID))

	got, err := fx.eventSvc.Describe(ctx, domain.NewEvent(u.ID, domain.ActionCreated, domain.PriceRef{ID: price.ID}, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

type failingRuns struct{}

func (failingRuns) FindByID(context.Context, uint) (domain.Run, error) {
	return domain.Run{}, errors.New("connection reset")
}

func TestEventService_DescribeLookupError(t *testing.T) {
	svc := service.NewEventService(nil, failingRuns{}, nil, nil, nil, timefmt.New(time.UTC))

	_, err := svc.Describe(context.Background(), domain.NewEvent(1, domain.ActionCreated, domain.RunRef{ID: 1}, time.Now()))
	assert.ErrorContains(t, err, "connection reset")

	// Deleted events never look anything up.
	got, err := svc.Describe(context.Background(), domain.NewEvent(1, domain.ActionDeleted, domain.RunRef{ID: 1}, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "", got)

	descriptions := svc.DescribeAll(context.Background(), []domain.Event{
		domain.NewEvent(1, domain.ActionCreated, domain.RunRef{ID: 1}, time.Now()),
	})
	assert.Equal(t, []string{""}, descriptions)
}

func TestEventService_RecordPublishes(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "maddy")

	pub := &recordingPublisher{}
	fx.eventSvc.Subscribe(pub)

	_, err := fx.cafeSvc.CreateCafe(ctx, u.ID, domain.Cafe{Name: "Campos"})
	require.NoError(t, err)
	run := fx.run(t, u, 0)

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.KindCafe, pub.events[0].Object.Kind())
	assert.Equal(t, domain.RunRef{ID: run.ID}, pub.events[1].Object)
	assert.Equal(t, "maddy", pub.events[1].User.Name)

	mine, err := fx.eventSvc.ByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	recent, err := fx.eventSvc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, domain.ActionCreated, recent[0].Action)
	assert.Equal(t, domain.RunRef{ID: run.ID}, recent[0].Object)
}
