package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/service"
)

func TestUserService_NoExchanges(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "quiet")

	owed, err := fx.userSvc.MoneyOwed(ctx, u.ID)
	require.NoError(t, err)
	owing, err := fx.userSvc.MoneyOwing(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, owed)
	assert.Zero(t, owing)

	balance, err := fx.userSvc.Balance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{UserID: u.ID}, balance)

	exchanges, err := fx.userSvc.Exchanges(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "sam")

	u.Name = "Sam W"
	u.Alerts = true
	u.SlackTeamID = "T1"
	u.Tutor = true
	updated, err := fx.userSvc.UpdateProfile(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "Sam W", updated.Name)
	assert.True(t, updated.Alerts)
	assert.Equal(t, "T1", updated.SlackTeamID)
	assert.False(t, updated.Tutor)

	_, err = fx.userSvc.GetUser(ctx, 404)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	users, err := fx.userSvc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_RegisterDevice(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, flatPricing())
	u := fx.user(t, "sam")

	for i := 0; i < 2; i++ {
		reg, err := fx.userSvc.RegisterDevice(ctx, u.ID, " token-1 ")
		require.NoError(t, err)
		assert.Equal(t, "token-1", reg.RegID)
	}

	devices, err := fx.userSvc.Devices(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.RegistrationID{{UserID: u.ID, RegID: "token-1"}}, devices)
}
