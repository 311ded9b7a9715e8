package request

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

func fieldErrs(t *testing.T, err error) validation.Errors {
	t.Helper()

	require.Error(t, err)
	errs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)

	return errs
}

func TestPriceForm(t *testing.T) {
	tests := []struct {
		name    string
		form    PriceForm
		invalid []string
	}{
		{"valid", PriceForm{CafeID: 1, Size: "M", Amount: "3.80"}, nil},
		{"unknown size", PriceForm{CafeID: 1, Size: "XL", Amount: "3.80"}, []string{"size"}},
		{"lowercase size", PriceForm{CafeID: 1, Size: "m", Amount: "3.80"}, []string{"size"}},
		{"not numeric", PriceForm{CafeID: 1, Size: "S", Amount: "cheap"}, []string{"amount"}},
		{"negative", PriceForm{CafeID: 1, Size: "S", Amount: "-1"}, []string{"amount"}},
		{"empty", PriceForm{}, []string{"cafeid", "size", "amount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.invalid == nil {
				assert.NoError(t, err)
				return
			}

			errs := fieldErrs(t, err)
			for _, field := range tt.invalid {
				assert.Contains(t, errs, field)
			}
			assert.Len(t, errs, len(tt.invalid))
		})
	}
}

func TestPriceForm_ToPrice(t *testing.T) {
	form := PriceForm{CafeID: 7, Size: "L", Amount: "4.5"}
	require.NoError(t, form.Validate())

	price := form.ToPrice()
	assert.Equal(t, uint(7), price.CafeID)
	assert.Equal(t, coffeespec.SizeLarge, price.Size)
	assert.True(t, decimal.RequireFromString("4.50").Equal(price.Amount))
}

func TestCoffeeForm(t *testing.T) {
	form := CoffeeForm{Coffee: "flat white", RunID: 3}
	require.NoError(t, form.Validate())
	assert.True(t, form.PriceAmount().IsZero())
	assert.Equal(t, uint(9), form.PersonOr(9))

	form.Person = 2
	form.Price = "3.20"
	require.NoError(t, form.Validate())
	assert.Equal(t, uint(2), form.PersonOr(9))
	assert.True(t, decimal.RequireFromString("3.2").Equal(form.PriceAmount()))

	errs := fieldErrs(t, (&CoffeeForm{Price: "free"}).Validate())
	assert.Contains(t, errs, "coffee")
	assert.Contains(t, errs, "runid")
	assert.Contains(t, errs, "price")
}

func TestRunForm(t *testing.T) {
	f := timefmt.New(time.UTC)

	form := RunForm{Time: "2024/03/04 15:30", Pickup: "foyer"}
	require.NoError(t, form.Validate())

	at, err := form.ParsedTime(f)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC), at)

	errs := fieldErrs(t, (&RunForm{Time: "04/03/2024 3pm"}).Validate())
	assert.Contains(t, errs, "time")

	errs = fieldErrs(t, (&RunForm{}).Validate())
	assert.Contains(t, errs, "time")
}

func TestCafeForm(t *testing.T) {
	form := CafeForm{Name: "  Campos ", Location: "Newtown"}
	require.NoError(t, form.Validate())
	assert.Equal(t, "Campos", form.ToCafe().Name)

	errs := fieldErrs(t, (&CafeForm{}).Validate())
	assert.Contains(t, errs, "name")
}

func TestPriceModifierForm(t *testing.T) {
	form := PriceModifierForm{CafeID: 1, ModType: " Soy ", Amount: "0.60"}
	require.NoError(t, form.Validate())

	mod := form.ToModifier()
	assert.Equal(t, "soy", mod.ModType)
	assert.True(t, decimal.RequireFromString("0.6").Equal(mod.Amount))

	form.Amount = "-0.60"
	assert.Contains(t, fieldErrs(t, form.Validate()), "amount")
}

func TestCloseRunForm(t *testing.T) {
	assert.Equal(t, 0, (&CloseRunForm{}).TotalCents())
	assert.Equal(t, 1250, (&CloseRunForm{TotalCost: "12.50"}).TotalCents())

	errs := fieldErrs(t, (&CloseRunForm{TotalCost: "-3"}).Validate())
	assert.Contains(t, errs, "total_cost")
}

func TestSignupRequest(t *testing.T) {
	req := SignupRequest{Name: "Ari", Email: "ari@example.com", Password: "hunter22", ConfirmPassword: "hunter22"}
	require.NoError(t, req.Validate())

	req.ConfirmPassword = "hunter23"
	assert.Contains(t, fieldErrs(t, req.Validate()), "confirm_password")

	req.Password = "short"
	assert.Contains(t, fieldErrs(t, req.Validate()), "password")
}

func TestProfileRequest_Apply(t *testing.T) {
	on := true
	req := ProfileRequest{Name: "Bea", Alerts: &on}
	require.NoError(t, req.Validate())

	user := req.Apply(domainUser())
	assert.Equal(t, "Bea", user.Name)
	assert.Equal(t, "T1", user.SlackTeamID)
	assert.True(t, user.Alerts)

	assert.Contains(t, fieldErrs(t, (&ProfileRequest{Device: "nokia"}).Validate()), "device")
}

func domainUser() domain.User {
	return domain.User{ID: 1, Name: "bea", SlackTeamID: "T1"}
}
