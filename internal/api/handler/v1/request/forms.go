package request

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/coffeespec"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

var errNegativeAmount = errors.New("must not be negative")

// Amounts travel as strings such as "3.50" so that a bad value is reported
// against its field.
func nonNegative(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if d.IsNegative() {
		return errNegativeAmount
	}

	return nil
}

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	return d
}

// CoffeeForm orders a drink on a run. Person defaults to the caller and a
// blank price means the computed one.
type CoffeeForm struct {
	Person uint   `json:"person"`
	Coffee string `json:"coffee"`
	Price  string `json:"price"`
	RunID  uint   `json:"runid"`
}

func (f *CoffeeForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.Coffee, validation.Required, validation.Length(1, 200)),
		validation.Field(&f.Price, is.Float, validation.By(nonNegative)),
		validation.Field(&f.RunID, validation.Required),
	)
}

func (f *CoffeeForm) PersonOr(userID uint) uint {
	if f.Person == 0 {
		return userID
	}

	return f.Person
}

func (f *CoffeeForm) PriceAmount() decimal.Decimal {
	return amount(f.Price)
}

// RunForm schedules a run. Time is entered as "2006/01/02 15:04" in the
// app's timezone.
type RunForm struct {
	Person uint   `json:"person"`
	Time   string `json:"time"`
	CafeID uint   `json:"cafeid"`
	Pickup string `json:"pickup"`
}

func (f *RunForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.Time, validation.Required, validation.Date(timefmt.FormLayout)),
		validation.Field(&f.Pickup, validation.Length(0, 140)),
	)
}

func (f *RunForm) PersonOr(userID uint) uint {
	if f.Person == 0 {
		return userID
	}

	return f.Person
}

func (f *RunForm) ParsedTime(tf *timefmt.Formatter) (time.Time, error) {
	return tf.ParseForm(f.Time)
}

type CafeForm struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (f *CafeForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Location, validation.Length(0, 200)),
	)
}

func (f *CafeForm) ToCafe() domain.Cafe {
	return domain.Cafe{
		Name:     strings.TrimSpace(f.Name),
		Location: strings.TrimSpace(f.Location),
	}
}

type PriceForm struct {
	CafeID uint   `json:"cafeid"`
	Size   string `json:"size"`
	Amount string `json:"amount"`
}

func (f *PriceForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.CafeID, validation.Required),
		validation.Field(&f.Size, validation.Required, validation.In(sizeChoices()...)),
		validation.Field(&f.Amount, validation.Required, is.Float, validation.By(nonNegative)),
	)
}

func (f *PriceForm) ToPrice() domain.Price {
	price := domain.NewPrice(f.CafeID, coffeespec.Size(f.Size))
	price.Amount = amount(f.Amount)

	return price
}

type PriceModifierForm struct {
	CafeID  uint   `json:"cafeid"`
	ModType string `json:"modtype"`
	Amount  string `json:"amount"`
}

func (f *PriceModifierForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.CafeID, validation.Required),
		validation.Field(&f.ModType, validation.Required, validation.Length(1, 50)),
		validation.Field(&f.Amount, validation.Required, is.Float, validation.By(nonNegative)),
	)
}

func (f *PriceModifierForm) ToModifier() domain.PriceModifier {
	mod := domain.NewPriceModifier(f.CafeID, strings.ToLower(strings.TrimSpace(f.ModType)))
	mod.Amount = amount(f.Amount)

	return mod
}

// CloseRunForm carries what the fetcher actually paid. Blank means the
// listed prices.
type CloseRunForm struct {
	TotalCost string `json:"total_cost"`
}

func (f *CloseRunForm) Validate() error {
	return validation.ValidateStruct(
		f,
		validation.Field(&f.TotalCost, is.Float, validation.By(nonNegative)),
	)
}

func (f *CloseRunForm) TotalCents() int {
	return domain.ToCents(amount(f.TotalCost))
}

type ProfileRequest struct {
	Name        string `json:"name"`
	SlackTeamID string `json:"slack_team_id"`
	SlackUserID string `json:"slack_user_id"`
	Device      string `json:"device"`
	Alerts      *bool  `json:"alerts"`
}

func (req *ProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(0, 100)),
		validation.Field(&req.SlackTeamID, validation.Length(0, 50)),
		validation.Field(&req.SlackUserID, validation.Length(0, 50)),
		validation.Field(&req.Device, validation.In("", "android", "ios")),
	)
}

// Apply overlays the fields that were sent onto user.
func (req *ProfileRequest) Apply(user domain.User) domain.User {
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.SlackTeamID != "" {
		user.SlackTeamID = req.SlackTeamID
	}
	if req.SlackUserID != "" {
		user.SlackUserID = req.SlackUserID
	}
	if req.Device != "" {
		user.Device = req.Device
	}
	if req.Alerts != nil {
		user.Alerts = *req.Alerts
	}

	return user
}

type DeviceRequest struct {
	RegID string `json:"regid"`
}

func (req *DeviceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RegID, validation.Required, validation.Length(1, 255)),
	)
}

func sizeChoices() []interface{} {
	choices := make([]interface{}, len(coffeespec.Sizes))
	for i, s := range coffeespec.Sizes {
		choices[i] = string(s)
	}

	return choices
}
