package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

var ErrRunClosed = errors.New("run is closed")

// Run is one trip to fetch coffee. Coffees is only populated when the run
// was loaded with its orders.
type Run struct {
	ID        uint
	FetcherID uint
	Fetcher   User
	CafeID    *uint
	Cafe      *Cafe
	Time      time.Time
	Pickup    string
	IsOpen    bool
	Modified  time.Time
	Coffees   []Coffee
}

// NewRun starts an open run. A zero cafeID leaves the cafe unset.
func NewRun(fetcherID uint, cafeID uint, at time.Time, pickup string, now time.Time) Run {
	run := Run{
		FetcherID: fetcherID,
		Time:      at,
		Pickup:    pickup,
		IsOpen:    true,
		Modified:  now,
	}
	if cafeID != 0 {
		run.CafeID = &cafeID
	}

	return run
}

// TotalCost sums the price of every order on the run.
func (r Run) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Coffees {
		total = total.Add(c.GetPrice())
	}
	return total
}

// Close marks the run as no longer taking orders.
func (r *Run) Close() error {
	if !r.IsOpen {
		return ErrRunClosed
	}
	r.IsOpen = false
	return nil
}

func (r Run) CafeName() string {
	if r.Cafe == nil {
		return ""
	}
	return r.Cafe.Name
}

type RunJSON struct {
	ID       uint   `json:"id"`
	Person   string `json:"person"`
	Time     string `json:"time"`
	Cafe     string `json:"cafe"`
	Pickup   string `json:"pickup"`
	IsOpen   bool   `json:"is_open"`
	Modified string `json:"modified"`
}

func (r Run) ToJSON(f *timefmt.Formatter) RunJSON {
	return RunJSON{
		ID:       r.ID,
		Person:   r.Fetcher.Name,
		Time:     f.JSON(r.Time),
		Cafe:     r.CafeName(),
		Pickup:   r.Pickup,
		IsOpen:   r.IsOpen,
		Modified: f.JSON(r.Modified),
	}
}

func (r Run) ReadTime(f *timefmt.Formatter) string {
	return f.Readable(r.Time)
}

func (r Run) ReadModified(f *timefmt.Formatter) string {
	return f.Readable(r.Modified)
}
