package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRunNotFound = errors.New("run not found")
	ErrRunClosed   = errors.New("run is closed")
)

type Run struct {
	ID        uint      `gorm:"primaryKey"`
	FetcherID uint      `gorm:"not null;index"`
	Fetcher   User      `gorm:"foreignKey:FetcherID"`
	CafeID    *uint     `gorm:"index"`
	Cafe      *Cafe     `gorm:"foreignKey:CafeID;constraint:OnDelete:SET NULL"`
	Time      time.Time `gorm:"not null"`
	Pickup    string
	IsOpen    bool      `gorm:"not null"`
	Modified  time.Time `gorm:"not null"`
	Coffees   []Coffee  `gorm:"foreignKey:RunID"`
}

type RunDAO struct {
	db *gorm.DB
}

func NewRunDAO(db *gorm.DB) *RunDAO {
	return &RunDAO{
		db: db,
	}
}

func (d *RunDAO) Insert(ctx context.Context, run Run) (Run, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&run)
	if result.Error != nil {
		return Run{}, result.Error
	}

	return d.FindByID(ctx, run.ID)
}

// FindByID loads the run with its fetcher, cafe and orders.
func (d *RunDAO) FindByID(ctx context.Context, id uint) (Run, error) {
	var run Run

	result := d.db.WithContext(ctx).
		Preload("Fetcher").
		Preload("Cafe").
		Preload("Coffees", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Coffees.Person").
		First(&run, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Run{}, ErrRunNotFound
		}

		return Run{}, result.Error
	}

	return run, nil
}

// FindAll lists runs, open ones first, then by time with the latest first.
func (d *RunDAO) FindAll(ctx context.Context) ([]Run, error) {
	var runs []Run

	result := d.db.WithContext(ctx).
		Preload("Fetcher").
		Preload("Cafe").
		Order("is_open DESC").
		Order("time DESC").
		Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}

	return runs, nil
}

func (d *RunDAO) FindByFetcherID(ctx context.Context, userID uint) ([]Run, error) {
	var runs []Run

	result := d.db.WithContext(ctx).
		Preload("Cafe").
		Where("fetcher_id = ?", userID).
		Order("time DESC").
		Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}

	return runs, nil
}

// SettleFunc works out the exchanges for a run whose orders can no longer
// change.
type SettleFunc func(run Run) ([]MoneyExchange, error)

// lockRun takes the row lock that serialises closing a run against new
// orders on it. SQLite has no row locks; its single writer does the same job.
func lockRun(tx *gorm.DB, id uint) (Run, error) {
	var run Run
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "is_open").
		First(&run, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, err
	}

	return run, nil
}

// Close locks the run, reloads its orders and settles them, then flips the
// run to closed and records the exchanges, all in one transaction. Only one
// caller can close a given run and no order can slip in while it settles.
func (d *RunDAO) Close(ctx context.Context, id uint, settle SettleFunc) (Run, []MoneyExchange, error) {
	var (
		run       Run
		exchanges []MoneyExchange
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockRun(tx, id)
		if err != nil {
			return err
		}
		if !locked.IsOpen {
			return ErrRunClosed
		}

		err = tx.Preload("Fetcher").
			Preload("Cafe").
			Preload("Coffees", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
			Preload("Coffees.Person").
			First(&run, id).Error
		if err != nil {
			return err
		}

		exchanges, err = settle(run)
		if err != nil {
			return err
		}

		if err = tx.Model(&Run{}).Where("id = ?", id).Update("is_open", false).Error; err != nil {
			return err
		}
		run.IsOpen = false

		if len(exchanges) == 0 {
			return nil
		}

		return tx.Omit(clause.Associations).Create(&exchanges).Error
	})
	if err != nil {
		return Run{}, nil, err
	}

	return run, exchanges, nil
}
