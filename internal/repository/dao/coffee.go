package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCoffeeNotFound = errors.New("coffee not found")

type Coffee struct {
	ID       uint           `gorm:"primaryKey"`
	PersonID uint           `gorm:"not null;index"`
	Person   User           `gorm:"foreignKey:PersonID"`
	RunID    uint           `gorm:"not null;index"`
	Run      *Run           `gorm:"foreignKey:RunID"`
	Spec     datatypes.JSON `gorm:"not null"`
	Price    int            `gorm:"not null"` // cents
	Modified time.Time      `gorm:"not null"`
}

type CoffeeDAO struct {
	db *gorm.DB
}

func NewCoffeeDAO(db *gorm.DB) *CoffeeDAO {
	return &CoffeeDAO{
		db: db,
	}
}

// Insert adds an order to a run that is still open. It holds the run's lock
// so a concurrent Close either sees the order or rejects it.
func (d *CoffeeDAO) Insert(ctx context.Context, coffee Coffee) (Coffee, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run, err := lockRun(tx, coffee.RunID)
		if err != nil {
			return err
		}
		if !run.IsOpen {
			return ErrRunClosed
		}

		return tx.Omit(clause.Associations).Create(&coffee).Error
	})
	if err != nil {
		return Coffee{}, err
	}

	return d.FindByID(ctx, coffee.ID)
}

// FindByID loads the order with the person who placed it and its run.
func (d *CoffeeDAO) FindByID(ctx context.Context, id uint) (Coffee, error) {
	var coffee Coffee

	result := d.db.WithContext(ctx).
		Preload("Person").
		Preload("Run").
		Preload("Run.Fetcher").
		First(&coffee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Coffee{}, ErrCoffeeNotFound
		}

		return Coffee{}, result.Error
	}

	return coffee, nil
}

func (d *CoffeeDAO) FindByPersonID(ctx context.Context, userID uint) ([]Coffee, error) {
	var coffees []Coffee

	result := d.db.WithContext(ctx).
		Preload("Run").
		Where("person_id = ?", userID).
		Order("id DESC").
		Find(&coffees)
	if result.Error != nil {
		return nil, result.Error
	}

	return coffees, nil
}
