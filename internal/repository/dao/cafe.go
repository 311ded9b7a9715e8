package dao

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCafeNotFound  = errors.New("cafe not found")
	ErrPriceNotFound = errors.New("price not found")
)

type Cafe struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"not null"`
	Location  string
	Prices    []Price         `gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE"`
	Modifiers []PriceModifier `gorm:"foreignKey:CafeID;constraint:OnDelete:CASCADE"`
}

type Price struct {
	ID     uint            `gorm:"primaryKey"`
	CafeID uint            `gorm:"not null;index"`
	Size   string          `gorm:"size:1;not null"` // "S", "M" or "L"
	Amount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
}

type PriceModifier struct {
	ID      uint            `gorm:"primaryKey"`
	CafeID  uint            `gorm:"not null;index"`
	ModType string          `gorm:"not null"`
	Amount  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
}

type CafeDAO struct {
	db *gorm.DB
}

func NewCafeDAO(db *gorm.DB) *CafeDAO {
	return &CafeDAO{
		db: db,
	}
}

func (d *CafeDAO) Insert(ctx context.Context, cafe Cafe) (Cafe, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&cafe)
	if result.Error != nil {
		return Cafe{}, result.Error
	}

	return cafe, nil
}

// FindByID loads the cafe with its price list and modifiers.
func (d *CafeDAO) FindByID(ctx context.Context, id uint) (Cafe, error) {
	var cafe Cafe

	result := d.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Modifiers", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&cafe, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Cafe{}, ErrCafeNotFound
		}

		return Cafe{}, result.Error
	}

	return cafe, nil
}

func (d *CafeDAO) FindAll(ctx context.Context) ([]Cafe, error) {
	var cafes []Cafe

	result := d.db.WithContext(ctx).Order("name").Find(&cafes)
	if result.Error != nil {
		return nil, result.Error
	}

	return cafes, nil
}

// Delete removes the cafe together with its prices and modifiers. Runs at
// the cafe are kept and lose their cafe.
func (d *CafeDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cafe_id = ?", id).Delete(&Price{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cafe_id = ?", id).Delete(&PriceModifier{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Run{}).Where("cafe_id = ?", id).Update("cafe_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&Cafe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCafeNotFound
		}

		return nil
	})
}

func (d *CafeDAO) InsertPrice(ctx context.Context, price Price) (Price, error) {
	result := d.db.WithContext(ctx).Create(&price)
	if result.Error != nil {
		return Price{}, result.Error
	}

	return price, nil
}

func (d *CafeDAO) FindPriceByID(ctx context.Context, id uint) (Price, error) {
	var price Price

	result := d.db.WithContext(ctx).First(&price, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Price{}, ErrPriceNotFound
		}

		return Price{}, result.Error
	}

	return price, nil
}

func (d *CafeDAO) FindPricesByCafeID(ctx context.Context, cafeID uint) ([]Price, error) {
	var prices []Price

	result := d.db.WithContext(ctx).Where("cafe_id = ?", cafeID).Order("id").Find(&prices)
	if result.Error != nil {
		return nil, result.Error
	}

	return prices, nil
}

func (d *CafeDAO) InsertModifier(ctx context.Context, modifier PriceModifier) (PriceModifier, error) {
	result := d.db.WithContext(ctx).Create(&modifier)
	if result.Error != nil {
		return PriceModifier{}, result.Error
	}

	return modifier, nil
}
