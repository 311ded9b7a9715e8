package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MoneyExchange is a debt of Amount cents from Payer to Payee.
type MoneyExchange struct {
	ID        uint  `gorm:"primaryKey"`
	PayerID   uint  `gorm:"not null;index"`
	Payer     User  `gorm:"foreignKey:PayerID"`
	PayeeID   uint  `gorm:"not null;index"`
	Payee     User  `gorm:"foreignKey:PayeeID"`
	Amount    int   `gorm:"not null"`
	RunID     *uint `gorm:"index"`
	CreatedAt time.Time
}

type MoneyExchangeDAO struct {
	db *gorm.DB
}

func NewMoneyExchangeDAO(db *gorm.DB) *MoneyExchangeDAO {
	return &MoneyExchangeDAO{
		db: db,
	}
}

func (d *MoneyExchangeDAO) Insert(ctx context.Context, exchange MoneyExchange) (MoneyExchange, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&exchange)
	if result.Error != nil {
		return MoneyExchange{}, result.Error
	}

	return exchange, nil
}

// SumByPayee totals what userID is owed. No exchanges sums to zero.
func (d *MoneyExchangeDAO) SumByPayee(ctx context.Context, userID uint) (int, error) {
	return d.sum(ctx, "payee_id = ?", userID)
}

// SumByPayer totals what userID owes. No exchanges sums to zero.
func (d *MoneyExchangeDAO) SumByPayer(ctx context.Context, userID uint) (int, error) {
	return d.sum(ctx, "payer_id = ?", userID)
}

func (d *MoneyExchangeDAO) sum(ctx context.Context, cond string, userID uint) (int, error) {
	var total int64

	result := d.db.WithContext(ctx).Model(&MoneyExchange{}).
		Select("COALESCE(SUM(amount), 0)").
		Where(cond, userID).
		Scan(&total)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(total), nil
}

// FindByUserID lists every exchange the user is part of, newest first.
func (d *MoneyExchangeDAO) FindByUserID(ctx context.Context, userID uint) ([]MoneyExchange, error) {
	var exchanges []MoneyExchange

	result := d.db.WithContext(ctx).
		Where("payer_id = ? OR payee_id = ?", userID, userID).
		Order("id DESC").
		Find(&exchanges)
	if result.Error != nil {
		return nil, result.Error
	}

	return exchanges, nil
}
