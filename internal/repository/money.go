package repository

import (
	"context"
	"fmt"

	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/repository/dao"
)

type MoneyExchangeDAO interface {
	Insert(ctx context.Context, exchange dao.MoneyExchange) (dao.MoneyExchange, error)
	SumByPayee(ctx context.Context, userID uint) (int, error)
	SumByPayer(ctx context.Context, userID uint) (int, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.MoneyExchange, error)
}

type MoneyRepository struct {
	dao MoneyExchangeDAO
}

func NewMoneyRepository(dao MoneyExchangeDAO) *MoneyRepository {
	return &MoneyRepository{
		dao: dao,
	}
}

func (r *MoneyRepository) Create(ctx context.Context, exchange domain.MoneyExchange) (domain.MoneyExchange, error) {
	created, err := r.dao.Insert(ctx, exchangeToDAO(exchange))
	if err != nil {
		return domain.MoneyExchange{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return exchangeToDomain(created), nil
}

// SumOwed is the total in cents userID is owed by others.
func (r *MoneyRepository) SumOwed(ctx context.Context, userID uint) (int, error) {
	total, err := r.dao.SumByPayee(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumByPayee -> %w", err)
	}

	return total, nil
}

// SumOwing is the total in cents userID owes others.
func (r *MoneyRepository) SumOwing(ctx context.Context, userID uint) (int, error) {
	total, err := r.dao.SumByPayer(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumByPayer -> %w", err)
	}

	return total, nil
}

func (r *MoneyRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.MoneyExchange, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return exchangesToDomain(found), nil
}

func exchangeToDAO(e domain.MoneyExchange) dao.MoneyExchange {
	return dao.MoneyExchange{
		ID:      e.ID,
		PayerID: e.PayerID,
		PayeeID: e.PayeeID,
		Amount:  e.Amount,
		RunID:   e.RunID,
	}
}

func exchangeToDomain(e dao.MoneyExchange) domain.MoneyExchange {
	return domain.MoneyExchange{
		ID:        e.ID,
		PayerID:   e.PayerID,
		PayeeID:   e.PayeeID,
		Amount:    e.Amount,
		RunID:     e.RunID,
		CreatedAt: e.CreatedAt,
	}
}

func exchangesToDomain(found []dao.MoneyExchange) []domain.MoneyExchange {
	exchanges := make([]domain.MoneyExchange, len(found))
	for i, e := range found {
		exchanges[i] = exchangeToDomain(e)
	}

	return exchanges
}
