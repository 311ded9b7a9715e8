package response

import (
	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/domain"
)

type LoginResponse struct {
	Token   string         `json:"token"`
	User    domain.User    `json:"user"`
	Balance domain.Balance `json:"balance"`
}

type UserResponse struct {
	User    domain.User    `json:"user"`
	Balance domain.Balance `json:"balance"`
}

type RunResponse struct {
	Run     domain.RunJSON      `json:"run"`
	Coffees []domain.CoffeeJSON `json:"coffees"`
	Total   decimal.Decimal     `json:"total"`
}

type CloseRunResponse struct {
	Run       domain.RunJSON         `json:"run"`
	Exchanges []domain.MoneyExchange `json:"exchanges"`
}

type CoffeeResponse struct {
	Coffee domain.CoffeeJSON `json:"coffee"`
	Pretty string            `json:"pretty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
