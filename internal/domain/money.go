package domain

import "time"

// MoneyExchange records that Payer owes Payee Amount cents. Amounts are
// always positive; a debt in the other direction is a separate exchange.
type MoneyExchange struct {
	ID        uint      `json:"id"`
	PayerID   uint      `json:"payer_id"`
	PayeeID   uint      `json:"payee_id"`
	Amount    int       `json:"amount"`
	RunID     *uint     `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
