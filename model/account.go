package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one bank account belonging to a farmer. Balance is a cached
// projection of the ledger; only the ledger service may change it.
type Account struct {
	ID            int             `json:"id"`
	FarmerID      int             `json:"farmer_id"`
	BankName      string          `json:"bank_name"`
	AccountType   string          `json:"account_type"`
	Branch        string          `json:"branch"`
	IFSC          string          `json:"ifsc"`
	AccountNumber string          `json:"account_number"`
	IsPrimary     bool            `json:"is_primary"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
