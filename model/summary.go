package model

import "github.com/shopspring/decimal"

// TypeSummary aggregates an account's ledger entries of one type.
type TypeSummary struct {
	Type  EntryType       `json:"transaction_type"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// AccountSummary is the read-only dashboard view over one account's ledger.
type AccountSummary struct {
	AccountID int             `json:"bank_id"`
	Balance   decimal.Decimal `json:"balance"`
	ByType    []TypeSummary   `json:"by_type"`
}
