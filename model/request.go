// file: model/request.go

package model

import "github.com/shopspring/decimal"

// ApplyTransactionRequest is the payload for posting a financial movement to
// an account. DestinationAccountID is only meaningful for Transfer.
type ApplyTransactionRequest struct {
	Type                 EntryType       `json:"transaction_type" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"required"`
	Description          string          `json:"description,omitempty"`
	ReferenceCode        string          `json:"reference_code,omitempty"`
	DestinationAccountID int             `json:"to_account_id,omitempty"`
}

// LegResult reports the balance movement applied to one account.
type LegResult struct {
	AccountID     int             `json:"bank_id"`
	EntryID       int             `json:"entry_id"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// TransactionResult is the terminal outcome of a successful apply call.
// Destination is nil for everything except transfers.
type TransactionResult struct {
	Message     string     `json:"message"`
	Source      LegResult  `json:"from"`
	Destination *LegResult `json:"to,omitempty"`
}
