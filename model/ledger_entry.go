package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType identifies the kind of balance movement a ledger entry records.
type EntryType string

const (
	EntryDeposit            EntryType = "Deposit"
	EntryWithdrawal         EntryType = "Withdrawal"
	EntryTransfer           EntryType = "Transfer"
	EntryPolicyDisbursement EntryType = "Policy_Disbursement"
	EntryTaxPayment         EntryType = "Tax_Payment"
)

// IsCredit reports whether the type adds to the account balance.
// Transfer is the debit leg on the source account; the destination leg is
// recorded as a Deposit.
func (t EntryType) IsCredit() bool {
	switch t {
	case EntryDeposit, EntryPolicyDisbursement, EntryTaxPayment:
		return true
	default:
		return false
	}
}

// Valid reports whether the type is one of the recognized enum values.
func (t EntryType) Valid() bool {
	switch t {
	case EntryDeposit, EntryWithdrawal, EntryTransfer, EntryPolicyDisbursement, EntryTaxPayment:
		return true
	default:
		return false
	}
}

type EntryStatus string

const (
	StatusSuccess EntryStatus = "Success"
	StatusFailed  EntryStatus = "Failed"
)

// LedgerEntry is an immutable record of one balance movement on one account.
// Entries are append-only; they are never updated or deleted.
type LedgerEntry struct {
	ID            int             `json:"id"`
	AccountID     int             `json:"account_id"`
	Type          EntryType       `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   *string         `json:"description,omitempty"`
	ReferenceCode *string         `json:"reference_code,omitempty"`
	Status        EntryStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}
