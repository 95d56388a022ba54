package notifier

import (
	"context"
	"time"
)

// TransactionNotice is the event emitted after a transaction commits.
type TransactionNotice struct {
	FarmerID      int       `json:"farmer_id"`
	AccountID     int       `json:"account_id"`
	EntryID       int       `json:"entry_id"`
	Type          string    `json:"transaction_type"`
	Amount        string    `json:"amount"`
	BalanceAfter  string    `json:"balance_after"`
	ReferenceCode *string   `json:"reference_code,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// INotifier publishes transaction notices. Publishing is best-effort; callers
// log failures and move on.
type INotifier interface {
	Notify(ctx context.Context, notice TransactionNotice) error
}
