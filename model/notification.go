package model

import "time"

// Notification is a best-effort audit notice shown to the farmer after a
// successful transaction. Failing to write one never fails the transaction.
type Notification struct {
	ID        int       `json:"id"`
	FarmerID  int       `json:"farmer_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
