package models

import (
	"time"
)

// Transfer represents a completed movement of funds between two accounts.
// Rows are created exactly once, at the moment a transfer succeeds, and are
// immutable afterwards. Amount is in integer minor units.
type Transfer struct {
	ID            int64      `json:"id" db:"id"`
	FromAccountID int64      `json:"from_account_id" db:"from_account_id"`
	ToAccountID   int64      `json:"to_account_id" db:"to_account_id"`
	Amount        int64      `json:"amount" db:"amount"`
	Currency      string     `json:"currency" db:"currency"`
	Status        string     `json:"status" db:"status"`
	Metadata      Metadata   `json:"metadata" db:"metadata"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"`
}

// TransferStatus represents transfer status. Failed attempts never produce a
// row, so completed is the only status written by this service.
const (
	TransferStatusCompleted = "completed"
)
