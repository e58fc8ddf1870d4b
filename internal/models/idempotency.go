package models

import (
	"database/sql"
	"time"
)

// IdempotencyKey tracks the lifecycle of a client-supplied idempotency token.
// TransferID is set once the guarded transfer completes. The token column
// carries a UNIQUE constraint; a duplicate insert is how a concurrent retry
// is detected.
type IdempotencyKey struct {
	ID         int64         `json:"id" db:"id"`
	Token      string        `json:"token" db:"token"`
	Status     string        `json:"status" db:"status"`
	TransferID sql.NullInt64 `json:"transfer_id" db:"transfer_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// IdempotencyStatus lifecycle: in_progress -> completed | failed.
// completed is terminal and replayable; failed may be reclaimed by a retry.
const (
	IdempotencyStatusInProgress = "in_progress"
	IdempotencyStatusCompleted  = "completed"
	IdempotencyStatusFailed     = "failed"
)
