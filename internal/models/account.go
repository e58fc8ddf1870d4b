package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Account represents a ledger account. Balance is held in integer minor
// units (e.g. cents, paise) and is only ever mutated inside a transfer
// transaction while the row is locked.
type Account struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Currency  string    `json:"currency" db:"currency"`
	Balance   int64     `json:"balance" db:"balance"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AccountStatus represents account status
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
	AccountStatusFrozen   = "frozen"
	AccountStatusClosed   = "closed"
)

// Metadata type for JSONB fields
type Metadata map[string]any

// Value implements driver.Valuer for Metadata
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for Metadata
func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}
