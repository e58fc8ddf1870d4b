package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clearpay/ledger/internal/models"
)

type AccountService struct {
	db *sql.DB
}

func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{db: db}
}

// CreateAccount opens a new active account for a user.
func (s *AccountService) CreateAccount(ctx context.Context, userID int64, currency string, initialBalance int64) (*models.Account, error) {
	if initialBalance < 0 {
		return nil, ErrAmountNotPositive
	}

	now := time.Now()
	account := &models.Account{
		UserID:    userID,
		Currency:  currency,
		Balance:   initialBalance,
		Status:    models.AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, currency, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`,
		userID, currency, initialBalance, models.AccountStatusActive, now).Scan(&account.ID)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// GetAccount loads an account by id. Reads outside a transfer transaction are
// informational only; balance decisions happen on locked rows.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, currency, balance, status, created_at, updated_at
		FROM accounts
		WHERE id = $1`, id).
		Scan(&account.ID, &account.UserID, &account.Currency, &account.Balance, &account.Status, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account %d: %w", id, err)
	}
	return &account, nil
}
