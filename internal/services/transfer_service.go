package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clearpay/ledger/internal/models"
)

type TransferService struct {
	db *sql.DB
}

func NewTransferService(db *sql.DB) *TransferService {
	return &TransferService{db: db}
}

// Transfer moves amount (in minor units) from one account to another inside a
// single database transaction, guarded by an optional idempotency token.
// Retrying a completed token returns the original transfer; any failure rolls
// back every write and marks the token failed.
func (s *TransferService) Transfer(ctx context.Context, token string, fromAccountID, toAccountID, amount int64, currency string, metadata models.Metadata) (*models.Transfer, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if fromAccountID == toAccountID {
		return nil, ErrSameAccount
	}

	if token != "" {
		replay, err := s.claimToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
	}

	transferID, err := s.executeTransfer(ctx, token, fromAccountID, toAccountID, amount, currency, metadata)
	if err != nil {
		if token != "" {
			s.markTokenFailed(token)
		}
		log.Printf("[TRANSFER] transfer from %d to %d failed: %v", fromAccountID, toAccountID, err)
		return nil, err
	}

	// Re-read so the returned transfer reflects the store's canonical state,
	// including store-assigned fields.
	return s.GetTransfer(ctx, transferID)
}

// executeTransfer runs the locked balance mutation, ledger append and token
// resolution as one atomic unit. It returns the id of the new transfer row.
func (s *TransferService) executeTransfer(ctx context.Context, token string, fromAccountID, toAccountID, amount int64, currency string, metadata models.Metadata) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock ordering: always lock by ascending account id to prevent deadlocks
	firstID, secondID := fromAccountID, toAccountID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	first, err := lockAccount(ctx, tx, firstID)
	if err != nil {
		return 0, err
	}

	second, err := lockAccount(ctx, tx, secondID)
	if err != nil {
		return 0, err
	}

	// Determine which locked row is sender/receiver
	from, to := first, second
	if first.ID != fromAccountID {
		from, to = second, first
	}

	if from.Status != models.AccountStatusActive || to.Status != models.AccountStatusActive {
		return 0, ErrAccountNotActive
	}

	if from.Currency != currency || to.Currency != currency {
		return 0, ErrCurrencyMismatch
	}

	if from.Balance < amount {
		return 0, ErrInsufficientBalance
	}

	now := time.Now()
	if err := adjustBalance(ctx, tx, from.ID, -amount, now); err != nil {
		return 0, err
	}
	if err := adjustBalance(ctx, tx, to.ID, amount, now); err != nil {
		return 0, err
	}

	var transferID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO transfers (from_account_id, to_account_id, amount, currency, status, metadata, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id`,
		fromAccountID, toAccountID, amount, currency, models.TransferStatusCompleted, metadata, now).Scan(&transferID)
	if err != nil {
		return 0, fmt.Errorf("insert transfer: %w", err)
	}

	if token != "" {
		// Token resolution must commit or roll back together with the balance
		// writes; a crash between them would leave money moved but the token
		// unresolved.
		_, err = tx.ExecContext(ctx, `
			UPDATE idempotency_keys SET status = $1, transfer_id = $2, updated_at = $3
			WHERE token = $4`,
			models.IdempotencyStatusCompleted, transferID, now, token)
		if err != nil {
			return 0, fmt.Errorf("resolve idempotency key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transfer: %w", err)
	}

	return transferID, nil
}

// GetTransfer loads a transfer by id.
func (s *TransferService) GetTransfer(ctx context.Context, id int64) (*models.Transfer, error) {
	var t models.Transfer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, from_account_id, to_account_id, amount, currency, status, metadata, created_at, completed_at
		FROM transfers
		WHERE id = $1`, id).
		Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Currency, &t.Status, &t.Metadata, &t.CreatedAt, &t.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transfer %d: %w", id, err)
	}
	return &t, nil
}

func lockAccount(ctx context.Context, tx *sql.Tx, accountID int64) (*models.Account, error) {
	var account models.Account
	err := tx.QueryRowContext(ctx, `
		SELECT id, user_id, currency, balance, status
		FROM accounts
		WHERE id = $1
		FOR UPDATE`, accountID).
		Scan(&account.ID, &account.UserID, &account.Currency, &account.Balance, &account.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock account %d: %w", accountID, err)
	}
	return &account, nil
}

// adjustBalance applies delta directly to the locked row. The locked row value
// is authoritative; balances are never computed from a cached snapshot.
func adjustBalance(ctx context.Context, tx *sql.Tx, accountID, delta int64, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $1, updated_at = $2 WHERE id = $3`,
		delta, now, accountID)
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w", accountID, err)
	}
	return nil
}
