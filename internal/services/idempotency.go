package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/clearpay/ledger/internal/models"
)

// claimToken runs the idempotency gate before any fund movement. It returns
// the previously completed transfer when the token is a replay, or nil once
// this call owns the in_progress record. The in_progress row is persisted
// before proceeding so a concurrent caller with the same token observes it;
// the UNIQUE constraint on the token column turns the remaining lookup/insert
// race into a detectable conflict instead of a second transfer.
func (s *TransferService) claimToken(ctx context.Context, token string) (*models.Transfer, error) {
	existing, err := s.findIdempotencyKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	switch {
	case existing == nil:
		if err := s.insertIdempotencyKey(ctx, token); err != nil {
			if isUniqueViolation(err) {
				// Lost the insert race to a concurrent caller
				return nil, ErrRequestInProgress
			}
			return nil, fmt.Errorf("idempotency insert: %w", err)
		}
		return nil, nil

	case existing.Status == models.IdempotencyStatusCompleted:
		if existing.TransferID.Valid {
			transfer, err := s.GetTransfer(ctx, existing.TransferID.Int64)
			if err == nil {
				return transfer, nil
			}
			if !errors.Is(err, ErrTransferNotFound) {
				return nil, err
			}
		}
		// Record inconsistent: resolved token but the transfer is gone.
		// Log and reprocess rather than failing the caller.
		log.Printf("[TRANSFER] idempotency key %q points to missing transfer", token)
		return nil, nil

	case existing.Status == models.IdempotencyStatusInProgress:
		return nil, ErrRequestInProgress

	default:
		// A failed token may be retried. Reclaiming is conditional on the
		// status still being failed, so only one retry wins.
		reclaimed, err := s.reclaimIdempotencyKey(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("idempotency reclaim: %w", err)
		}
		if !reclaimed {
			return nil, ErrRequestInProgress
		}
		return nil, nil
	}
}

func (s *TransferService) findIdempotencyKey(ctx context.Context, token string) (*models.IdempotencyKey, error) {
	var ik models.IdempotencyKey
	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, status, transfer_id
		FROM idempotency_keys
		WHERE token = $1`, token).
		Scan(&ik.ID, &ik.Token, &ik.Status, &ik.TransferID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ik, nil
}

func (s *TransferService) insertIdempotencyKey(ctx context.Context, token string) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (token, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)`,
		token, models.IdempotencyStatusInProgress, now)
	return err
}

func (s *TransferService) reclaimIdempotencyKey(ctx context.Context, token string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE idempotency_keys SET status = $1, updated_at = $2
		WHERE token = $3 AND status = $4`,
		models.IdempotencyStatusInProgress, time.Now(), token, models.IdempotencyStatusFailed)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// markTokenFailed is the best-effort compensating write after a rollback. It
// runs on its own context because the request context may already be canceled,
// and its own failure is only logged, never surfaced in place of the original
// error.
func (s *TransferService) markTokenFailed(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		UPDATE idempotency_keys SET status = $1, updated_at = $2
		WHERE token = $3`,
		models.IdempotencyStatusFailed, time.Now(), token)
	if err != nil {
		log.Printf("[TRANSFER] failed to mark idempotency key %q failed: %v", token, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
