package repository

import (
    "database/sql"

    "github.com/lib/pq"

    "github.com/unclebandit/chairtime-backend/internal/model"
)

const pqUniqueViolation = "23505"

type NudgeBatchRepositoryInterface interface {
    Create(batch *model.NudgeBatch) (bool, error)
    GetByWeek(accountID int, isoWeek string) (*model.NudgeBatch, error)
    Delete(accountID int, isoWeek string) error
}

type NudgeBatchRepository struct {
    DB *sql.DB
}

// Create inserts the weekly batch and reports whether this call won. The
// unique index on (account_id, iso_week) is the idempotency source of truth;
// a racing duplicate trigger surfaces here as a unique violation, not as a
// second batch.
func (r *NudgeBatchRepository) Create(batch *model.NudgeBatch) (bool, error) {
    query := `
        INSERT INTO nudge_batches (id, account_id, iso_week, client_ids, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING created_at
    `
    err := r.DB.QueryRow(query, batch.ID, batch.AccountID, batch.ISOWeek, batch.ClientIDs).
        Scan(&batch.CreatedAt)
    if err != nil {
        if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
            return false, nil
        }
        return false, err
    }
    return true, nil
}

func (r *NudgeBatchRepository) GetByWeek(accountID int, isoWeek string) (*model.NudgeBatch, error) {
    query := `
        SELECT id, account_id, iso_week, client_ids, created_at
        FROM nudge_batches
        WHERE account_id=$1 AND iso_week=$2
    `
    var b model.NudgeBatch
    err := r.DB.QueryRow(query, accountID, isoWeek).Scan(&b.ID, &b.AccountID, &b.ISOWeek, &b.ClientIDs, &b.CreatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &b, nil
}

// Delete frees a week whose batch never actually sent, so a later trigger can
// run it again.
func (r *NudgeBatchRepository) Delete(accountID int, isoWeek string) error {
    _, err := r.DB.Exec(`DELETE FROM nudge_batches WHERE account_id=$1 AND iso_week=$2`, accountID, isoWeek)
    return err
}

var _ NudgeBatchRepositoryInterface = (*NudgeBatchRepository)(nil)
