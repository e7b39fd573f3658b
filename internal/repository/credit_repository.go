package repository

import (
    "database/sql"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
)

// CreditRepositoryInterface is the only path allowed to touch the balance
// columns. Every mutation is a single conditional UPDATE so concurrent
// requests against the same account cannot lose updates.
type CreditRepositoryInterface interface {
    GetAccount(accountID int) (*model.CreditAccount, error)
    Reserve(accountID, count int) (bool, error)
    SettleDelivered(accountID int) (bool, error)
    SettleFailed(accountID int) (bool, error)
}

type CreditRepository struct {
    DB *sql.DB
}

func (r *CreditRepository) GetAccount(accountID int) (*model.CreditAccount, error) {
    query := `
        SELECT account_id, available_credits, reserved_credits, updated_at
        FROM credit_accounts WHERE account_id=$1
    `
    var a model.CreditAccount
    err := r.DB.QueryRow(query, accountID).Scan(&a.AccountID, &a.AvailableCredits, &a.ReservedCredits, &a.UpdatedAt)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, appErrors.NewAccountNotFound(accountID)
        }
        return nil, err
    }
    return &a, nil
}

// Reserve moves count credits from available to reserved, but only when the
// balance covers it. The WHERE clause is the race guard: of two concurrent
// reservations competing for the last credits, at most one matches a row.
func (r *CreditRepository) Reserve(accountID, count int) (bool, error) {
    res, err := r.DB.Exec(`
        UPDATE credit_accounts
        SET available_credits = available_credits - $2,
            reserved_credits  = reserved_credits + $2,
            updated_at = NOW()
        WHERE account_id = $1 AND available_credits >= $2
    `, accountID, count)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected == 1, nil
}

// SettleDelivered consumes one reserved credit. The reserved_credits > 0 guard
// makes duplicate delivery webhooks a no-op instead of a negative balance.
func (r *CreditRepository) SettleDelivered(accountID int) (bool, error) {
    res, err := r.DB.Exec(`
        UPDATE credit_accounts
        SET reserved_credits = reserved_credits - 1,
            updated_at = NOW()
        WHERE account_id = $1 AND reserved_credits > 0
    `, accountID)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected == 1, nil
}

// SettleFailed refunds one reserved credit back to available.
func (r *CreditRepository) SettleFailed(accountID int) (bool, error) {
    res, err := r.DB.Exec(`
        UPDATE credit_accounts
        SET reserved_credits  = reserved_credits - 1,
            available_credits = available_credits + 1,
            updated_at = NOW()
        WHERE account_id = $1 AND reserved_credits > 0
    `, accountID)
    if err != nil {
        return false, err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return affected == 1, nil
}

var _ CreditRepositoryInterface = (*CreditRepository)(nil)
