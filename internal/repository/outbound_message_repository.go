package repository

import (
    "database/sql"
    "time"

    "github.com/unclebandit/chairtime-backend/internal/model"
)

type OutboundMessageRepositoryInterface interface {
    Create(msg *model.OutboundMessage) error
    GetByID(id int) (*model.OutboundMessage, error)
    ListByBatch(batchID string) ([]model.OutboundMessage, error)
    UpdateStatus(id int, status, lastError string) error
    BatchStats(batchID string) (map[string]int, error)
}

type OutboundMessageRepository struct {
    DB *sql.DB
}

// Create inserts a new outbound message and fills in the generated ID.
func (r *OutboundMessageRepository) Create(msg *model.OutboundMessage) error {
    now := time.Now()
    msg.CreatedAt = now
    msg.UpdatedAt = now
    if msg.Status == "" {
        msg.Status = "pending"
    }

    query := `
        INSERT INTO outbound_messages
        (batch_id, account_id, client_id, phone, status, rendered_content, last_error, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
    return r.DB.QueryRow(
        query,
        msg.BatchID,
        msg.AccountID,
        msg.ClientID,
        msg.Phone,
        msg.Status,
        msg.RenderedContent,
        msg.LastError,
        msg.RetryCount,
        msg.CreatedAt,
        msg.UpdatedAt,
    ).Scan(&msg.ID)
}

func (r *OutboundMessageRepository) GetByID(id int) (*model.OutboundMessage, error) {
    query := `
        SELECT id, batch_id, account_id, client_id, phone, status, rendered_content, last_error, retry_count, created_at, updated_at
        FROM outbound_messages
        WHERE id=$1
    `
    var msg model.OutboundMessage
    err := r.DB.QueryRow(query, id).Scan(
        &msg.ID, &msg.BatchID, &msg.AccountID, &msg.ClientID, &msg.Phone,
        &msg.Status, &msg.RenderedContent, &msg.LastError, &msg.RetryCount,
        &msg.CreatedAt, &msg.UpdatedAt,
    )
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return &msg, nil
}

// ListByBatch returns every message of one dispatched batch, oldest first.
func (r *OutboundMessageRepository) ListByBatch(batchID string) ([]model.OutboundMessage, error) {
    query := `
        SELECT id, batch_id, account_id, client_id, phone, status, rendered_content, last_error, retry_count, created_at, updated_at
        FROM outbound_messages
        WHERE batch_id=$1
        ORDER BY id
    `
    rows, err := r.DB.Query(query, batchID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    msgs := []model.OutboundMessage{}
    for rows.Next() {
        var msg model.OutboundMessage
        if err := rows.Scan(
            &msg.ID, &msg.BatchID, &msg.AccountID, &msg.ClientID, &msg.Phone,
            &msg.Status, &msg.RenderedContent, &msg.LastError, &msg.RetryCount,
            &msg.CreatedAt, &msg.UpdatedAt,
        ); err != nil {
            return nil, err
        }
        msgs = append(msgs, msg)
    }
    return msgs, rows.Err()
}

func (r *OutboundMessageRepository) UpdateStatus(id int, status, lastError string) error {
    query := `UPDATE outbound_messages SET status=$1, last_error=$2, retry_count=retry_count+1, updated_at=NOW() WHERE id=$3`
    _, err := r.DB.Exec(query, status, lastError, id)
    return err
}

// BatchStats returns message counts by status for one dispatched batch.
func (r *OutboundMessageRepository) BatchStats(batchID string) (map[string]int, error) {
    query := `SELECT status, COUNT(*) FROM outbound_messages WHERE batch_id=$1 GROUP BY status`
    rows, err := r.DB.Query(query, batchID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    stats := map[string]int{"pending": 0, "sent": 0, "delivered": 0, "failed": 0}
    for rows.Next() {
        var status string
        var count int
        if err := rows.Scan(&status, &count); err != nil {
            return nil, err
        }
        stats[status] = count
    }
    return stats, rows.Err()
}

var _ OutboundMessageRepositoryInterface = (*OutboundMessageRepository)(nil)
