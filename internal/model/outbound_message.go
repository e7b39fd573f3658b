// internal/model/outbound_message.go
package model

import "time"

type OutboundMessage struct {
    ID              int       `db:"id" json:"id"`
    BatchID         string    `db:"batch_id" json:"batch_id"`
    AccountID       int       `db:"account_id" json:"account_id"`
    ClientID        int       `db:"client_id" json:"client_id"`
    Phone           string    `db:"phone" json:"phone"`
    Status          string    `db:"status" json:"status"` // pending, sent, delivered, failed
    RenderedContent string    `db:"rendered_content" json:"rendered_content"`
    LastError       string    `db:"last_error,omitempty" json:"last_error,omitempty"`
    RetryCount      int       `db:"retry_count" json:"retry_count"`
    CreatedAt       time.Time `db:"created_at" json:"created_at"`
    UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
