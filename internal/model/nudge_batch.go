// internal/model/nudge_batch.go
package model

import (
    "time"

    "github.com/lib/pq"
)

// NudgeBatch records one weekly auto-nudge run. Rows are immutable; the unique
// index on (account_id, iso_week) is what makes duplicate weekly triggers safe.
type NudgeBatch struct {
    ID        string        `db:"id" json:"id"`
    AccountID int           `db:"account_id" json:"account_id"`
    ISOWeek   string        `db:"iso_week" json:"iso_week"`
    ClientIDs pq.Int64Array `db:"client_ids" json:"client_ids"`
    CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
