package repository

import (
    "database/sql"
    "fmt"
    "time"

    "github.com/lib/pq"

    "github.com/unclebandit/chairtime-backend/internal/model"
)

// CandidateFilter narrows the candidate fetch. Unsubscribed clients and clients
// without a normalized phone are always excluded in SQL, never here.
type CandidateFilter struct {
    VisitingType string
    MinLastAppt  *time.Time
    IDs          []int
    Limit        int
}

// ClientRepositoryInterface defines the reads the selection and settlement
// paths need.
type ClientRepositoryInterface interface {
    ListCandidates(accountID int, f CandidateFilter) ([]model.Client, error)
    CountVisitsInRange(accountID int, clientIDs []int, from, to time.Time) (map[int]int, error)
    FindAccountIDByPhone(phone string) (int, error)
    TouchLastSMSSent(accountID int, clientIDs []int) error
}

type ClientRepository struct {
    DB *sql.DB
}

const clientColumns = `id, account_id, phone_normalized, first_name, last_name,
       first_appt, last_appt, total_appointments, visiting_type,
       sms_subscribed, date_last_sms_sent`

// ListCandidates fetches eligible clients for one account.
func (r *ClientRepository) ListCandidates(accountID int, f CandidateFilter) ([]model.Client, error) {
    query := `SELECT ` + clientColumns + `
        FROM clients
        WHERE account_id=$1 AND sms_subscribed=TRUE AND phone_normalized <> ''`
    args := []interface{}{accountID}
    argPos := 2

    if f.VisitingType != "" {
        query += fmt.Sprintf(" AND visiting_type=$%d", argPos)
        args = append(args, f.VisitingType)
        argPos++
    }
    if f.MinLastAppt != nil {
        query += fmt.Sprintf(" AND last_appt >= $%d", argPos)
        args = append(args, *f.MinLastAppt)
        argPos++
    }
    if len(f.IDs) > 0 {
        ids := make([]int64, len(f.IDs))
        for i, id := range f.IDs {
            ids[i] = int64(id)
        }
        query += fmt.Sprintf(" AND id = ANY($%d)", argPos)
        args = append(args, pq.Array(ids))
        argPos++
    }
    if f.Limit > 0 {
        query += fmt.Sprintf(" LIMIT $%d", argPos)
        args = append(args, f.Limit)
    }

    rows, err := r.DB.Query(query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    clients := []model.Client{}
    for rows.Next() {
        var c model.Client
        if err := rows.Scan(
            &c.ID, &c.AccountID, &c.PhoneNormalized, &c.FirstName, &c.LastName,
            &c.FirstAppt, &c.LastAppt, &c.TotalAppointments, &c.VisitingType,
            &c.SMSSubscribed, &c.DateLastSMSSent,
        ); err != nil {
            return nil, err
        }
        clients = append(clients, c)
    }
    return clients, rows.Err()
}

// CountVisitsInRange returns per-client appointment counts inside [from, to].
// One grouped query for the whole id list; the holiday matcher works off the
// returned map in memory.
func (r *ClientRepository) CountVisitsInRange(accountID int, clientIDs []int, from, to time.Time) (map[int]int, error) {
    counts := map[int]int{}
    if len(clientIDs) == 0 {
        return counts, nil
    }

    ids := make([]int64, len(clientIDs))
    for i, id := range clientIDs {
        ids[i] = int64(id)
    }

    query := `
        SELECT client_id, COUNT(*)
        FROM appointments
        WHERE account_id=$1 AND client_id = ANY($2) AND appt_date BETWEEN $3 AND $4
        GROUP BY client_id
    `
    rows, err := r.DB.Query(query, accountID, pq.Array(ids), from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    for rows.Next() {
        var clientID, count int
        if err := rows.Scan(&clientID, &count); err != nil {
            return nil, err
        }
        counts[clientID] = count
    }
    return counts, rows.Err()
}

// FindAccountIDByPhone resolves a delivery callback's phone number back to an
// account. A miss returns (0, nil): webhooks arrive for stale records and that
// is a logged no-op for the caller, not an error.
func (r *ClientRepository) FindAccountIDByPhone(phone string) (int, error) {
    var accountID int
    err := r.DB.QueryRow(
        `SELECT account_id FROM clients WHERE phone_normalized=$1 LIMIT 1`,
        phone,
    ).Scan(&accountID)
    if err != nil {
        if err == sql.ErrNoRows {
            return 0, nil
        }
        return 0, err
    }
    return accountID, nil
}

// TouchLastSMSSent stamps date_last_sms_sent for a dispatched batch.
func (r *ClientRepository) TouchLastSMSSent(accountID int, clientIDs []int) error {
    if len(clientIDs) == 0 {
        return nil
    }
    ids := make([]int64, len(clientIDs))
    for i, id := range clientIDs {
        ids[i] = int64(id)
    }
    _, err := r.DB.Exec(
        `UPDATE clients SET date_last_sms_sent=NOW() WHERE account_id=$1 AND id = ANY($2)`,
        accountID, pq.Array(ids),
    )
    return err
}

var _ ClientRepositoryInterface = (*ClientRepository)(nil)
