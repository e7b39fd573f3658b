// internal/service/nudge_service.go
package service

import (
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/lib/pq"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/repository"
    "github.com/unclebandit/chairtime-backend/internal/selection"
)

// DefaultNudgeTemplate is sent when the recurring trigger fires without a
// configured message.
const DefaultNudgeTemplate = "Hi {first_name}, it's been a while! Book your next appointment and keep that fresh look."

type NudgeService struct {
    Selection *SelectionService
    Dispatch  *DispatchService
    NudgeRepo repository.NudgeBatchRepositoryInterface

    Now func() time.Time
}

type NudgeRunResult struct {
    BatchID        string `json:"batch_id,omitempty"`
    ISOWeek        string `json:"iso_week"`
    AlreadyRan     bool   `json:"already_ran"`
    MessagesQueued int    `json:"messages_queued"`
}

func (s *NudgeService) now() time.Time {
    if s.Now != nil {
        return s.Now()
    }
    return time.Now().UTC()
}

// ISOWeekLabel keys recurring batches, e.g. "2024-W48". Monday-start weeks.
func ISOWeekLabel(t time.Time) string {
    year, week := t.ISOWeek()
    return fmt.Sprintf("%d-W%02d", year, week)
}

// RunWeekly executes one auto-nudge cycle for the account. Idempotent per ISO
// week: the batch row's unique index decides who won, so two near-simultaneous
// triggers cannot both send.
func (s *NudgeService) RunWeekly(accountID int, week string) (*NudgeRunResult, error) {
    if accountID <= 0 {
        return nil, appErrors.NewValidation("account_id", "must be a positive integer")
    }
    if week == "" {
        week = ISOWeekLabel(s.now())
    }

    if existing, err := s.NudgeRepo.GetByWeek(accountID, week); err != nil {
        return nil, err
    } else if existing != nil {
        return &NudgeRunResult{BatchID: existing.ID, ISOWeek: week, AlreadyRan: true}, nil
    }

    result, err := s.Selection.PreviewRecipients(accountID, selection.AlgorithmAutoNudge, 0, "")
    if err != nil {
        return nil, err
    }
    if len(result.Clients) == 0 {
        // Nobody currently qualifies. No batch row: a later trigger this week
        // may still find someone.
        return &NudgeRunResult{ISOWeek: week}, nil
    }

    batch := &model.NudgeBatch{
        ID:        uuid.NewString(),
        AccountID: accountID,
        ISOWeek:   week,
        ClientIDs: make(pq.Int64Array, len(result.Clients)),
    }
    for i, sc := range result.Clients {
        batch.ClientIDs[i] = int64(sc.ID)
    }

    created, err := s.NudgeRepo.Create(batch)
    if err != nil {
        return nil, err
    }
    if !created {
        // Lost the insert race to a concurrent trigger.
        existing, err := s.NudgeRepo.GetByWeek(accountID, week)
        if err != nil {
            return nil, err
        }
        res := &NudgeRunResult{ISOWeek: week, AlreadyRan: true}
        if existing != nil {
            res.BatchID = existing.ID
        }
        return res, nil
    }

    dispatched, err := s.Dispatch.DispatchSelected(accountID, result.Clients, DefaultNudgeTemplate)
    if err != nil {
        // Nothing was sent, so the week must not stay marked as ran.
        if derr := s.NudgeRepo.Delete(accountID, week); derr != nil {
            return nil, derr
        }
        return nil, err
    }

    return &NudgeRunResult{
        BatchID:        batch.ID,
        ISOWeek:        week,
        MessagesQueued: dispatched.MessagesQueued,
    }, nil
}
