// internal/service/selection_service.go
package service

import (
    "time"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/holiday"
    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/repository"
    "github.com/unclebandit/chairtime-backend/internal/scoring"
    "github.com/unclebandit/chairtime-backend/internal/selection"
)

type SelectionService struct {
    ClientRepo   repository.ClientRepositoryInterface
    OutboundRepo repository.OutboundMessageRepositoryInterface
    Engine       *scoring.Engine

    // Now is injectable for tests; nil means time.Now.
    Now func() time.Time
}

func (s *SelectionService) now() time.Time {
    if s.Now != nil {
        return s.Now()
    }
    return time.Now().UTC()
}

// PreviewRecipients runs one selection pass: fetch candidates, score, boost
// (auto-nudge only), rank, truncate. Zero eligible candidates is a success
// with an empty result, never an error.
func (s *SelectionService) PreviewRecipients(accountID int, alg selection.Algorithm, limit int, visitingType string) (*selection.Result, error) {
    if accountID <= 0 {
        return nil, appErrors.NewValidation("account_id", "must be a positive integer")
    }

    strat, err := selection.ForAlgorithm(alg)
    if err != nil {
        return nil, err
    }
    today := s.now()

    filter := repository.CandidateFilter{VisitingType: visitingType}
    if strat.LookbackMonths > 0 {
        min := today.AddDate(0, -strat.LookbackMonths, 0)
        filter.MinLastAppt = &min
    }

    candidates, err := s.ClientRepo.ListCandidates(accountID, filter)
    if err != nil {
        return nil, err
    }

    eligible := selection.Filter(strat, candidates, today)
    scored, err := selection.Score(strat, s.Engine, eligible, today)
    if err != nil {
        return nil, err
    }

    if strat.HolidayBoost {
        if err := s.applyHolidayBoosts(accountID, scored, today); err != nil {
            return nil, err
        }
    }

    result := selection.Rank(strat, scored, today, limit)
    return &result, nil
}

// RePreviewBatch re-scores the recipients of an already-created batch instead
// of selecting fresh ones. The batch is resolved through any one of its
// outbound message ids; recipients are never truncated, since they were
// already chosen.
func (s *SelectionService) RePreviewBatch(accountID, messageID int, alg selection.Algorithm) (*selection.Result, error) {
    if accountID <= 0 {
        return nil, appErrors.NewValidation("account_id", "must be a positive integer")
    }

    msg, err := s.OutboundRepo.GetByID(messageID)
    if err != nil {
        return nil, err
    }
    if msg == nil || msg.AccountID != accountID {
        return nil, appErrors.NewValidation("message_id", "no outbound message with that id for this account")
    }

    strat, err := selection.ForAlgorithm(alg)
    if err != nil {
        return nil, err
    }
    // The stored recipient list is final; the batch-size rule does not apply.
    strat.BatchSize = func(time.Time, int) int { return 0 }

    siblings, err := s.OutboundRepo.ListByBatch(msg.BatchID)
    if err != nil {
        return nil, err
    }
    ids := make([]int, 0, len(siblings))
    for _, sibling := range siblings {
        ids = append(ids, sibling.ClientID)
    }

    clients, err := s.ClientRepo.ListCandidates(accountID, repository.CandidateFilter{IDs: ids})
    if err != nil {
        return nil, err
    }

    today := s.now()
    scored, err := selection.Score(strat, s.Engine, clients, today)
    if err != nil {
        return nil, err
    }
    if strat.HolidayBoost {
        if err := s.applyHolidayBoosts(accountID, scored, today); err != nil {
            return nil, err
        }
    }

    result := selection.Rank(strat, scored, today, 0)
    return &result, nil
}

// applyHolidayBoosts checks the active holiday's previous-year window and
// boosts clients who visited inside it. One grouped visit query for the whole
// candidate list; multiple qualifying visits still boost only once.
func (s *SelectionService) applyHolidayBoosts(accountID int, scored []model.ScoredClient, today time.Time) error {
    active := holiday.ActiveForBoosting(today)
    if active == nil {
        return nil
    }
    prev := holiday.PreviousYear(*active)
    if prev == nil {
        return nil
    }

    from, to := holiday.DateRange(*prev, scoring.LookbackBufferDays)

    ids := make([]int, len(scored))
    for i := range scored {
        ids[i] = scored[i].ID
    }

    counts, err := s.ClientRepo.CountVisitsInRange(accountID, ids, from, to)
    if err != nil {
        return err
    }

    for i := range scored {
        if counts[scored[i].ID] > 0 {
            scoring.ApplyHolidayBoost(&scored[i], active.ID)
        }
    }
    return nil
}
