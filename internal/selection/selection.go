// internal/selection/selection.go
package selection

import (
    "sort"
    "time"

    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/scoring"
)

// DeselectionOverLimit marks clients who qualified but ranked below the batch
// cutoff.
const DeselectionOverLimit = "over_limit"

// Result is the ephemeral outcome of one selection call. Nothing here is
// persisted; deselected clients exist so a preview UI can show who else
// qualified.
type Result struct {
    Clients              []model.ScoredClient `json:"clients"`
    DeselectedClients    []model.ScoredClient `json:"deselected_clients,omitempty"`
    TotalAvailableClients int                 `json:"total_available_clients"`
    Stats                Stats                `json:"stats"`
}

type Stats struct {
    TotalSelected         int            `json:"total_selected"`
    ByVisitingType        map[string]int `json:"by_visiting_type"`
    AvgScore              float64        `json:"avg_score"`
    AvgDaysOverdue        float64        `json:"avg_days_overdue"`
    AvgDaysSinceLastVisit float64        `json:"avg_days_since_last_visit"`
}

// Filter applies the shared eligibility rules plus the strategy's knobs.
// Order of the input is irrelevant; ranking happens later.
func Filter(strat Strategy, clients []model.Client, today time.Time) []model.Client {
    var cutoff time.Time
    if strat.LookbackMonths > 0 {
        cutoff = today.AddDate(0, -strat.LookbackMonths, 0)
    }

    eligible := []model.Client{}
    for _, c := range clients {
        if !c.SMSSubscribed {
            continue
        }
        if c.PhoneNormalized == "" {
            continue
        }
        if strat.RequireLastAppt && c.LastAppt == nil {
            continue
        }
        if strat.RequireAppointments && c.TotalAppointments == 0 {
            continue
        }
        if !cutoff.IsZero() && c.LastAppt != nil && c.LastAppt.Before(cutoff) {
            continue
        }
        eligible = append(eligible, c)
    }
    return eligible
}

// Score runs the strategy's scorer over the eligible set.
func Score(strat Strategy, eng *scoring.Engine, clients []model.Client, today time.Time) ([]model.ScoredClient, error) {
    scored := make([]model.ScoredClient, 0, len(clients))
    for _, c := range clients {
        sc, err := strat.Score(eng, c, today)
        if err != nil {
            return nil, err
        }
        scored = append(scored, sc)
    }
    return scored, nil
}

// Rank sorts, truncates and aggregates. limit is the caller's requested batch
// size; the strategy's BatchSize rule has the final word.
func Rank(strat Strategy, scored []model.ScoredClient, today time.Time, limit int) Result {
    sort.SliceStable(scored, func(i, j int) bool {
        return strat.Less(scored[i], scored[j])
    })

    result := Result{
        Clients:               scored,
        TotalAvailableClients: len(scored),
    }

    if cut := strat.BatchSize(today, limit); cut > 0 && len(scored) > cut {
        result.Clients = scored[:cut]
        result.DeselectedClients = scored[cut:]
        for i := range result.DeselectedClients {
            result.DeselectedClients[i].DeselectionReason = DeselectionOverLimit
        }
    }

    result.Stats = computeStats(result.Clients)
    return result
}

func computeStats(selected []model.ScoredClient) Stats {
    stats := Stats{
        TotalSelected:  len(selected),
        ByVisitingType: map[string]int{},
    }
    if len(selected) == 0 {
        return stats
    }

    var scoreSum, overdueSum, sinceSum int
    for _, sc := range selected {
        stats.ByVisitingType[sc.VisitingType]++
        scoreSum += sc.Score
        overdueSum += sc.DaysOverdue
        sinceSum += sc.DaysSinceLastVisit
    }
    n := float64(len(selected))
    stats.AvgScore = float64(scoreSum) / n
    stats.AvgDaysOverdue = float64(overdueSum) / n
    stats.AvgDaysSinceLastVisit = float64(sinceSum) / n
    return stats
}
