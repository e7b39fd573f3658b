// internal/selection/strategy.go
package selection

import (
    "strings"
    "time"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/scoring"
)

type Algorithm string

const (
    AlgorithmMass      Algorithm = "mass"
    AlgorithmCampaign  Algorithm = "campaign"
    AlgorithmAutoNudge Algorithm = "auto-nudge"
)

const massLookbackMonths = 18

// Strategy parameterizes the one shared pipeline so the three variants cannot
// drift on the common filtering rules.
type Strategy struct {
    Algorithm Algorithm

    // Filtering knobs on top of the shared subscribed+phone checks.
    RequireLastAppt     bool
    RequireAppointments bool
    LookbackMonths      int // 0 = unlimited

    // HolidayBoost enables the last-year cohort boost before ranking.
    HolidayBoost bool

    // Score computes the per-client priority.
    Score func(e *scoring.Engine, c model.Client, today time.Time) (model.ScoredClient, error)

    // Less orders the final result.
    Less func(a, b model.ScoredClient) bool

    // BatchSize resolves the effective cutoff; 0 means no truncation.
    BatchSize func(today time.Time, requested int) int
}

func ForAlgorithm(alg Algorithm) (Strategy, error) {
    switch alg {
    case AlgorithmMass:
        return Strategy{
            Algorithm:           AlgorithmMass,
            RequireLastAppt:     true,
            RequireAppointments: true,
            LookbackMonths:      massLookbackMonths,
            Score: func(e *scoring.Engine, c model.Client, today time.Time) (model.ScoredClient, error) {
                return e.ScoreRecency(c, today), nil
            },
            // Score is informational for broadcasts; people read the list, so
            // it is ordered by name.
            Less: func(a, b model.ScoredClient) bool {
                return strings.ToLower(a.FullName()) < strings.ToLower(b.FullName())
            },
            BatchSize: func(time.Time, int) int { return 0 },
        }, nil
    case AlgorithmCampaign:
        return Strategy{
            Algorithm:       AlgorithmCampaign,
            RequireLastAppt: true,
            Score: func(e *scoring.Engine, c model.Client, today time.Time) (model.ScoredClient, error) {
                return e.ScoreOverdue(c, today)
            },
            Less: func(a, b model.ScoredClient) bool { return a.Score > b.Score },
            BatchSize: func(_ time.Time, requested int) int {
                return requested
            },
        }, nil
    case AlgorithmAutoNudge:
        return Strategy{
            Algorithm:       AlgorithmAutoNudge,
            RequireLastAppt: true,
            HolidayBoost:    true,
            Score: func(e *scoring.Engine, c model.Client, today time.Time) (model.ScoredClient, error) {
                return e.ScoreOverdue(c, today)
            },
            Less: func(a, b model.ScoredClient) bool { return a.Score > b.Score },
            BatchSize: func(today time.Time, _ int) int {
                return NudgeBatchSize(today)
            },
        }, nil
    }
    return Strategy{}, appErrors.NewValidation("algorithm", string(alg)+" is not one of mass, campaign, auto-nudge")
}

// NudgeBatchSize keeps weekly nudges inside the monthly cap: months with a
// fifth Monday get one extra send cycle, so each batch shrinks to 8.
func NudgeBatchSize(today time.Time) int {
    if MondaysInMonth(today) >= 5 {
        return 8
    }
    return 10
}

func MondaysInMonth(t time.Time) int {
    first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
    count := 0
    for d := first; d.Month() == t.Month(); d = d.AddDate(0, 0, 1) {
        if d.Weekday() == time.Monday {
            count++
        }
    }
    return count
}
