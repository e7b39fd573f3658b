// internal/scoring/engine.go
package scoring

import (
    "time"

    appErrors "github.com/unclebandit/chairtime-backend/internal/errors"
    "github.com/unclebandit/chairtime-backend/internal/model"
)

const (
    // MaxRecencyScore is the recency ceiling: a client seen today scores 240,
    // and the score decays by one point per day since the last visit.
    MaxRecencyScore = 240

    // DefaultOverdueWeight converts days overdue into campaign score points.
    // Tunable business parameter; only the recency ceiling above is fixed.
    DefaultOverdueWeight = 2

    // HolidayBoostAmount is added once to clients who visited around the
    // equivalent holiday last year.
    HolidayBoostAmount = 60

    // LookbackBufferDays widens last year's holiday dates when matching visits.
    LookbackBufferDays = 7
)

// visitIntervals maps visiting_type to the expected days between visits.
// Closed set: anything else is a configuration error, not a zero.
var visitIntervals = map[string]int{
    "new":        45,
    "regular":    30,
    "occasional": 60,
    "lapsed":     120,
}

// ExpectedVisitInterval returns the typical cadence for a visiting type.
func ExpectedVisitInterval(visitingType string) (int, error) {
    interval, ok := visitIntervals[visitingType]
    if !ok {
        return 0, appErrors.NewUnknownVisitingType(visitingType)
    }
    return interval, nil
}

// DaysSince counts whole days from last to today, clamped at zero. A future
// last_appt (bad sync data) is treated as "just visited". A nil last_appt is
// zero days.
func DaysSince(today time.Time, last *time.Time) int {
    if last == nil {
        return 0
    }
    days := int(today.Sub(*last).Hours() / 24)
    if days < 0 {
        return 0
    }
    return days
}

type Engine struct {
    OverdueWeight int
}

func NewEngine() *Engine {
    return &Engine{OverdueWeight: DefaultOverdueWeight}
}

// ScoreRecency computes the simple recency score used by mass broadcasts.
// Clients with no visit history score zero with zeroed day counts; they are
// deprioritized, not excluded.
func (e *Engine) ScoreRecency(c model.Client, today time.Time) model.ScoredClient {
    sc := model.ScoredClient{Client: c}
    if c.LastAppt == nil {
        return sc
    }
    sc.DaysSinceLastVisit = DaysSince(today, c.LastAppt)
    sc.Score = MaxRecencyScore - sc.DaysSinceLastVisit
    if sc.Score < 0 {
        sc.Score = 0
    }
    return sc
}

// ScoreOverdue computes the campaign score: proportional to how far past the
// client's expected visit interval they are. Not-yet-due clients floor at zero
// but keep their negative days_overdue for diagnostics.
func (e *Engine) ScoreOverdue(c model.Client, today time.Time) (model.ScoredClient, error) {
    sc := model.ScoredClient{Client: c}
    if c.LastAppt == nil {
        return sc, nil
    }

    interval, err := ExpectedVisitInterval(c.VisitingType)
    if err != nil {
        return sc, err
    }

    sc.DaysSinceLastVisit = DaysSince(today, c.LastAppt)
    sc.ExpectedVisitIntervalDays = interval
    sc.DaysOverdue = sc.DaysSinceLastVisit - interval
    if sc.DaysOverdue > 0 {
        sc.Score = e.OverdueWeight * sc.DaysOverdue
    }
    return sc, nil
}

// ApplyHolidayBoost tags a scored client as part of a holiday cohort and adds
// the boost once. Calling it again for the same client is a no-op.
func ApplyHolidayBoost(sc *model.ScoredClient, holidayID string) {
    if sc.MatchedLastYear {
        return
    }
    sc.MatchedLastYear = true
    sc.HolidayCohort = holidayID
    sc.Boost = HolidayBoostAmount
    sc.Score += HolidayBoostAmount
}
