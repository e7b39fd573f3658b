// internal/model/scored_client.go
package model

// ScoredClient is a Client annotated with selection-time fields. These are
// recomputed on every selection call and never written back to the database.
type ScoredClient struct {
    Client
    Score                     int    `json:"score"`
    DaysSinceLastVisit        int    `json:"days_since_last_visit"`
    ExpectedVisitIntervalDays int    `json:"expected_visit_interval_days"`
    DaysOverdue               int    `json:"days_overdue"` // negative when not yet due
    Boost                     int    `json:"boost"`
    MatchedLastYear           bool   `json:"matched_last_year"`
    HolidayCohort             string `json:"holiday_cohort,omitempty"`

    // DeselectionReason is set only on clients excluded from the final batch.
    DeselectionReason string `json:"deselection_reason,omitempty"`
}
