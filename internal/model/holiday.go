// internal/model/holiday.go
package model

import "time"

// Holiday is one entry in the static promotional calendar. The boosting window
// opens ActivationDaysBefore days ahead of StartDate and closes at EndDate.
type Holiday struct {
    ID                   string    `json:"id"`
    Name                 string    `json:"name"`
    Year                 int       `json:"year"`
    StartDate            time.Time `json:"start_date"`
    EndDate              time.Time `json:"end_date"`
    ActivationDaysBefore int       `json:"activation_days_before"`
}
