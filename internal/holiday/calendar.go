// internal/holiday/calendar.go
package holiday

import (
    "time"

    "github.com/unclebandit/chairtime-backend/internal/model"
)

// The calendar is version-controlled data, not database rows. Dates are
// midnight UTC; all window math is done at day granularity.

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var calendar = []model.Holiday{
    // Valentine's Day: promo week leading into Feb 14.
    {ID: "valentines-2023", Name: "Valentines", Year: 2023, StartDate: day(2023, time.February, 7), EndDate: day(2023, time.February, 14), ActivationDaysBefore: 7},
    {ID: "valentines-2024", Name: "Valentines", Year: 2024, StartDate: day(2024, time.February, 7), EndDate: day(2024, time.February, 14), ActivationDaysBefore: 7},
    {ID: "valentines-2025", Name: "Valentines", Year: 2025, StartDate: day(2025, time.February, 7), EndDate: day(2025, time.February, 14), ActivationDaysBefore: 7},
    {ID: "valentines-2026", Name: "Valentines", Year: 2026, StartDate: day(2026, time.February, 7), EndDate: day(2026, time.February, 14), ActivationDaysBefore: 7},

    // Mother's Day: the five days up to the second Sunday of May.
    {ID: "mothersday-2023", Name: "MothersDay", Year: 2023, StartDate: day(2023, time.May, 9), EndDate: day(2023, time.May, 14), ActivationDaysBefore: 7},
    {ID: "mothersday-2024", Name: "MothersDay", Year: 2024, StartDate: day(2024, time.May, 7), EndDate: day(2024, time.May, 12), ActivationDaysBefore: 7},
    {ID: "mothersday-2025", Name: "MothersDay", Year: 2025, StartDate: day(2025, time.May, 6), EndDate: day(2025, time.May, 11), ActivationDaysBefore: 7},
    {ID: "mothersday-2026", Name: "MothersDay", Year: 2026, StartDate: day(2026, time.May, 5), EndDate: day(2026, time.May, 10), ActivationDaysBefore: 7},

    // Father's Day: the five days up to the third Sunday of June.
    {ID: "fathersday-2023", Name: "FathersDay", Year: 2023, StartDate: day(2023, time.June, 13), EndDate: day(2023, time.June, 18), ActivationDaysBefore: 7},
    {ID: "fathersday-2024", Name: "FathersDay", Year: 2024, StartDate: day(2024, time.June, 11), EndDate: day(2024, time.June, 16), ActivationDaysBefore: 7},
    {ID: "fathersday-2025", Name: "FathersDay", Year: 2025, StartDate: day(2025, time.June, 10), EndDate: day(2025, time.June, 15), ActivationDaysBefore: 7},
    {ID: "fathersday-2026", Name: "FathersDay", Year: 2026, StartDate: day(2026, time.June, 16), EndDate: day(2026, time.June, 21), ActivationDaysBefore: 7},

    // Black Friday: the week ending on the Friday after Thanksgiving.
    {ID: "blackfriday-2023", Name: "BlackFriday", Year: 2023, StartDate: day(2023, time.November, 17), EndDate: day(2023, time.November, 24), ActivationDaysBefore: 7},
    {ID: "blackfriday-2024", Name: "BlackFriday", Year: 2024, StartDate: day(2024, time.November, 22), EndDate: day(2024, time.November, 29), ActivationDaysBefore: 7},
    {ID: "blackfriday-2025", Name: "BlackFriday", Year: 2025, StartDate: day(2025, time.November, 21), EndDate: day(2025, time.November, 28), ActivationDaysBefore: 7},
    {ID: "blackfriday-2026", Name: "BlackFriday", Year: 2026, StartDate: day(2026, time.November, 20), EndDate: day(2026, time.November, 27), ActivationDaysBefore: 7},

    // Christmas rush: Dec 18-24.
    {ID: "christmas-2023", Name: "Christmas", Year: 2023, StartDate: day(2023, time.December, 18), EndDate: day(2023, time.December, 24), ActivationDaysBefore: 10},
    {ID: "christmas-2024", Name: "Christmas", Year: 2024, StartDate: day(2024, time.December, 18), EndDate: day(2024, time.December, 24), ActivationDaysBefore: 10},
    {ID: "christmas-2025", Name: "Christmas", Year: 2025, StartDate: day(2025, time.December, 18), EndDate: day(2025, time.December, 24), ActivationDaysBefore: 10},
    {ID: "christmas-2026", Name: "Christmas", Year: 2026, StartDate: day(2026, time.December, 18), EndDate: day(2026, time.December, 24), ActivationDaysBefore: 10},

    // New Year's Eve cleanups: Dec 26-31.
    {ID: "newyear-2023", Name: "NewYear", Year: 2023, StartDate: day(2023, time.December, 26), EndDate: day(2023, time.December, 31), ActivationDaysBefore: 5},
    {ID: "newyear-2024", Name: "NewYear", Year: 2024, StartDate: day(2024, time.December, 26), EndDate: day(2024, time.December, 31), ActivationDaysBefore: 5},
    {ID: "newyear-2025", Name: "NewYear", Year: 2025, StartDate: day(2025, time.December, 26), EndDate: day(2025, time.December, 31), ActivationDaysBefore: 5},
    {ID: "newyear-2026", Name: "NewYear", Year: 2026, StartDate: day(2026, time.December, 26), EndDate: day(2026, time.December, 31), ActivationDaysBefore: 5},
}

// All returns the full calendar. Callers must not mutate the entries.
func All() []model.Holiday {
    return calendar
}

// GetByID looks up a single calendar entry. Unknown ids return nil, not an error.
func GetByID(id string) *model.Holiday {
    for i := range calendar {
        if calendar[i].ID == id {
            return &calendar[i]
        }
    }
    return nil
}

// ActiveForBoosting returns the holiday whose boosting window contains today,
// or nil. The window is [StartDate - ActivationDaysBefore, EndDate]. When
// windows overlap, the holiday with the nearest current-or-future start date
// wins; ties go to the smaller activation window.
func ActiveForBoosting(today time.Time) *model.Holiday {
    today = truncateToDay(today)

    var best *model.Holiday
    for i := range calendar {
        h := &calendar[i]
        open := h.StartDate.AddDate(0, 0, -h.ActivationDaysBefore)
        if today.Before(open) || today.After(h.EndDate) {
            continue
        }
        if best == nil || closerStart(today, h, best) {
            best = h
        }
    }
    return best
}

// closerStart reports whether a's start date is nearer to today than b's.
// Upcoming (or today's) starts beat already-past starts.
func closerStart(today time.Time, a, b *model.Holiday) bool {
    da := daysBetween(today, a.StartDate)
    db := daysBetween(today, b.StartDate)

    aFuture, bFuture := da >= 0, db >= 0
    if aFuture != bFuture {
        return aFuture
    }
    if da < 0 {
        da, db = -da, -db
    }
    if da != db {
        return da < db
    }
    return a.ActivationDaysBefore < b.ActivationDaysBefore
}

// PreviousYear returns the same holiday one year earlier, or nil if the
// calendar has no entry for it (first year a holiday was introduced).
func PreviousYear(h model.Holiday) *model.Holiday {
    for i := range calendar {
        if calendar[i].Name == h.Name && calendar[i].Year == h.Year-1 {
            return &calendar[i]
        }
    }
    return nil
}

// DateRange returns the holiday's dates widened by bufferDays on both sides.
// Used as the lookback window for "visited around this holiday last year".
func DateRange(h model.Holiday, bufferDays int) (time.Time, time.Time) {
    return h.StartDate.AddDate(0, 0, -bufferDays), h.EndDate.AddDate(0, 0, bufferDays)
}

func truncateToDay(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
    return int(to.Sub(from).Hours() / 24)
}
