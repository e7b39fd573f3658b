package selection_test

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/unclebandit/chairtime-backend/internal/model"
    "github.com/unclebandit/chairtime-backend/internal/scoring"
    "github.com/unclebandit/chairtime-backend/internal/selection"
)

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func client(id int, first, last string, daysAgo int, visitingType string, today time.Time) model.Client {
    appt := today.AddDate(0, 0, -daysAgo)
    return model.Client{
        ID:                id,
        AccountID:         1,
        PhoneNormalized:   "+1555010" + first,
        FirstName:         first,
        LastName:          last,
        LastAppt:          &appt,
        TotalAppointments: 10,
        VisitingType:      visitingType,
        SMSSubscribed:     true,
    }
}

func TestFilterSharedRules(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmCampaign)
    require.NoError(t, err)

    unsubscribed := client(1, "Elijah", "Price", 30, "regular", today)
    unsubscribed.SMSSubscribed = false

    noPhone := client(2, "Owen", "Fisher", 30, "regular", today)
    noPhone.PhoneNormalized = ""

    noVisits := client(3, "Liam", "Grant", 0, "regular", today)
    noVisits.LastAppt = nil

    keeper := client(4, "Marcus", "Reed", 30, "regular", today)

    eligible := selection.Filter(strat, []model.Client{unsubscribed, noPhone, noVisits, keeper}, today)
    require.Len(t, eligible, 1)
    assert.Equal(t, 4, eligible[0].ID)
}

func TestFilterMassLookbackAndApptCount(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmMass)
    require.NoError(t, err)

    recent := client(1, "Marcus", "Reed", 30, "regular", today)

    stale := client(2, "Darius", "Cole", 600, "lapsed", today) // past 18 months

    neverShowed := client(3, "Jalen", "Brooks", 30, "new", today)
    neverShowedAppt := today.AddDate(0, 0, -30)
    neverShowed.LastAppt = &neverShowedAppt
    neverShowed.TotalAppointments = 0

    eligible := selection.Filter(strat, []model.Client{recent, stale, neverShowed}, today)
    require.Len(t, eligible, 1)
    assert.Equal(t, 1, eligible[0].ID)
}

func TestMassRankIsAlphabeticalCaseInsensitive(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmMass)
    require.NoError(t, err)
    eng := scoring.NewEngine()

    clients := []model.Client{
        client(1, "zane", "Abbot", 10, "regular", today),
        client(2, "Adam", "young", 200, "lapsed", today),
        client(3, "adam", "Brooks", 5, "regular", today),
    }

    scored, err := selection.Score(strat, eng, clients, today)
    require.NoError(t, err)
    result := selection.Rank(strat, scored, today, 2)

    // Mass broadcasts never truncate; the limit is ignored.
    require.Len(t, result.Clients, 3)
    assert.Empty(t, result.DeselectedClients)
    assert.Equal(t, []int{3, 2, 1}, []int{result.Clients[0].ID, result.Clients[1].ID, result.Clients[2].ID})

    // Scores are still computed for display.
    assert.Equal(t, scoring.MaxRecencyScore-5, result.Clients[0].Score)
}

func TestCampaignRankOrdersByScoreAndTruncates(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmCampaign)
    require.NoError(t, err)
    eng := scoring.NewEngine()

    clients := []model.Client{
        client(1, "Marcus", "Reed", 50, "regular", today),    // 20 overdue
        client(2, "Darius", "Cole", 100, "occasional", today), // 40 overdue
        client(3, "Andre", "Walker", 35, "regular", today),   // 5 overdue
        client(4, "Tyrone", "Hayes", 10, "regular", today),   // not due
    }

    scored, err := selection.Score(strat, eng, clients, today)
    require.NoError(t, err)
    result := selection.Rank(strat, scored, today, 2)

    require.Len(t, result.Clients, 2)
    assert.Equal(t, 2, result.Clients[0].ID)
    assert.Equal(t, 1, result.Clients[1].ID)

    assert.Equal(t, 4, result.TotalAvailableClients)
    assert.Equal(t, len(result.Clients)+len(result.DeselectedClients), result.TotalAvailableClients)

    for _, sc := range result.DeselectedClients {
        assert.Equal(t, selection.DeselectionOverLimit, sc.DeselectionReason)
    }
    for _, sc := range result.Clients {
        assert.Empty(t, sc.DeselectionReason)
    }

    // Scores never increase down the list.
    for i := 1; i < len(result.Clients); i++ {
        assert.GreaterOrEqual(t, result.Clients[i-1].Score, result.Clients[i].Score)
    }
}

func TestRankStats(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmCampaign)
    require.NoError(t, err)
    eng := scoring.NewEngine()

    clients := []model.Client{
        client(1, "Marcus", "Reed", 50, "regular", today),
        client(2, "Darius", "Cole", 40, "regular", today),
    }
    scored, err := selection.Score(strat, eng, clients, today)
    require.NoError(t, err)
    result := selection.Rank(strat, scored, today, 0)

    assert.Equal(t, 2, result.Stats.TotalSelected)
    assert.Equal(t, map[string]int{"regular": 2}, result.Stats.ByVisitingType)
    assert.InDelta(t, 45.0, result.Stats.AvgDaysSinceLastVisit, 0.001)
    assert.InDelta(t, 15.0, result.Stats.AvgDaysOverdue, 0.001)
    assert.InDelta(t, 30.0, result.Stats.AvgScore, 0.001) // weight 2 × avg overdue
}

func TestRankEmptyInput(t *testing.T) {
    today := day(2025, time.March, 15)
    strat, err := selection.ForAlgorithm(selection.AlgorithmCampaign)
    require.NoError(t, err)

    result := selection.Rank(strat, []model.ScoredClient{}, today, 10)
    assert.Empty(t, result.Clients)
    assert.Empty(t, result.DeselectedClients)
    assert.Equal(t, 0, result.TotalAvailableClients)
    assert.Equal(t, 0, result.Stats.TotalSelected)
}

func TestMondaysInMonth(t *testing.T) {
    tests := []struct {
        date time.Time
        want int
    }{
        {day(2024, time.February, 15), 4},  // Mondays: 5, 12, 19, 26
        {day(2024, time.December, 1), 5},   // Mondays: 2, 9, 16, 23, 30
        {day(2025, time.September, 10), 5}, // Mondays: 1, 8, 15, 22, 29
        {day(2025, time.November, 18), 4},  // Mondays: 3, 10, 17, 24
    }
    for _, tt := range tests {
        assert.Equal(t, tt.want, selection.MondaysInMonth(tt.date), tt.date.Format("2006-01"))
    }
}

func TestNudgeBatchSize(t *testing.T) {
    // Five-Monday months get an extra weekly cycle, so batches shrink.
    assert.Equal(t, 8, selection.NudgeBatchSize(day(2024, time.December, 1)))
    assert.Equal(t, 10, selection.NudgeBatchSize(day(2024, time.February, 15)))
}

func TestUnknownAlgorithm(t *testing.T) {
    _, err := selection.ForAlgorithm("spray-and-pray")
    assert.Error(t, err)
}
