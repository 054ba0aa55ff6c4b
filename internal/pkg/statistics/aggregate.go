package statistics

import (
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

const breakdownDays = 30

// DailyCount is one day of the click breakdown.
type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD in the report timezone
	Count int64  `json:"count"`
}

// Report aggregates raw click events into the windows the host dashboard
// shows. Every click counts; repeated clicks from the same visitor are not
// deduplicated.
type Report struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Month   int64 `json:"month"`
	AllTime int64 `json:"all_time"`

	// Daily is the last 30 days including today, oldest first, zero-filled.
	Daily []DailyCount `json:"daily"`

	// PerProperty holds all-time totals keyed by property id.
	PerProperty map[uint]int64 `json:"per_property"`
}

// Aggregate computes a click report over the given events. Day boundaries are
// taken in loc; `now` anchors the windows so the function stays deterministic
// under test.
//
// Windows: Today is since local midnight, Week is the trailing 7 local days
// including today, Month is the trailing 30.
func Aggregate(events []models.ClickEvent, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.UTC
	}
	localNow := now.In(loc)
	dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := dayStart.AddDate(0, 0, -(breakdownDays - 1))

	report := Report{
		Daily:       make([]DailyCount, breakdownDays),
		PerProperty: make(map[uint]int64),
	}
	dayIndex := make(map[string]int, breakdownDays)
	for i := 0; i < breakdownDays; i++ {
		date := monthStart.AddDate(0, 0, i).Format("2006-01-02")
		report.Daily[i] = DailyCount{Date: date}
		dayIndex[date] = i
	}

	for i := range events {
		evt := &events[i]
		occurred := evt.OccurredAt.In(loc)

		report.AllTime++
		report.PerProperty[evt.PropertyID]++

		if occurred.Before(monthStart) {
			continue
		}
		report.Month++
		if !occurred.Before(weekStart) {
			report.Week++
		}
		if !occurred.Before(dayStart) {
			report.Today++
		}
		if idx, ok := dayIndex[occurred.Format("2006-01-02")]; ok {
			report.Daily[idx].Count++
		}
	}

	return report
}
