package statistics

import (
	"testing"
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

func click(propertyID uint, at time.Time) models.ClickEvent {
	return models.ClickEvent{PropertyID: propertyID, OccurredAt: at, Source: "directory"}
}

func TestAggregateWindows(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 6, 15, 18, 0, 0, 0, loc)

	earlierToday := now.Add(-time.Hour)
	thisWeek := now.AddDate(0, 0, -3)
	thisMonth := now.AddDate(0, 0, -20)
	lastMonth := now.AddDate(0, 0, -45)
	january := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)

	events := []models.ClickEvent{
		click(1, earlierToday),
		click(1, thisWeek),
		click(1, thisMonth),
		click(1, lastMonth),
		click(1, january),
	}

	r := Aggregate(events, now, loc)
	if r.Today != 1 {
		t.Fatalf("Today = %d, want 1", r.Today)
	}
	if r.Week != 2 {
		t.Fatalf("Week = %d, want 2", r.Week)
	}
	if r.Month != 3 {
		t.Fatalf("Month = %d, want 3", r.Month)
	}
	if r.AllTime != 5 {
		t.Fatalf("AllTime = %d, want 5", r.AllTime)
	}
}

func TestAggregateNoDeduplication(t *testing.T) {
	now := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)
	same := now.Add(-time.Minute)

	// Five clicks at the identical instant on the identical property all count.
	var events []models.ClickEvent
	for i := 0; i < 5; i++ {
		events = append(events, click(7, same))
	}

	r := Aggregate(events, now, time.UTC)
	if r.Today != 5 || r.AllTime != 5 {
		t.Fatalf("got today=%d allTime=%d, want 5/5", r.Today, r.AllTime)
	}
	if r.PerProperty[7] != 5 {
		t.Fatalf("PerProperty[7] = %d, want 5", r.PerProperty[7])
	}
}

func TestAggregateDailyBreakdown(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, loc)

	oldestBucket := now.AddDate(0, 0, -29).Add(time.Hour)
	justOutside := now.AddDate(0, 0, -30)

	events := []models.ClickEvent{
		click(1, now),
		click(1, oldestBucket),
		click(1, justOutside),
	}

	r := Aggregate(events, now, loc)
	if len(r.Daily) != 30 {
		t.Fatalf("breakdown has %d days, want 30", len(r.Daily))
	}
	if r.Daily[0].Date != "2026-05-17" || r.Daily[29].Date != "2026-06-15" {
		t.Fatalf("breakdown range is %s..%s", r.Daily[0].Date, r.Daily[29].Date)
	}
	if r.Daily[0].Count != 1 || r.Daily[29].Count != 1 {
		t.Fatalf("edge buckets = %d/%d, want 1/1", r.Daily[0].Count, r.Daily[29].Count)
	}
	// Interior days with no clicks are present with zero counts.
	if r.Daily[15].Count != 0 {
		t.Fatalf("empty bucket not zero-filled: %+v", r.Daily[15])
	}
	if r.Month != 2 {
		t.Fatalf("Month = %d, want 2", r.Month)
	}
}

func TestAggregateRespectsReportTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// 03:00 UTC on June 15 is still June 14 in New York.
	now := time.Date(2026, 6, 15, 3, 0, 0, 0, time.UTC)
	lateEvening := time.Date(2026, 6, 15, 1, 0, 0, 0, time.UTC) // 21:00 June 14 local

	r := Aggregate([]models.ClickEvent{click(1, lateEvening)}, now, loc)
	if r.Today != 1 {
		t.Fatalf("Today = %d, want 1: both instants fall on June 14 local", r.Today)
	}

	rUTC := Aggregate([]models.ClickEvent{click(1, lateEvening)}, now, time.UTC)
	if rUTC.Today != 0 {
		t.Fatalf("UTC Today = %d, want 0: event was yesterday in UTC", rUTC.Today)
	}
}

func TestAggregateEmpty(t *testing.T) {
	r := Aggregate(nil, time.Now(), nil)
	if r.AllTime != 0 || r.Today != 0 || len(r.Daily) != 30 {
		t.Fatalf("empty aggregate malformed: %+v", r)
	}
}
