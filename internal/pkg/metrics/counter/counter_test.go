package counter

import (
	"errors"
	"testing"
)

func TestPendingIncrementsParsesAndOrders(t *testing.T) {
	incs := pendingIncrements(map[string]string{
		"7":    "3",
		"2":    "1",
		"11":   "0",
		"junk": "5",
		"4":    "nope",
	})
	if len(incs) != 2 {
		t.Fatalf("expected 2 usable increments, got %v", incs)
	}
	if incs[0].id != 2 || incs[0].delta != 1 || incs[1].id != 7 || incs[1].delta != 3 {
		t.Fatalf("wrong order or values: %v", incs)
	}
}

func TestIncrementSQLBatchesAllIDs(t *testing.T) {
	incs := []increment{{id: 2, delta: 1}, {id: 7, delta: 3}}
	query, args := incrementSQL("properties", "click_count", incs)

	want := "UPDATE properties SET click_count = click_count + CASE id  WHEN ? THEN ? WHEN ? THEN ? END WHERE id IN (?,?)"
	if query != want {
		t.Fatalf("query = %q, want %q", query, want)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %v", args)
	}
	if args[0] != uint64(2) || args[1] != int64(1) || args[4] != uint64(2) || args[5] != uint64(7) {
		t.Fatalf("args misordered: %v", args)
	}
}

// A failed database update must not lose clicks: every drained increment is
// handed back for re-merge into the live hash.
func TestFailedFlushRestoresDrainedCounts(t *testing.T) {
	incs := []increment{{id: 2, delta: 1}, {id: 7, delta: 3}}
	restored := map[uint64]int64{}

	err := applyIncrements(incs,
		func([]increment) error { return errors.New("db unavailable") },
		func(inc increment) { restored[inc.id] += inc.delta },
	)
	if err == nil {
		t.Fatalf("expected the apply error to surface")
	}
	if restored[2] != 1 || restored[7] != 3 || len(restored) != 2 {
		t.Fatalf("drained counts not restored: %v", restored)
	}
}

func TestSuccessfulFlushRestoresNothing(t *testing.T) {
	incs := []increment{{id: 2, delta: 1}}
	restoreCalls := 0

	if err := applyIncrements(incs,
		func([]increment) error { return nil },
		func(increment) { restoreCalls++ },
	); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if restoreCalls != 0 {
		t.Fatalf("restore ran on the success path %d times", restoreCalls)
	}
}
