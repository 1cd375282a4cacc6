package studypartner

import (
	"errors"
	"testing"
	"time"
)

func TestHistoryStats(t *testing.T) {
	h := NewHistory()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	minute := 0
	h.now = func() time.Time { return base.Add(time.Duration(minute) * time.Minute) }

	for _, score := range []float64{100, 50, 0} {
		h.Record(score, 0, 5)
		minute++
	}

	if h.Count() != 3 {
		t.Fatalf("Count = %d, want 3", h.Count())
	}
	avg, err := h.Average()
	if err != nil {
		t.Fatalf("Average: %v", err)
	}
	if avg != 50.0 {
		t.Errorf("Average = %v, want 50.0", avg)
	}
	best, err := h.Best()
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if best != 100.0 {
		t.Errorf("Best = %v, want 100.0", best)
	}
}

func TestHistoryEmptyStatsError(t *testing.T) {
	h := NewHistory()
	if _, err := h.Average(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Average on empty ledger = %v, want ErrNoHistory", err)
	}
	if _, err := h.Best(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Best on empty ledger = %v, want ErrNoHistory", err)
	}
}

func TestHistorySameMinuteDeduplication(t *testing.T) {
	h := NewHistory()
	stamp := time.Date(2024, 3, 1, 10, 30, 5, 0, time.UTC)
	h.now = func() time.Time { return stamp }

	h.Record(80, 4, 5)
	h.Record(80, 4, 5)
	// Different result, same minute: still dropped. Known limitation of the
	// minute-stamp guard.
	stamp = stamp.Add(20 * time.Second)
	h.Record(60, 3, 5)

	if h.Count() != 1 {
		t.Fatalf("Count = %d, want 1 after same-minute records", h.Count())
	}

	// A minute later the next record lands.
	stamp = stamp.Add(time.Minute)
	h.Record(60, 3, 5)
	if h.Count() != 2 {
		t.Fatalf("Count = %d, want 2 after minute elapsed", h.Count())
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Record(75, 3, 4)
	h.Clear()
	if h.Count() != 0 {
		t.Fatalf("Count = %d after Clear, want 0", h.Count())
	}
	if _, err := h.Average(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Average after Clear = %v, want ErrNoHistory", err)
	}
}
