package studypartner

import (
	"errors"
	"time"
)

// ErrNoHistory is returned by the derived stats when the ledger is empty.
var ErrNoHistory = errors.New("no quiz history yet")

// historyStampFormat is minute resolution on purpose: two records landing in
// the same minute are treated as one (see Record).
const historyStampFormat = "2006-01-02 15:04"

// History is an append-only ledger of completed quiz results for one
// session. Sessions are single-threaded, so no locking is needed.
type History struct {
	records []HistoryRecord
	now     func() time.Time
}

// NewHistory creates an empty ledger.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Record appends a result stamped with the current minute. If a record with
// an identical minute stamp already exists the append is skipped. This is a
// coarse guard against the results view recording twice on a re-render; a
// legitimate second submission within the same minute is dropped too, which
// is an accepted limitation rather than something to repair here.
func (h *History) Record(percentage float64, correct, total int) {
	stamp := h.now().Format(historyStampFormat)
	for _, rec := range h.records {
		if rec.Date == stamp {
			return
		}
	}
	h.records = append(h.records, HistoryRecord{
		Date:    stamp,
		Score:   percentage,
		Correct: correct,
		Total:   total,
	})
}

// Clear empties the ledger unconditionally.
func (h *History) Clear() {
	h.records = nil
}

// Count returns the number of recorded results.
func (h *History) Count() int {
	return len(h.records)
}

// Records returns the ledger entries in append order.
func (h *History) Records() []HistoryRecord {
	return h.records
}

// Average returns the arithmetic mean of the recorded percentages. It fails
// on an empty ledger so display paths cannot mistake "no data" for 0%.
func (h *History) Average() (float64, error) {
	if len(h.records) == 0 {
		return 0, ErrNoHistory
	}
	var sum float64
	for _, rec := range h.records {
		sum += rec.Score
	}
	return sum / float64(len(h.records)), nil
}

// Best returns the highest recorded percentage, failing on an empty ledger.
func (h *History) Best() (float64, error) {
	if len(h.records) == 0 {
		return 0, ErrNoHistory
	}
	best := h.records[0].Score
	for _, rec := range h.records[1:] {
		if rec.Score > best {
			best = rec.Score
		}
	}
	return best, nil
}
