// Package usage counts upstream provider calls per calendar day. The count
// is process-local state: it resets lazily on the first call of a new day
// and does not survive restarts.
package usage

import (
	"fmt"
	"sync"
	"time"
)

const dayLayout = "2006-01-02"

// Tracker is the daily request counter shared by all requests in the
// process. Threshold is a soft limit: Track keeps counting past it and only
// reports that the warning level was reached.
type Tracker struct {
	mu        sync.Mutex
	count     int
	day       string
	threshold int
	now       func() time.Time
}

func NewTracker(threshold int) *Tracker {
	return &Tracker{
		threshold: threshold,
		now:       time.Now,
	}
}

// Track records one upstream call. It returns the running count for today
// and whether the soft warning threshold has been reached.
func (t *Tracker) Track() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now().Format(dayLayout)
	if t.day != today {
		t.day = today
		t.count = 1
	} else {
		t.count++
	}
	return t.count, t.threshold > 0 && t.count >= t.threshold
}

// Count returns today's count without recording a call. Returns 0 if the
// last recorded call was on a previous day.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.day != t.now().Format(dayLayout) {
		return 0
	}
	return t.count
}

// String renders the usage line exposed to API consumers.
func (t *Tracker) String() string {
	return fmt.Sprintf("%d requests today", t.Count())
}

// Reset clears the counter. Intended for tests.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count = 0
	t.day = ""
}
