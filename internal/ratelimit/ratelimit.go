// Package ratelimit provides a sliding-window call limiter for model API usage.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultLimit          = 100
	DefaultWindow         = time.Hour
	DefaultWarningPercent = 80.0
)

// Record is one recorded call attempt.
type Record struct {
	Timestamp time.Time
	Success   bool
	Error     string
}

// Status contains the limiter state for the current window.
type Status struct {
	Limit          int
	Window         time.Duration
	CallsMade      int
	CallsRemaining int
	ResetTime      time.Time
	TimeUntilReset time.Duration
	Exceeded       bool
}

// Statistics combines all-time counters with the current window.
type Statistics struct {
	TotalCalls          int
	SuccessfulCalls     int
	FailedCalls         int
	CallsInWindow       int
	SuccessRateInWindow float64
	UsagePercentage     float64
}

// Config holds rate limiting configuration.
type Config struct {
	Limit          int
	Window         time.Duration
	WarningPercent float64
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Limiter counts calls inside a trailing time window. Permission checks and
// recording are separate so callers can ask before spending a model call.
type Limiter struct {
	limit   int
	window  time.Duration
	warnPct float64
	now     func() time.Time

	mu        sync.Mutex
	history   []Record
	total     int
	successes int
	failures  int
}

// NewLimiter creates a limiter. A nil config uses the defaults.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{}
	}
	l := &Limiter{
		limit:   cfg.Limit,
		window:  cfg.Window,
		warnPct: cfg.WarningPercent,
		now:     cfg.Now,
	}
	if l.limit <= 0 {
		l.limit = DefaultLimit
	}
	if l.window <= 0 {
		l.window = DefaultWindow
	}
	if l.warnPct <= 0 || l.warnPct >= 100 {
		l.warnPct = DefaultWarningPercent
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// CanMakeCall reports whether another call fits in the current window.
func (l *Limiter) CanMakeCall() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.history) < l.limit
}

// RecordCall appends an attempt to the history. All-time counters always
// advance, even when the window is already full.
func (l *Limiter) RecordCall(success bool, errMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if success {
		errMsg = ""
	}
	l.history = append(l.history, Record{Timestamp: now, Success: success, Error: errMsg})
	l.total++
	if success {
		l.successes++
	} else {
		l.failures++
	}
}

// Status returns the state of the current window.
func (l *Limiter) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status(l.now())
}

func (l *Limiter) status(now time.Time) Status {
	l.prune(now)
	made := len(l.history)
	reset := now
	if made > 0 {
		oldest := l.history[0].Timestamp
		for _, rec := range l.history[1:] {
			if rec.Timestamp.Before(oldest) {
				oldest = rec.Timestamp
			}
		}
		reset = oldest.Add(l.window)
	}
	until := reset.Sub(now)
	if until < 0 {
		until = 0
	}
	return Status{
		Limit:          l.limit,
		Window:         l.window,
		CallsMade:      made,
		CallsRemaining: max(0, l.limit-made),
		ResetTime:      reset,
		TimeUntilReset: until,
		Exceeded:       made >= l.limit,
	}
}

// TimeUntilReset returns how long until the oldest in-window call expires.
func (l *Limiter) TimeUntilReset() time.Duration {
	return l.Status().TimeUntilReset
}

// UsagePercentage returns calls in window as a percentage of the limit.
func (l *Limiter) UsagePercentage() float64 {
	s := l.Status()
	return float64(s.CallsMade) / float64(s.Limit) * 100
}

// IsApproachingLimit reports whether usage is at or above the warning threshold.
func (l *Limiter) IsApproachingLimit() bool {
	return l.UsagePercentage() >= l.warnPct
}

// RecentFailures returns up to n failed calls in the window, most recent first.
func (l *Limiter) RecentFailures(n int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())

	var out []Record
	for i := len(l.history) - 1; i >= 0 && len(out) < n; i-- {
		if !l.history[i].Success {
			out = append(out, l.history[i])
		}
	}
	return out
}

// Statistics returns all-time counters plus window usage. The success rate
// of an empty window is 100.
func (l *Limiter) Statistics() Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())

	inWindow := len(l.history)
	ok := 0
	for _, r := range l.history {
		if r.Success {
			ok++
		}
	}
	rate := 100.0
	if inWindow > 0 {
		rate = float64(ok) / float64(inWindow) * 100
	}
	return Statistics{
		TotalCalls:          l.total,
		SuccessfulCalls:     l.successes,
		FailedCalls:         l.failures,
		CallsInWindow:       inWindow,
		SuccessRateInWindow: rate,
		UsagePercentage:     float64(inWindow) / float64(l.limit) * 100,
	}
}

// Reset clears the history and the all-time counters.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = nil
	l.total, l.successes, l.failures = 0, 0, 0
}

// prune drops records at or before now-window. Records are checked one by
// one since a wall clock that steps backwards leaves history out of order.
// Must be called with mu held.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := l.history[:0]
	for _, rec := range l.history {
		if rec.Timestamp.After(cutoff) {
			kept = append(kept, rec)
		}
	}
	clear(l.history[len(kept):])
	l.history = kept
}
