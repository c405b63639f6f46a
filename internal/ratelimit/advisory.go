package ratelimit

import (
	"fmt"
	"math"
	"time"
)

// Level classifies window usage.
type Level string

const (
	LevelOK          Level = "ok"
	LevelApproaching Level = "approaching"
	LevelExceeded    Level = "exceeded"
)

// Advisory is a user-facing summary of the current window.
type Advisory struct {
	Level   Level
	Message string
	Status  Status
}

// Advisory classifies usage as OK below the warning threshold, approaching
// from the threshold up to the limit, and exceeded at the limit.
func (l *Limiter) Advisory() Advisory {
	l.mu.Lock()
	s := l.status(l.now())
	warn := l.warnPct
	l.mu.Unlock()

	pct := float64(s.CallsMade) / float64(s.Limit) * 100
	switch {
	case s.Exceeded:
		return Advisory{
			Level: LevelExceeded,
			Message: fmt.Sprintf("Rate limit exceeded (%d/%d calls). Next call available in %s",
				s.CallsMade, s.Limit, humanDuration(s.TimeUntilReset)),
			Status: s,
		}
	case pct >= warn:
		return Advisory{
			Level: LevelApproaching,
			Message: fmt.Sprintf("Approaching rate limit: %d/%d calls used. %d calls remaining.",
				s.CallsMade, s.Limit, s.CallsRemaining),
			Status: s,
		}
	default:
		return Advisory{
			Level:   LevelOK,
			Message: fmt.Sprintf("Rate limit OK: %d/%d calls used", s.CallsMade, s.Limit),
			Status:  s,
		}
	}
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(math.Ceil(d.Seconds()))
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	mins := int(math.Ceil(d.Minutes()))
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
