package generator

import (
	"math/rand"
	"time"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/llm"
)

// RetryPolicy bounds retries of the model call. Only transient errors are
// retried; template, prompt and parse failures never are.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// Jitter is the +/- fraction applied to each computed delay.
	Jitter float64
}

// DefaultRetryPolicy allows three attempts with exponential backoff from one
// second up to ten, jittered by 30%.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Jitter:       0.3,
	}
}

// Delay computes the wait before retry number retry (1-based). A Retry-After
// hint carried by err takes precedence over the backoff but is still capped
// by MaxDelay.
func (p RetryPolicy) Delay(retry int, err error) time.Duration {
	if ra := llm.RetryAfter(err); ra > 0 {
		if p.MaxDelay > 0 && ra > p.MaxDelay {
			return p.MaxDelay
		}
		return ra
	}

	delay := p.InitialDelay
	for i := 1; i < retry; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		jitter := float64(delay) * p.Jitter
		delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
	}
	return delay
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
