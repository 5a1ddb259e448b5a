// Package countdown derives the remaining time until the launch instant.
//
// A Breakdown is always a pure function of the target instant and the clock;
// it carries no state of its own, so two calls with the same inputs always
// agree. The Ticker republishes the breakdown at 1 Hz until the target passes
// or the caller cancels.
package countdown

import (
	"context"
	"time"
)

// Breakdown is the days/hours/minutes/seconds split of the time left until a
// target instant. All fields are zero once the target has passed.
type Breakdown struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}

const (
	millisPerSecond = int64(1000)
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
	millisPerDay    = 24 * millisPerHour
)

// Until computes the breakdown of target - now. A non-positive delta clamps
// every field to zero and marks the breakdown expired.
func Until(target, now time.Time) Breakdown {
	delta := target.Sub(now).Milliseconds()
	if delta <= 0 {
		return Breakdown{Expired: true}
	}

	return Breakdown{
		Days:    int(delta / millisPerDay),
		Hours:   int(delta / millisPerHour % 24),
		Minutes: int(delta / millisPerMinute % 60),
		Seconds: int(delta / millisPerSecond % 60),
	}
}

// Remaining reconstructs the total duration represented by the breakdown,
// truncated to whole seconds.
func (b Breakdown) Remaining() time.Duration {
	total := int64(b.Days)*millisPerDay +
		int64(b.Hours)*millisPerHour +
		int64(b.Minutes)*millisPerMinute +
		int64(b.Seconds)*millisPerSecond
	return time.Duration(total) * time.Millisecond
}

// Ticker publishes a Breakdown once per second on C. The channel is closed
// after the expired breakdown has been delivered or when the context is
// cancelled, so a ticker never outlives its consumer.
type Ticker struct {
	C      <-chan Breakdown
	cancel context.CancelFunc
}

// NewTicker starts a 1 Hz countdown toward target. The first breakdown is
// published immediately; the zero-valued expired breakdown is the final send.
func NewTicker(ctx context.Context, target time.Time) *Ticker {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan Breakdown, 1)

	go run(ctx, target, ch)

	return &Ticker{C: ch, cancel: cancel}
}

// Stop cancels the ticker. It is safe to call more than once.
func (t *Ticker) Stop() {
	t.cancel()
}

func run(ctx context.Context, target time.Time, ch chan<- Breakdown) {
	defer close(ch)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		b := Until(target, time.Now())

		select {
		case ch <- b:
		case <-ctx.Done():
			return
		}

		if b.Expired {
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
