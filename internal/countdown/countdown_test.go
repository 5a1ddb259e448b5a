package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUntil_FieldRanges(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	targets := []time.Duration{
		time.Second,
		59 * time.Second,
		time.Minute,
		90 * time.Minute,
		25 * time.Hour,
		40*24*time.Hour + 3*time.Hour + 17*time.Minute + 42*time.Second,
		365 * 24 * time.Hour,
	}

	for _, d := range targets {
		b := Until(now.Add(d), now)

		assert.GreaterOrEqual(t, b.Days, 0)
		assert.True(t, b.Hours >= 0 && b.Hours < 24, "hours out of range: %d", b.Hours)
		assert.True(t, b.Minutes >= 0 && b.Minutes < 60, "minutes out of range: %d", b.Minutes)
		assert.True(t, b.Seconds >= 0 && b.Seconds < 60, "seconds out of range: %d", b.Seconds)
		assert.False(t, b.Expired)
	}
}

func TestUntil_ReconstructsDeltaWithinOneTick(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 30, 0, 123456789, time.UTC)

	for _, d := range []time.Duration{
		1500 * time.Millisecond,
		time.Hour + 30*time.Second,
		72*time.Hour + 59*time.Minute + 59*time.Second,
	} {
		b := Until(now.Add(d), now)

		diff := d - b.Remaining()
		assert.GreaterOrEqual(t, diff, time.Duration(0))
		assert.Less(t, diff, time.Second, "breakdown drifted more than one tick for delta %s", d)
	}
}

func TestUntil_ClampsToZeroAtAndAfterTarget(t *testing.T) {
	target := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for _, now := range []time.Time{
		target,
		target.Add(time.Millisecond),
		target.Add(48 * time.Hour),
	} {
		b := Until(target, now)

		assert.True(t, b.Expired)
		assert.Zero(t, b.Days)
		assert.Zero(t, b.Hours)
		assert.Zero(t, b.Minutes)
		assert.Zero(t, b.Seconds)
	}
}

func TestNewTicker_PublishesImmediatelyAndStops(t *testing.T) {
	ticker := NewTicker(context.Background(), time.Now().Add(time.Hour))
	defer ticker.Stop()

	select {
	case b, ok := <-ticker.C:
		assert.True(t, ok)
		assert.False(t, b.Expired)
	case <-time.After(time.Second):
		t.Fatal("expected an immediate breakdown")
	}

	ticker.Stop()

	select {
	case _, ok := <-ticker.C:
		assert.False(t, ok, "channel should be closed after Stop")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Stop")
	}
}

func TestNewTicker_ClosesAfterExpiredBreakdown(t *testing.T) {
	ticker := NewTicker(context.Background(), time.Now().Add(-time.Second))
	defer ticker.Stop()

	select {
	case b, ok := <-ticker.C:
		assert.True(t, ok)
		assert.True(t, b.Expired)
	case <-time.After(time.Second):
		t.Fatal("expected the expired breakdown")
	}

	select {
	case _, ok := <-ticker.C:
		assert.False(t, ok, "channel should close once expired")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after expiry")
	}
}

func TestNewTicker_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := NewTicker(ctx, time.Now().Add(time.Hour))

	<-ticker.C
	cancel()

	select {
	case _, ok := <-ticker.C:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancellation")
	}
}
