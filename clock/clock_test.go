package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/objectware/go-hsm/clock"
)

func TestWallClock(t *testing.T) {
	c := clock.Wall()
	before := time.Now()
	now := c.Now()
	assert.False(t, now.Before(before))

	select {
	case <-c.After(time.Millisecond):
	case <-time.After(time.Second):
		t.Fatal("wall timer never fired")
	}
}

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	f := clock.NewFake(time.Unix(100, 0))
	short := f.After(time.Minute)
	long := f.After(time.Hour)

	f.Advance(30 * time.Second)
	select {
	case <-short:
		t.Fatal("timer fired early")
	default:
	}

	f.Advance(time.Minute)
	select {
	case at := <-short:
		assert.Equal(t, time.Unix(100, 0).Add(90*time.Second), at)
	default:
		t.Fatal("due timer did not fire")
	}
	select {
	case <-long:
		t.Fatal("one-hour timer fired after 90 seconds")
	default:
	}
}

func TestFakeNonPositiveDelayFiresImmediately(t *testing.T) {
	f := clock.NewFake(time.Unix(0, 0))
	select {
	case <-f.After(0):
	default:
		t.Fatal("zero-delay timer must be ready immediately")
	}
}

func TestFakeNowTracksAdvance(t *testing.T) {
	start := time.Unix(50, 0)
	f := clock.NewFake(start)
	f.Advance(3 * time.Second)
	assert.Equal(t, start.Add(3*time.Second), f.Now())
}
