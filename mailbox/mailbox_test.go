package mailbox_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectware/go-hsm/mailbox"
	"github.com/objectware/go-hsm/signal"
)

type probe struct{ name string }

func (p *probe) Dispatch(signal.Any) {}

type beep struct{ signal.Base }

var evtBeep = signal.Define[*beep](1, "Beep")

func entryFor(target mailbox.Target) mailbox.Entry {
	return mailbox.Entry{Target: target, Signal: evtBeep.New()}
}

func drainTargets(q mailbox.Queue, n int) []mailbox.Target {
	var targets []mailbox.Target
	for range n {
		targets = append(targets, q.Dequeue().Target)
	}
	return targets
}

func TestMailboxFIFO(t *testing.T) {
	m := mailbox.New()
	a, b, c := &probe{"a"}, &probe{"b"}, &probe{"c"}
	m.EnqueueBack(entryFor(a))
	m.EnqueueBack(entryFor(b))
	m.EnqueueBack(entryFor(c))

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []mailbox.Target{a, b, c}, drainTargets(m, 3))
}

func TestMailboxFrontJumpsAhead(t *testing.T) {
	m := mailbox.New()
	a, b, r := &probe{"a"}, &probe{"b"}, &probe{"recalled"}
	m.EnqueueBack(entryFor(a))
	m.EnqueueBack(entryFor(b))
	m.EnqueueFront(entryFor(r))

	assert.Equal(t, []mailbox.Target{r, a, b}, drainTargets(m, 3))
}

func TestMailboxDequeueBlocksUntilEnqueue(t *testing.T) {
	m := mailbox.New()
	got := make(chan mailbox.Entry, 1)
	go func() {
		got <- m.Dequeue()
	}()

	select {
	case <-got:
		t.Fatal("Dequeue returned on an empty mailbox")
	case <-time.After(20 * time.Millisecond):
	}

	target := &probe{"late"}
	m.EnqueueBack(entryFor(target))
	select {
	case e := <-got:
		assert.Same(t, target, e.Target)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not wake up")
	}
}

func TestSentinelHasNilTarget(t *testing.T) {
	e := mailbox.Sentinel()
	assert.Nil(t, e.Target)
	assert.Nil(t, e.Signal)
}

func TestPriorityOrdersAscending(t *testing.T) {
	p := mailbox.NewPriority()
	low, mid, high := &probe{"low"}, &probe{"mid"}, &probe{"high"}
	p.Enqueue(mailbox.Entry{Target: low, Priority: 9})
	p.Enqueue(mailbox.Entry{Target: high, Priority: 0})
	p.Enqueue(mailbox.Entry{Target: mid, Priority: 4})

	assert.Equal(t, []mailbox.Target{high, mid, low}, drainTargets(p, 3))
}

func TestPriorityIsStableWithinOnePriority(t *testing.T) {
	p := mailbox.NewPriority()
	a, b, c := &probe{"a"}, &probe{"b"}, &probe{"c"}
	for _, target := range []*probe{a, b, c} {
		p.Enqueue(mailbox.Entry{Target: target, Priority: 5})
	}

	assert.Equal(t, []mailbox.Target{a, b, c}, drainTargets(p, 3))
}

func TestPriorityFrontBehavesLikeDequeFront(t *testing.T) {
	p := mailbox.NewPriority()
	d1, d2, d3 := &probe{"d1"}, &probe{"d2"}, &probe{"d3"}

	// Recall pushes deferred events to the front in reverse arrival order;
	// the dequeue order must restore d1, d2, d3.
	p.EnqueueFront(mailbox.Entry{Target: d3})
	p.EnqueueFront(mailbox.Entry{Target: d2})
	p.EnqueueFront(mailbox.Entry{Target: d1})

	assert.Equal(t, []mailbox.Target{d1, d2, d3}, drainTargets(p, 3))
}

func TestPriorityFrontAndSentinel(t *testing.T) {
	p := mailbox.NewPriority()
	normal, recalled := &probe{"normal"}, &probe{"recalled"}
	p.EnqueueBack(mailbox.Entry{Target: normal})
	p.EnqueueBack(mailbox.Sentinel())
	p.EnqueueFront(mailbox.Entry{Target: recalled})

	assert.Same(t, recalled, p.Dequeue().Target)
	assert.Same(t, normal, p.Dequeue().Target)
	assert.Nil(t, p.Dequeue().Target, "the sentinel drains last")
}

func TestBoundedTryFailsWhenFull(t *testing.T) {
	b := mailbox.NewBounded(2, "bounded")
	a1, a2 := &probe{"a1"}, &probe{"a2"}
	require.NoError(t, b.TryEnqueueBack(entryFor(a1)))
	require.NoError(t, b.TryEnqueueBack(entryFor(a2)))
	assert.Equal(t, 2, b.Len())

	err := b.TryEnqueueBack(entryFor(&probe{"a3"}))
	assert.ErrorIs(t, err, mailbox.ErrFull)

	assert.Same(t, a1, b.Dequeue().Target)
	require.NoError(t, b.TryEnqueueBack(entryFor(&probe{"a4"})))
}

func TestBoundedKeepsFIFOThroughReuse(t *testing.T) {
	b := mailbox.NewBounded(2, "reuse")
	var order []string
	push := func(name string) { require.NoError(t, b.TryEnqueueBack(entryFor(&probe{name}))) }
	pop := func() { order = append(order, b.Dequeue().Target.(*probe).name) }

	push("1")
	push("2")
	pop()
	push("3")
	pop()
	pop()
	assert.Equal(t, []string{"1", "2", "3"}, order)
}

func TestBoundedFrontPush(t *testing.T) {
	b := mailbox.NewBounded(3, "front")
	a, r := &probe{"a"}, &probe{"recalled"}
	require.NoError(t, b.TryEnqueueBack(entryFor(a)))
	require.NoError(t, b.TryEnqueueFront(entryFor(r)))

	assert.Equal(t, []mailbox.Target{r, a}, drainTargets(b, 2))
}

func TestBoundedBlockingEnqueueWaitsForSpace(t *testing.T) {
	b := mailbox.NewBounded(1, "block")
	first := &probe{"first"}
	b.EnqueueBack(entryFor(first))

	done := make(chan struct{})
	go func() {
		b.EnqueueBack(entryFor(&probe{"second"}))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("enqueue did not block on a full mailbox")
	case <-time.After(20 * time.Millisecond):
	}

	assert.Same(t, first, b.Dequeue().Target)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue did not resume after space freed up")
	}
}
