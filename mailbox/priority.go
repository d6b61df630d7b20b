package mailbox

import (
	"container/heap"
	"math"
	"sync"
)

// Priority is the mailbox variant that dequeues by ascending priority value.
// Entries of equal priority keep their enqueue order, so it degenerates to
// FIFO when every producer uses one priority.
type Priority struct {
	mu       sync.Mutex
	ranks    rankedEntries
	seq      int64
	frontSeq int64
	avail    *counter
}

// NewPriority creates an empty priority mailbox.
func NewPriority() *Priority {
	return &Priority{avail: newCounter(0)}
}

// Enqueue inserts an entry ordered by e.Priority, lower values first.
func (p *Priority) Enqueue(e Entry) {
	p.mu.Lock()
	p.seq++
	heap.Push(&p.ranks, rankedEntry{entry: e, seq: p.seq})
	p.mu.Unlock()
	p.avail.post()
}

// EnqueueBack inserts the entry at its own priority.
func (p *Priority) EnqueueBack(e Entry) {
	p.Enqueue(e)
}

// EnqueueFront inserts the entry ahead of every regular priority and ahead
// of earlier front insertions, matching the front-push of a plain deque.
// Recalled deferred events rely on this: front-pushing them in reverse
// restores their arrival order.
func (p *Priority) EnqueueFront(e Entry) {
	e.Priority = math.MinInt
	p.mu.Lock()
	p.frontSeq--
	heap.Push(&p.ranks, rankedEntry{entry: e, seq: p.frontSeq})
	p.mu.Unlock()
	p.avail.post()
}

// Dequeue pops the lowest-priority entry, blocking until one is available.
func (p *Priority) Dequeue() Entry {
	p.avail.wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return heap.Pop(&p.ranks).(rankedEntry).entry
}

// Len returns the number of queued entries.
func (p *Priority) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ranks)
}

type rankedEntry struct {
	entry Entry
	seq   int64
}

type rankedEntries []rankedEntry

func (r rankedEntries) Len() int { return len(r) }

func (r rankedEntries) Less(i, j int) bool {
	if r[i].entry.Priority != r[j].entry.Priority {
		return r[i].entry.Priority < r[j].entry.Priority
	}
	return r[i].seq < r[j].seq
}

func (r rankedEntries) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

func (r *rankedEntries) Push(x any) { *r = append(*r, x.(rankedEntry)) }

func (r *rankedEntries) Pop() any {
	old := *r
	n := len(old)
	e := old[n-1]
	old[n-1] = rankedEntry{}
	*r = old[:n-1]
	return e
}
