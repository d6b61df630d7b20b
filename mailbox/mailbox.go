// Package mailbox provides the thread-safe FIFO queues that connect signal
// producers to active-object domains. A queue entry pairs a target object
// with a signal; a sentinel entry with a nil target tells the domain worker
// to exit.
package mailbox

import (
	"math"
	"slices"
	"sync"

	"github.com/objectware/go-hsm/signal"
)

// Target is an object able to dispatch a signal on a domain worker.
type Target interface {
	Dispatch(event signal.Any)
}

// Entry is one mailbox element. Priority is only meaningful to the Priority
// mailbox; lower values dequeue earlier.
type Entry struct {
	Target   Target
	Signal   signal.Any
	Priority int
}

// Sentinel returns the terminal entry. Its nil target makes the consuming
// worker exit; its priority makes a Priority mailbox drain pending entries
// first.
func Sentinel() Entry {
	return Entry{Priority: math.MaxInt}
}

// Queue is the contract between active objects, domains and mailboxes.
// EnqueueFront exists for recalled deferred events, which must jump ahead of
// entries enqueued after the recall.
type Queue interface {
	EnqueueBack(e Entry)
	EnqueueFront(e Entry)
	// Dequeue blocks until an entry is available.
	Dequeue() Entry
}

// counter is a counting semaphore: every post lets one wait return.
type counter struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func newCounter(initial int) *counter {
	c := &counter{n: initial}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *counter) post() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	c.cond.Signal()
}

func (c *counter) wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.n == 0 {
		c.cond.Wait()
	}
	c.n--
}

func (c *counter) tryWait() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == 0 {
		return false
	}
	c.n--
	return true
}

// Mailbox is the unbounded FIFO queue. Producers take a short-held mutex and
// never block; the consumer blocks in Dequeue on an availability semaphore.
type Mailbox struct {
	mu      sync.Mutex
	entries []Entry
	avail   *counter
}

// New creates an empty mailbox.
func New() *Mailbox {
	return &Mailbox{avail: newCounter(0)}
}

// EnqueueBack appends an entry.
func (m *Mailbox) EnqueueBack(e Entry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	m.avail.post()
}

// EnqueueFront prepends an entry, ahead of everything already queued.
func (m *Mailbox) EnqueueFront(e Entry) {
	m.mu.Lock()
	m.entries = slices.Insert(m.entries, 0, e)
	m.mu.Unlock()
	m.avail.post()
}

// Dequeue pops the head entry, blocking until one is available.
func (m *Mailbox) Dequeue() Entry {
	m.avail.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[0]
	m.entries[0] = Entry{}
	m.entries = m.entries[1:]
	return e
}

// Len returns the number of queued entries.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
