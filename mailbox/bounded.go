package mailbox

import (
	"errors"
	"sync"

	"github.com/objectware/go-hsm/pool"
)

// ErrFull is returned by the non-blocking enqueue operations of a Bounded
// mailbox at capacity.
var ErrFull = errors.New("mailbox: full")

type node struct {
	entry Entry
	next  *node
}

// Bounded is the fixed-capacity mailbox for embedded use: list nodes come
// from a static pool, so nothing is allocated after construction. The
// Queue-interface enqueues block while the mailbox is saturated; the Try
// variants fail with ErrFull instead.
type Bounded struct {
	mu    sync.Mutex
	nodes *pool.Static[node]
	head  *node
	tail  *node
	avail *counter
	space *counter
}

// NewBounded creates a mailbox holding at most capacity entries.
func NewBounded(capacity int, name string) *Bounded {
	return &Bounded{
		nodes: pool.NewStatic[node](capacity, name),
		avail: newCounter(0),
		space: newCounter(capacity),
	}
}

// EnqueueBack appends an entry, blocking while the mailbox is full.
func (b *Bounded) EnqueueBack(e Entry) {
	b.space.wait()
	b.pushBack(e)
}

// EnqueueFront prepends an entry, blocking while the mailbox is full.
func (b *Bounded) EnqueueFront(e Entry) {
	b.space.wait()
	b.pushFront(e)
}

// TryEnqueueBack appends an entry or fails with ErrFull.
func (b *Bounded) TryEnqueueBack(e Entry) error {
	if !b.space.tryWait() {
		return ErrFull
	}
	b.pushBack(e)
	return nil
}

// TryEnqueueFront prepends an entry or fails with ErrFull.
func (b *Bounded) TryEnqueueFront(e Entry) error {
	if !b.space.tryWait() {
		return ErrFull
	}
	b.pushFront(e)
	return nil
}

// Dequeue pops the head entry, blocking until one is available.
func (b *Bounded) Dequeue() Entry {
	b.avail.wait()
	b.mu.Lock()
	n := b.head
	b.head = n.next
	if b.head == nil {
		b.tail = nil
	}
	e := n.entry
	n.entry = Entry{}
	n.next = nil
	b.nodes.Put(n)
	b.mu.Unlock()
	b.space.post()
	return e
}

// Len returns the number of queued entries.
func (b *Bounded) Len() int {
	return b.nodes.Capacity() - b.nodes.FillLevel()
}

// Capacity returns the fixed entry capacity.
func (b *Bounded) Capacity() int {
	return b.nodes.Capacity()
}

func (b *Bounded) pushBack(e Entry) {
	b.mu.Lock()
	n := b.take(e)
	if b.tail == nil {
		b.head = n
	} else {
		b.tail.next = n
	}
	b.tail = n
	b.mu.Unlock()
	b.avail.post()
}

func (b *Bounded) pushFront(e Entry) {
	b.mu.Lock()
	n := b.take(e)
	n.next = b.head
	b.head = n
	if b.tail == nil {
		b.tail = n
	}
	b.mu.Unlock()
	b.avail.post()
}

// take is called with space already reserved, so the pool cannot be empty.
func (b *Bounded) take(e Entry) *node {
	n, err := b.nodes.Get()
	if err != nil {
		panic(err)
	}
	n.entry = e
	n.next = nil
	return n
}
