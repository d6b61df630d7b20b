// Package active implements the active-object runtime: objects bound to a
// mailbox, a domain worker that serializes their dispatch, and the actor
// adapter that drives a hierarchical state machine from dequeued signals.
package active

import (
	"errors"
	"sync"
	"time"

	"github.com/objectware/go-hsm/clock"
	"github.com/objectware/go-hsm/mailbox"
	"github.com/objectware/go-hsm/signal"
)

var (
	// ErrAlreadyBound is raised when an object is registered with a second
	// domain; the mailbox binding is one-shot.
	ErrAlreadyBound = errors.New("active: object already bound to a mailbox")
	// ErrNotBound is raised by Take on an object that was never registered.
	ErrNotBound = errors.New("active: object not registered with a domain")
)

// Object is the embeddable active-object base. Embed it in a type
// implementing mailbox.Target and register the object with a Domain; Take
// may then be called from any goroutine, while Dispatch always runs on the
// domain worker.
type Object struct {
	self  mailbox.Target
	queue mailbox.Queue
	clk   clock.Clock
}

func (o *Object) attach(self mailbox.Target, queue mailbox.Queue, clk clock.Clock) {
	if o.queue != nil {
		panic(ErrAlreadyBound)
	}
	o.self = self
	o.queue = queue
	o.clk = clk
}

// Take enqueues the signal for this object at the back of its mailbox. The
// caller's reference transfers to the mailbox; retain first to keep the
// signal beyond dispatch.
func (o *Object) Take(event signal.Any) {
	if o.queue == nil {
		panic(ErrNotBound)
	}
	o.queue.EnqueueBack(mailbox.Entry{Target: o.self, Signal: event})
}

// TakeHighPriority enqueues the signal at the front of the mailbox, ahead of
// anything already queued. Recalled deferred events use this to preserve
// their original arrival order.
func (o *Object) TakeHighPriority(event signal.Any) {
	if o.queue == nil {
		panic(ErrNotBound)
	}
	o.queue.EnqueueFront(mailbox.Entry{Target: o.self, Signal: event})
}

// TakeAfter delivers the signal to this object's mailbox once d has elapsed
// on the domain clock. The returned cancel function stops the delivery and
// releases the signal; calling it after delivery is a no-op.
func (o *Object) TakeAfter(event signal.Any, d time.Duration) (cancel func()) {
	if o.queue == nil {
		panic(ErrNotBound)
	}
	done := make(chan struct{})
	var once sync.Once
	timer := o.clk.After(d)
	go func() {
		select {
		case <-timer:
			o.Take(event)
		case <-done:
			signal.Release(event)
		}
	}()
	return func() {
		once.Do(func() { close(done) })
	}
}
