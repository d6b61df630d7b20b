package active

import (
	hsm "github.com/objectware/go-hsm"
	"github.com/objectware/go-hsm/signal"
)

// Actor couples an active object with a hierarchical state machine:
// dequeued signals are dispatched into the machine, and the machine's
// defer/recall protocol is implemented through the mailbox. Embed it in the
// owner type and call Init before registering with a domain.
type Actor[O any] struct {
	Object
	machine  hsm.Machine[O]
	deferred []signal.Any
}

// Init initializes the embedded machine and wires the defer/recall hooks.
// It returns the machine so the caller can install further hooks and start
// it. The deferred list is only touched from machine hooks, which run on the
// domain worker, so it needs no lock.
func (a *Actor[O]) Init(owner O, name string) *hsm.Machine[O] {
	a.machine.Init(owner, name)
	a.machine.OnDeferEvent = func(_ *hsm.Machine[O], _ *hsm.State[O], event signal.Any) {
		a.deferred = append(a.deferred, signal.Retain(event))
	}
	a.machine.OnRecallDeferred = func(*hsm.Machine[O], *hsm.State[O]) {
		// Front-pushing in reverse keeps the original arrival order and
		// places recalled signals ahead of anything enqueued later.
		for i := len(a.deferred) - 1; i >= 0; i-- {
			a.TakeHighPriority(a.deferred[i])
		}
		a.deferred = a.deferred[:0]
	}
	return &a.machine
}

// Machine returns the actor's state machine.
func (a *Actor[O]) Machine() *hsm.Machine[O] { return &a.machine }

// DeferredLen returns the number of events currently held for recall.
func (a *Actor[O]) DeferredLen() int { return len(a.deferred) }

// Dispatch runs on the domain worker and feeds the signal to the machine.
func (a *Actor[O]) Dispatch(event signal.Any) {
	a.machine.React(event)
}
