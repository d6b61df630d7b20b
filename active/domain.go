package active

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/objectware/go-hsm/clock"
	"github.com/objectware/go-hsm/mailbox"
	"github.com/objectware/go-hsm/signal"
)

// ActiveObject is what a Domain registers: a dispatch target carrying the
// embeddable Object base.
type ActiveObject interface {
	mailbox.Target
	attach(self mailbox.Target, queue mailbox.Queue, clk clock.Clock)
}

// Domain owns a mailbox and the single worker goroutine that drains it.
// Every object registered with a domain has all of its dispatch, handler,
// entry and exit code serialized on that worker; objects in different
// domains run concurrently.
type Domain struct {
	id    uuid.UUID
	queue mailbox.Queue
	clk   clock.Clock
	log   *slog.Logger
	done  chan struct{}
	once  sync.Once
}

// Option configures a Domain.
type Option func(*Domain)

// WithClock substitutes the clock used for delayed deliveries.
func WithClock(c clock.Clock) Option {
	return func(d *Domain) { d.clk = c }
}

// WithLogger enables worker lifecycle logging.
func WithLogger(l *slog.Logger) Option {
	return func(d *Domain) { d.log = l }
}

// New creates a domain draining the given mailbox and spawns its worker.
func New(queue mailbox.Queue, options ...Option) *Domain {
	d := &Domain{
		id:    uuid.New(),
		queue: queue,
		clk:   clock.Wall(),
		done:  make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}
	go d.run()
	return d
}

// ID returns the domain's unique id, useful for logging.
func (d *Domain) ID() uuid.UUID { return d.id }

// Register binds the object to this domain's mailbox. An object belongs to
// exactly one domain over its lifetime.
func (d *Domain) Register(obj ActiveObject) {
	obj.attach(obj, d.queue, d.clk)
}

// Stop asks the worker to exit by enqueueing the terminal sentinel.
// Idempotent. Entries the mailbox orders behind the sentinel are never
// dispatched; a Priority mailbox still orders later entries of lower
// priority value ahead of it.
func (d *Domain) Stop() {
	d.once.Do(func() {
		d.queue.EnqueueBack(mailbox.Sentinel())
	})
}

// Wait blocks until the worker has exited.
func (d *Domain) Wait() {
	<-d.done
}

func (d *Domain) run() {
	defer close(d.done)
	if d.log != nil {
		d.log.Debug("domain worker started", "domain", d.id)
	}
	for {
		e := d.queue.Dequeue()
		if e.Target == nil {
			if d.log != nil {
				d.log.Debug("domain worker stopped", "domain", d.id)
			}
			return
		}
		e.Target.Dispatch(e.Signal)
		if e.Signal != nil {
			signal.Release(e.Signal)
		}
	}
}
