// Package signal implements the event model of the framework: immutable,
// reference-counted values carrying a stable numeric identity, allocated
// through an allocator class so that embedded deployments can route them
// into fixed-capacity pools.
package signal

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID is the numeric identity of a signal type. It is fixed when the type is
// defined and must be unique within one machine's event universe.
type ID uint32

var (
	// ErrWrongKind is returned by checked downcasts when the signal carries a
	// different definition than the requested one.
	ErrWrongKind = errors.New("signal: wrong signal kind")
	// ErrClassBound is raised when an allocator class is bound twice.
	ErrClassBound = errors.New("signal: allocator class already bound")
	// ErrOverReleased is raised when Release is called more often than the
	// signal was retained.
	ErrOverReleased = errors.New("signal: released more often than retained")
)

// Any is the interface every signal satisfies by embedding Base. Signals are
// shared by pointer only; they are never copied or moved.
type Any interface {
	ID() ID
	Name() string
	Token() uuid.UUID
	base() *Base
}

type meta interface {
	ID() ID
	Name() string
	recycle(s Any)
}

// Base carries the identity and reference count of a signal instance. Embed
// it as the first field of a concrete signal struct; the factory of the
// owning Def stamps it on every Make.
type Base struct {
	def   meta
	token uuid.UUID
	refs  atomic.Int32
}

// ID returns the numeric identity of the signal's definition.
func (b *Base) ID() ID {
	if b == nil || b.def == nil {
		return 0
	}
	return b.def.ID()
}

// Name returns the definition name, useful for logging.
func (b *Base) Name() string {
	if b == nil || b.def == nil {
		return ""
	}
	return b.def.Name()
}

// Token returns the per-instance identity assigned by Make. Two signals of
// the same kind never share a token.
func (b *Base) Token() uuid.UUID {
	if b == nil {
		return uuid.Nil
	}
	return b.token
}

// Refs returns the current reference count.
func (b *Base) Refs() int {
	return int(b.refs.Load())
}

func (b *Base) base() *Base { return b }

// Retain increments the reference count and returns the signal, so a caller
// keeping a signal beyond the current dispatch can write
// `kept = signal.Retain(event)`.
func Retain[T Any](s T) T {
	s.base().refs.Add(1)
	return s
}

// Release drops one reference. The last release returns the storage to the
// allocator class the signal was made from.
func Release(s Any) {
	b := s.base()
	switch n := b.refs.Add(-1); {
	case n == 0:
		b.def.recycle(s)
	case n < 0:
		panic(ErrOverReleased)
	}
}
