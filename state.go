// Package hsm implements UML-style hierarchical state machines: states with
// entry/exit actions, LCA-scoped transitions with actions, shallow history
// and event deferral. The machine is parametric over the owner type; state
// graphs are immutable descriptors built once per machine type and shared by
// every instance.
package hsm

import (
	"fmt"

	"github.com/objectware/go-hsm/signal"
)

// Flags is a bitset of state properties.
type Flags uint32

const (
	// FlagHistory marks a composite state with shallow history: re-entry
	// restores the last active direct substate instead of the declared
	// initial one.
	FlagHistory Flags = 1 << iota
)

// Action is an entry action, exit action or transition action. It receives
// the owner and the event that triggered the step (nil during Start).
type Action[O any] func(owner O, event signal.Any)

// Handler is a state's event-dispatch function. A nil handler behaves as if
// it returned Unhandled for every event.
type Handler[O any] func(owner O, event signal.Any) Transition[O]

// State is an immutable descriptor in the state hierarchy. Parent links form
// a forest; they express hierarchy, never ownership.
type State[O any] struct {
	name    string
	parent  *State[O]
	initial *State[O]
	entry   []Action[O]
	exit    []Action[O]
	handler Handler[O]
	flags   Flags
}

// Option configures a state descriptor under construction.
type Option[O any] func(*State[O])

// NewState builds a state descriptor.
func NewState[O any](name string, handler Handler[O], options ...Option[O]) *State[O] {
	s := &State[O]{name: name, handler: handler}
	for _, option := range options {
		option(s)
	}
	return s
}

// WithParent nests the state under parent.
func WithParent[O any](parent *State[O]) Option[O] {
	return func(s *State[O]) { s.parent = parent }
}

// WithEntry appends entry actions, run in declaration order on every entry.
func WithEntry[O any](actions ...Action[O]) Option[O] {
	return func(s *State[O]) { s.entry = append(s.entry, actions...) }
}

// WithExit appends exit actions, run in declaration order on every exit.
func WithExit[O any](actions ...Action[O]) Option[O] {
	return func(s *State[O]) { s.exit = append(s.exit, actions...) }
}

// WithHistory marks the state as a shallow-history composite.
func WithHistory[O any]() Option[O] {
	return func(s *State[O]) { s.flags |= FlagHistory }
}

// SetInitial declares child as the default substate entered when a
// transition targets this composite state directly. The child must already
// be parented here.
func (s *State[O]) SetInitial(child *State[O]) {
	if child.parent != s {
		panic(fmt.Errorf("%w: %s is not a child of %s", ErrBadInitial, child.name, s.name))
	}
	s.initial = child
}

// Name returns the human-readable state name.
func (s *State[O]) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Parent returns the enclosing state, nil for a root.
func (s *State[O]) Parent() *State[O] {
	if s == nil {
		return nil
	}
	return s.parent
}

// Initial returns the declared initial substate, nil for leaves.
func (s *State[O]) Initial() *State[O] {
	if s == nil {
		return nil
	}
	return s.initial
}

// HasHistory reports whether the state restores its last active substate on
// re-entry.
func (s *State[O]) HasHistory() bool {
	return s != nil && s.flags&FlagHistory != 0
}
