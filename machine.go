package hsm

import (
	"fmt"

	"github.com/objectware/go-hsm/pkg/set"
	"github.com/objectware/go-hsm/signal"
)

// Machine is one owner's runtime state machine. The zero value is unusable;
// call Init, then Start. All methods are single-threaded: a machine must
// only ever be driven from one goroutine at a time (the active-object
// runtime guarantees this by dispatching on a domain worker).
//
// The exported hook fields are optional observers. They receive the machine
// reference so one hook function can serve many instances.
type Machine[O any] struct {
	owner    O
	ready    bool
	name     string
	current  *State[O]
	working  bool
	history  map[*State[O]]*State[O]
	sentinel *State[O]

	// OnStateEntry fires after history bookkeeping, before the state's entry
	// actions run.
	OnStateEntry func(m *Machine[O], s *State[O], event signal.Any)
	// OnStateExit fires before the state's exit actions run.
	OnStateExit func(m *Machine[O], s *State[O], event signal.Any)
	// OnHandleEvent fires before each state handler is consulted.
	OnHandleEvent func(m *Machine[O], s *State[O], event signal.Any)
	// OnUnhandledEvent fires once per React when no state in the parent
	// chain accepted the event. Unhandled events are reported, never fatal.
	OnUnhandledEvent func(m *Machine[O], s *State[O], event signal.Any)
	// OnStateChange fires at the end of a React whose leaf state differs
	// from the one the event arrived in.
	OnStateChange func(m *Machine[O], event signal.Any, from, to *State[O])
	// OnDeferEvent receives events a handler chose to defer. Required when
	// any handler returns Defer.
	OnDeferEvent func(m *Machine[O], s *State[O], event signal.Any)
	// OnRecallDeferred implements the re-injection strategy for deferred
	// events; see the active package for the mailbox-backed one.
	OnRecallDeferred func(m *Machine[O], s *State[O])
}

// Init binds the machine to its owner and gives it a name for logging.
func (m *Machine[O]) Init(owner O, name string) {
	m.owner = owner
	m.name = name
	m.ready = true
	m.history = make(map[*State[O]]*State[O])
	m.sentinel = &State[O]{name: "InTransition"}
}

// Name returns the machine name.
func (m *Machine[O]) Name() string { return m.name }

// Owner returns the implementation object handlers and actions run against.
func (m *Machine[O]) Owner() O { return m.owner }

// Current returns the active leaf state. While an exit/action/entry chain is
// running it returns a sentinel, so actions never observe a half-entered
// hierarchy; Transitioning reports that case.
func (m *Machine[O]) Current() *State[O] { return m.current }

// Transitioning reports whether an exit/action/entry chain is in progress.
func (m *Machine[O]) Transitioning() bool { return m.current == m.sentinel }

// Start clears history and enters the initial state, drilling through
// declared initial substates until a leaf is reached.
func (m *Machine[O]) Start(initial *State[O]) {
	if !m.ready {
		panic(ErrNoOwner)
	}
	m.checkGraph(initial)
	clear(m.history)
	m.current = m.sentinel
	m.enterFromTo(nil, initial, nil)
}

// React dispatches one event synchronously: the current state's handler is
// consulted, then its ancestors, until one accepts the event. An external
// transition exits up to the lowest common ancestor, runs the transition
// actions and enters down to the target, drilling initial (or history)
// substates to a leaf.
func (m *Machine[O]) React(event signal.Any) {
	if m.current == nil {
		panic(ErrNotStarted)
	}
	if m.working {
		panic(ErrReentrant)
	}
	m.working = true

	start := m.current
	s := m.current
	var t Transition[O]
	for {
		if m.OnHandleEvent != nil {
			m.OnHandleEvent(m, s, event)
		}
		if s.handler != nil {
			t = s.handler(m.owner, event)
		} else {
			t = Unhandled[O]()
		}
		if t.kind == kindDefer {
			if m.OnDeferEvent == nil {
				panic(ErrDeferWithoutHook)
			}
			m.OnDeferEvent(m, s, event)
			m.working = false
			return
		}
		if t.kind != kindUnhandled {
			break
		}
		if s.parent == nil {
			if m.OnUnhandledEvent != nil {
				m.OnUnhandledEvent(m, start, event)
			}
			m.working = false
			return
		}
		s = s.parent
	}

	if t.kind == kindInternal {
		for _, action := range t.actions {
			action(m.owner, event)
		}
		m.working = false
		return
	}

	if t.target == nil {
		panic(fmt.Errorf("hsm %s: external transition without a target", m.name))
	}
	lca := FindCommonParent(m.current, t.target)
	from := m.current
	m.current = m.sentinel
	m.exitUpTo(from, lca, event)
	for _, action := range t.actions {
		action(m.owner, event)
	}
	m.enterFromTo(lca, t.target, event)

	if m.OnStateChange != nil && start != m.current {
		m.OnStateChange(m, event, start, m.current)
	}
	m.working = false
}

// Terminate exits every active state from the current leaf up to the root
// and leaves the machine stopped. Start may be called again afterwards.
func (m *Machine[O]) Terminate() {
	if m.working {
		panic(ErrReentrant)
	}
	if m.current == nil || m.current == m.sentinel {
		m.current = nil
		return
	}
	from := m.current
	m.current = m.sentinel
	m.exitUpTo(from, nil, nil)
	m.current = nil
}

// RecallEvents asks the runtime to re-inject deferred events, preserving
// their original arrival order. Typically called from an exit action of the
// state that deferred them.
func (m *Machine[O]) RecallEvents() {
	if m.OnRecallDeferred == nil {
		panic(ErrRecallWithoutHook)
	}
	m.OnRecallDeferred(m, m.current)
}

// FindCommonParent returns the lowest common ancestor of a and b, or nil
// when the two states share no root. Equal states yield their parent, so a
// self-transition exits and re-enters its state; a descendant/ancestor pair
// yields the ancestor.
func FindCommonParent[O any](a, b *State[O]) *State[O] {
	if a == nil || b == nil {
		return nil
	}
	if a == b {
		return a.parent
	}
	for x := a; x != nil; x = x.parent {
		for y := b; y != nil; y = y.parent {
			if x == y {
				return x
			}
		}
	}
	return nil
}

// exitUpTo runs the exit chain from `from` (inclusive) up to `top`
// (exclusive). History is recorded before exit observers and actions run.
func (m *Machine[O]) exitUpTo(from, top *State[O], event signal.Any) {
	for s := from; s != top; s = s.parent {
		if s.parent.HasHistory() {
			m.history[s.parent] = s
		}
		if m.OnStateExit != nil {
			m.OnStateExit(m, s, event)
		}
		for _, action := range s.exit {
			action(m.owner, event)
		}
	}
}

// enterFromTo runs the entry chain from `top` (exclusive) down to `target`
// (inclusive), then drills effective-initial substates to a leaf, which
// becomes the current state.
func (m *Machine[O]) enterFromTo(top, target *State[O], event signal.Any) {
	var chain []*State[O]
	for s := target; s != nil && s != top; s = s.parent {
		chain = append(chain, s)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		m.enterState(chain[i], event)
	}
	leaf := target
	for next := m.effectiveInitial(leaf); next != nil; next = m.effectiveInitial(leaf) {
		leaf = next
		m.enterState(leaf, event)
	}
	m.current = leaf
}

func (m *Machine[O]) enterState(s *State[O], event signal.Any) {
	if m.OnStateEntry != nil {
		m.OnStateEntry(m, s, event)
	}
	for _, action := range s.entry {
		action(m.owner, event)
	}
}

// effectiveInitial is the remembered history substate when s has one, the
// declared initial substate otherwise.
func (m *Machine[O]) effectiveInitial(s *State[O]) *State[O] {
	if s.HasHistory() {
		if h, ok := m.history[s]; ok {
			return h
		}
	}
	return s.initial
}

func (m *Machine[O]) checkGraph(initial *State[O]) {
	seen := set.New[*State[O]]()
	for s := initial; s != nil; s = s.parent {
		if seen.Contains(s) {
			panic(fmt.Errorf("%w: %s (machine %s)", ErrGraphCycle, s.name, m.name))
		}
		seen.Add(s)
	}
}
