package hsm

type transitionKind uint8

const (
	kindUnhandled transitionKind = iota
	kindDefer
	kindInternal
	kindExternal
)

// Transition is the value a state handler returns. It is a tagged variant:
// Unhandled propagates the event to the parent state, Defer hands it to the
// runtime for later recall, Internal runs actions without exit/entry, and
// Goto performs an external transition to a target state.
type Transition[O any] struct {
	kind    transitionKind
	target  *State[O]
	actions []Action[O]
}

// Unhandled propagates the event to the parent state; at the top it is
// reported through OnUnhandledEvent.
func Unhandled[O any]() Transition[O] {
	return Transition[O]{kind: kindUnhandled}
}

// Defer asks the runtime to hold the event until the owner recalls it,
// typically from an exit action.
func Defer[O any]() Transition[O] {
	return Transition[O]{kind: kindDefer}
}

// Internal marks the event handled: the actions run in declaration order,
// no state is exited or entered.
func Internal[O any](actions ...Action[O]) Transition[O] {
	return Transition[O]{kind: kindInternal, actions: actions}
}

// Goto performs an external transition to target, running the actions
// between the exit and entry chains. Targeting the current state exits and
// re-enters it.
func Goto[O any](target *State[O], actions ...Action[O]) Transition[O] {
	return Transition[O]{kind: kindExternal, target: target, actions: actions}
}

// Target returns the target state of an external transition, nil otherwise.
func (t Transition[O]) Target() *State[O] { return t.target }
