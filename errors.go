package hsm

import "errors"

var (
	// ErrNotStarted is raised by React on a machine that was never started.
	ErrNotStarted = errors.New("hsm: React before Start")
	// ErrReentrant is raised when React is called while React is already on
	// the stack. Handlers and actions must not call back into the machine.
	ErrReentrant = errors.New("hsm: recursive React")
	// ErrNoOwner is raised by Start on a machine that was never initialized.
	ErrNoOwner = errors.New("hsm: machine not initialized")
	// ErrDeferWithoutHook is raised when a handler returns Defer but no
	// OnDeferEvent hook is installed to receive the event.
	ErrDeferWithoutHook = errors.New("hsm: Defer returned but no OnDeferEvent hook installed")
	// ErrRecallWithoutHook is raised by RecallEvents when no OnRecallDeferred
	// hook is installed.
	ErrRecallWithoutHook = errors.New("hsm: RecallEvents without OnRecallDeferred hook")
	// ErrBadInitial is raised when a state is declared as the initial
	// substate of a state that is not its parent.
	ErrBadInitial = errors.New("hsm: initial substate must be a direct child")
	// ErrGraphCycle is raised by Start when the parent chain of a state
	// loops back on itself.
	ErrGraphCycle = errors.New("hsm: state graph cycle")
)
