package hsm

import (
	"log/slog"

	"github.com/objectware/go-hsm/signal"
)

// LogHooks installs structured-logging observers on m, chaining any hooks
// already set. Entry, exit and handle events log at debug level; state
// changes at info; unhandled events at warn.
func LogHooks[O any](m *Machine[O], logger *slog.Logger) {
	entry := m.OnStateEntry
	m.OnStateEntry = func(m *Machine[O], s *State[O], event signal.Any) {
		if entry != nil {
			entry(m, s, event)
		}
		logger.Debug("enter state", "machine", m.Name(), "state", s.Name(), "signal", signalName(event))
	}
	exit := m.OnStateExit
	m.OnStateExit = func(m *Machine[O], s *State[O], event signal.Any) {
		if exit != nil {
			exit(m, s, event)
		}
		logger.Debug("exit state", "machine", m.Name(), "state", s.Name(), "signal", signalName(event))
	}
	handle := m.OnHandleEvent
	m.OnHandleEvent = func(m *Machine[O], s *State[O], event signal.Any) {
		if handle != nil {
			handle(m, s, event)
		}
		logger.Debug("handle event", "machine", m.Name(), "state", s.Name(), "signal", signalName(event))
	}
	change := m.OnStateChange
	m.OnStateChange = func(m *Machine[O], event signal.Any, from, to *State[O]) {
		if change != nil {
			change(m, event, from, to)
		}
		logger.Info("state change", "machine", m.Name(), "from", from.Name(), "to", to.Name(), "signal", signalName(event))
	}
	unhandled := m.OnUnhandledEvent
	m.OnUnhandledEvent = func(m *Machine[O], s *State[O], event signal.Any) {
		if unhandled != nil {
			unhandled(m, s, event)
		}
		logger.Warn("unhandled event", "machine", m.Name(), "state", s.Name(), "signal", signalName(event))
	}
}

func signalName(event signal.Any) string {
	if event == nil {
		return ""
	}
	return event.Name()
}
