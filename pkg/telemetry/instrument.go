package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	hsm "github.com/objectware/go-hsm"
	"github.com/objectware/go-hsm/signal"
)

// Instrument installs hooks on m that report state changes and unhandled
// events as spans on the given tracer, chaining any hooks already set.
func Instrument[O any](m *hsm.Machine[O], tracer trace.Tracer) {
	change := m.OnStateChange
	m.OnStateChange = func(m *hsm.Machine[O], event signal.Any, from, to *hsm.State[O]) {
		if change != nil {
			change(m, event, from, to)
		}
		_, span := tracer.Start(context.Background(), "hsm.transition")
		span.SetAttributes(
			attribute.String("hsm.machine", m.Name()),
			attribute.String("hsm.from", from.Name()),
			attribute.String("hsm.to", to.Name()),
			signalAttr(event),
		)
		span.End()
	}
	unhandled := m.OnUnhandledEvent
	m.OnUnhandledEvent = func(m *hsm.Machine[O], s *hsm.State[O], event signal.Any) {
		if unhandled != nil {
			unhandled(m, s, event)
		}
		_, span := tracer.Start(context.Background(), "hsm.unhandled")
		span.SetAttributes(
			attribute.String("hsm.machine", m.Name()),
			attribute.String("hsm.state", s.Name()),
			signalAttr(event),
		)
		span.SetStatus(codes.Error, "unhandled event")
		span.End()
	}
}

func signalAttr(event signal.Any) attribute.KeyValue {
	if event == nil {
		return attribute.String("hsm.signal", "")
	}
	return attribute.String("hsm.signal", event.Name())
}
