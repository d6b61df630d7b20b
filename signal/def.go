package signal

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Def describes a signal type: its numeric id, its name and the allocator
// class its instances come from. Definitions are package-level constants of
// the application; construction goes exclusively through Make so the
// allocator stamp is preserved on release.
type Def[T Any] struct {
	id    ID
	name  string
	class *Class
	typ   reflect.Type
}

// Define declares a signal type. T is the pointer type of a struct embedding
// Base. The class defaults to Heap.
func Define[T Any](id ID, name string, maybeClass ...*Class) *Def[T] {
	class := Heap
	if len(maybeClass) > 0 {
		class = maybeClass[0]
	}
	return &Def[T]{
		id:    id,
		name:  name,
		class: class,
		typ:   reflect.TypeFor[T]().Elem(),
	}
}

// Meta is the surface Next reads from the previous definition.
type Meta interface {
	ID() ID
	Class() *Class
}

// Next declares the signal following prev: its id is prev's plus one and it
// shares prev's allocator class. A design aid for declaring event families
// without spelling out ids.
func Next[T Any](prev Meta, name string) *Def[T] {
	return &Def[T]{
		id:    prev.ID() + 1,
		name:  name,
		class: prev.Class(),
		typ:   reflect.TypeFor[T]().Elem(),
	}
}

// ID returns the numeric identity of this definition.
func (d *Def[T]) ID() ID { return d.id }

// Name returns the definition name.
func (d *Def[T]) Name() string { return d.name }

// Class returns the allocator class instances are made from.
func (d *Def[T]) Class() *Class { return d.class }

// Make allocates a signal through the definition's class, stamps identity
// and reference count, runs init on the fresh payload and returns a handle
// with one reference. Pool exhaustion is surfaced to the caller.
func (d *Def[T]) Make(init func(T)) (T, error) {
	var s T
	if res := d.class.resource(); res != nil {
		v, err := res.Acquire(d.typ)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("make %s: %w", d.name, err)
		}
		if v == nil {
			s = reflect.New(d.typ).Interface().(T)
		} else {
			s = v.(T)
			reflect.ValueOf(s).Elem().SetZero()
		}
	} else {
		s = reflect.New(d.typ).Interface().(T)
	}
	b := s.base()
	b.def = d
	b.token = uuid.New()
	b.refs.Store(1)
	if init != nil {
		init(s)
	}
	return s, nil
}

// New is Make without an init function. It panics on allocation failure and
// is meant for heap-backed signals, whose allocation cannot fail.
func (d *Def[T]) New() T {
	s, err := d.Make(nil)
	if err != nil {
		panic(err)
	}
	return s
}

// Is reports whether s carries this definition's identity.
func (d *Def[T]) Is(s Any) bool {
	return s != nil && s.ID() == d.id
}

// FromSignal is the checked downcast from a generic handle to the concrete
// signal type. It fails with ErrWrongKind when the identity does not match.
func (d *Def[T]) FromSignal(s Any) (T, error) {
	t, ok := s.(T)
	if !ok || s.ID() != d.id {
		var zero T
		return zero, fmt.Errorf("%w: have %q (id %d), want %q (id %d)",
			ErrWrongKind, s.Name(), s.ID(), d.name, d.id)
	}
	return t, nil
}

func (d *Def[T]) recycle(s Any) {
	if res := d.class.resource(); res != nil {
		res.Recycle(d.typ, s)
	}
}
