package flux

import (
	"fmt"
	"reflect"
	"strings"
)

// slot binds one action type to a handler procedure.
type slot struct {
	typ ActionType
	fn  func(Action) error
}

// Dispatcher routes actions to bound procedures, one slot per member of
// its ActionSet. A dispatcher is a value: copies share the bound
// procedures but no mutable state.
//
// Dispatchers are built four ways:
//
//   - EmptyDispatcher: every slot does nothing
//   - DispatcherFunc: every slot forwards to one callable
//   - NarrowDispatcher: slots are borrowed from a wider dispatcher
//   - NarrowDispatcherVia: borrowed slots, fed through a Converter
//
// Narrowing requires each target action type to match exactly one source
// slot; zero or multiple matches fail at construction.
type Dispatcher struct {
	actions ActionSet
	slots   []slot
}

// EmptyDispatcher returns a dispatcher whose slots all do nothing. Use it
// when a context needs no dispatch capability.
func EmptyDispatcher(actions ActionSet) Dispatcher {
	slots := make([]slot, 0, actions.Len())
	for _, t := range actions.types {
		slots = append(slots, slot{typ: t, fn: func(Action) error { return nil }})
	}
	return Dispatcher{actions: actions, slots: slots}
}

// DispatcherFunc routes every action in the set to fn. This is the usual
// way a store exposes its enqueue sink:
//
//	d := flux.DispatcherFunc(rootActions, func(a flux.Action) error {
//	    store.Enqueue(a)
//	    return nil
//	})
func DispatcherFunc(actions ActionSet, fn func(Action) error) Dispatcher {
	slots := make([]slot, 0, actions.Len())
	for _, t := range actions.types {
		slots = append(slots, slot{typ: t, fn: fn})
	}
	return Dispatcher{actions: actions, slots: slots}
}

// NarrowDispatcher derives a dispatcher for the target set from a wider
// source dispatcher. For each target action type the unique compatible
// source slot is located and bound; absence or ambiguity is a
// construction-time error.
func NarrowDispatcher(src Dispatcher, target ActionSet) (Dispatcher, error) {
	slots := make([]slot, 0, target.Len())
	for _, t := range target.types {
		m, err := findUniqueMatch(t, src.actions)
		if err != nil {
			return Dispatcher{}, fmt.Errorf("narrow dispatcher: %w", err)
		}
		slots = append(slots, slot{typ: t, fn: src.slotFor(m)})
	}
	return Dispatcher{actions: target, slots: slots}, nil
}

// NarrowDispatcherVia derives a dispatcher for the target set, rewriting
// each action through conv before forwarding it to the source slot that
// matches the converted type.
func NarrowDispatcherVia(src Dispatcher, target ActionSet, conv Converter) (Dispatcher, error) {
	slots := make([]slot, 0, target.Len())
	for _, t := range target.types {
		out := conv.outType(t)
		m, err := findUniqueMatch(out, src.actions)
		if err != nil {
			return Dispatcher{}, fmt.Errorf("narrow dispatcher via converter: %w", err)
		}
		fn := src.slotFor(m)
		slots = append(slots, slot{typ: t, fn: func(a Action) error {
			return fn(conv.Apply(a))
		}})
	}
	return Dispatcher{actions: target, slots: slots}, nil
}

// Actions returns the dispatcher's declared action set.
func (d Dispatcher) Actions() ActionSet { return d.actions }

// Dispatch routes act to its bound slot. An exact-type slot is preferred;
// otherwise the action must be convertible to exactly one slot type.
// Actions outside the declared set, or matching several slots with no
// exact winner, are a checked error.
func (d Dispatcher) Dispatch(act Action) error {
	if act == nil {
		return fmt.Errorf("dispatch: %w: nil action", ErrNoMatch)
	}
	at := reflect.TypeOf(act)
	for i := range d.slots {
		if d.slots[i].typ == at {
			return d.slots[i].fn(act)
		}
	}
	var found []int
	for i := range d.slots {
		if convertibleType(at, d.slots[i].typ) {
			found = append(found, i)
		}
	}
	switch len(found) {
	case 1:
		return d.slots[found[0]].fn(act)
	case 0:
		return fmt.Errorf("dispatch %v: %w in %v", at, ErrNoMatch, d.actions)
	default:
		matches := make([]string, len(found))
		for i, idx := range found {
			matches[i] = d.slots[idx].typ.String()
		}
		return fmt.Errorf("dispatch %v: %w: matches %s",
			at, ErrAmbiguousMatch, strings.Join(matches, " and "))
	}
}

// slotFor returns the procedure bound to an exact member type. Callers
// pass types obtained from findUniqueMatch over d.actions, so a slot
// always exists.
func (d Dispatcher) slotFor(t ActionType) func(Action) error {
	for i := range d.slots {
		if d.slots[i].typ == t {
			return d.slots[i].fn
		}
	}
	return func(Action) error {
		return fmt.Errorf("dispatch: %w: no slot for %v", ErrNoMatch, t)
	}
}
