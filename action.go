package flux

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNoMatch is returned when an action type has no compatible member in a
// candidate set.
var ErrNoMatch = errors.New("flux: no compatible action")

// ErrAmbiguousMatch is returned when an action type is compatible with more
// than one member of a candidate set. Ambiguity is never resolved silently;
// it surfaces at construction time so configuration bugs stay visible.
var ErrAmbiguousMatch = errors.New("flux: ambiguous action match")

// ErrIncompatibleActions is returned when one action set cannot be handled
// by another during context narrowing, effect invocation, or result folding.
var ErrIncompatibleActions = errors.New("flux: incompatible action sets")

// Action is any value dispatched into a store. Actions are plain data;
// the dispatcher routes them by dynamic type.
type Action = any

// ActionType describes one action type in an ActionSet.
type ActionType = reflect.Type

// ActionOf returns the ActionType descriptor for T. Unlike reflect.TypeOf
// on a value, it works for interface types as well as concrete types:
//
//	flux.ActionOf[SaveRequested]()   // concrete struct
//	flux.ActionOf[PersistAction]()   // interface covering several actions
func ActionOf[T any]() ActionType {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ActionSet is an ordered, deduplicated collection of action types a
// dispatcher, context, or effect is willing to handle.
//
// A single action type and the one-element set containing it are
// interchangeable; NormalizeActions converts between the two forms.
// The zero value is the empty set, used for contexts that only provide
// dependencies and no dispatch capability.
type ActionSet struct {
	types []ActionType
}

// Actions builds an ActionSet from descriptors, keeping the first
// occurrence of each exact type.
//
//	set := flux.Actions(flux.ActionOf[Save](), flux.ActionOf[Load]())
func Actions(types ...ActionType) ActionSet {
	out := make([]ActionType, 0, len(types))
	for _, t := range types {
		if t == nil {
			continue
		}
		if !containsType(out, t) {
			out = append(out, t)
		}
	}
	return ActionSet{types: out}
}

// NormalizeActions converts any of the accepted action-set spellings to an
// ActionSet:
//
//   - an ActionSet is returned as is
//   - nil is the empty set
//   - an ActionType becomes a one-element set
//   - any other value becomes a one-element set of its dynamic type
func NormalizeActions(v any) ActionSet {
	switch x := v.(type) {
	case nil:
		return ActionSet{}
	case ActionSet:
		return x
	case ActionType:
		return Actions(x)
	default:
		return Actions(reflect.TypeOf(v))
	}
}

// Len returns the number of member types.
func (s ActionSet) Len() int { return len(s.types) }

// Empty reports whether the set has no members.
func (s ActionSet) Empty() bool { return len(s.types) == 0 }

// Contains reports whether t is an exact member of the set.
func (s ActionSet) Contains(t ActionType) bool { return containsType(s.types, t) }

// Types returns a copy of the member descriptors in order.
func (s ActionSet) Types() []ActionType {
	out := make([]ActionType, len(s.types))
	copy(out, s.types)
	return out
}

// String renders the set for diagnostics, e.g. "actions(main.Save, main.Load)".
func (s ActionSet) String() string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.String()
	}
	return "actions(" + strings.Join(names, ", ") + ")"
}

func containsType(types []ActionType, t ActionType) bool {
	for _, m := range types {
		if m == t {
			return true
		}
	}
	return false
}

// convertibleType reports whether an action of type from can be handled by
// a slot declared for type to: identical types, or to is an interface that
// from implements. reflect.Type.ConvertibleTo is deliberately not used; it
// would treat distinct action structs with identical underlying layouts as
// interchangeable.
func convertibleType(from, to ActionType) bool {
	if from == to {
		return true
	}
	return to.Kind() == reflect.Interface && from.AssignableTo(to)
}

// Conversion is a single action rewrite rule from one type to another.
// Build one with ConvertAction.
type Conversion struct {
	from  ActionType
	to    ActionType
	apply func(Action) Action
}

// ConvertAction builds a Conversion from a typed transform function. From
// may be an interface type; the rule then applies to every action
// implementing it.
//
//	flux.ConvertAction(func(a ChildSaved) ParentAction { return ParentAction{Child: a} })
func ConvertAction[From, To any](fn func(From) To) Conversion {
	return Conversion{
		from: ActionOf[From](),
		to:   ActionOf[To](),
		apply: func(a Action) Action {
			return fn(a.(From))
		},
	}
}

// Converter rewrites actions before they are matched against a target set.
// Rules are tried in order against the action's dynamic type; actions with
// no matching rule pass through unchanged. The zero value is the identity
// converter.
type Converter struct {
	rules []Conversion
}

// NewConverter builds a Converter from rewrite rules.
func NewConverter(rules ...Conversion) Converter {
	return Converter{rules: rules}
}

// Apply rewrites a through the first matching rule, or returns it
// unchanged when no rule matches.
func (c Converter) Apply(a Action) Action {
	at := reflect.TypeOf(a)
	for _, r := range c.rules {
		if convertibleType(at, r.from) {
			return r.apply(a)
		}
	}
	return a
}

// outType reports the type an action of type t has after conversion. This
// is the type-level counterpart of Apply, used for configuration-time
// compatibility checks.
func (c Converter) outType(t ActionType) ActionType {
	for _, r := range c.rules {
		if convertibleType(t, r.from) {
			return r.to
		}
	}
	return t
}

// pickConverter normalizes the optional trailing converter argument used
// throughout the package. Zero or one converter is accepted.
func pickConverter(conv []Converter) Converter {
	switch len(conv) {
	case 0:
		return Converter{}
	case 1:
		return conv[0]
	default:
		panic("flux: at most one converter may be supplied")
	}
}

// Compatible reports whether every member of s can be handled by some
// member of target, optionally after rewriting through a converter.
//
// Compatibility is what makes a context for a wider action set usable
// where a narrower one is expected: Compatible(narrow, wide) must hold for
// the narrowing to succeed.
func Compatible(s, target ActionSet, conv ...Converter) bool {
	return compatibleErr(s, target, pickConverter(conv)) == nil
}

// compatibleErr is Compatible with a descriptive diagnostic naming the
// first offending member.
func compatibleErr(s, target ActionSet, conv Converter) error {
	for _, t := range s.types {
		out := conv.outType(t)
		if !hasConvertibleMember(target.types, out) {
			if out != t {
				return fmt.Errorf("%w: %v (converted to %v) has no compatible member in %v",
					ErrIncompatibleActions, t, out, target)
			}
			return fmt.Errorf("%w: %v has no compatible member in %v",
				ErrIncompatibleActions, t, target)
		}
	}
	return nil
}

func hasConvertibleMember(types []ActionType, from ActionType) bool {
	for _, m := range types {
		if convertibleType(from, m) {
			return true
		}
	}
	return false
}

// findUniqueMatch returns the single member of candidates that an action
// of type a converts to. Zero matches or more than one is an error: silent
// precedence between overlapping slots would hide configuration bugs.
func findUniqueMatch(a ActionType, candidates ActionSet) (ActionType, error) {
	var found []ActionType
	for _, m := range candidates.types {
		if convertibleType(a, m) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %v has no candidate in %v", ErrNoMatch, a, candidates)
	default:
		matches := make([]string, len(found))
		for i, m := range found {
			matches[i] = m.String()
		}
		return nil, fmt.Errorf("%w: %v matches %s in %v",
			ErrAmbiguousMatch, a, strings.Join(matches, " and "), candidates)
	}
}

// MergeActions returns the deduplicated union of s1 and s2, folding s1
// into s2. Duplication is decided by convertibility, not identity: when
// the running result already holds a member an incoming type converts to,
// the incoming type is dropped; otherwise members convertible to the
// incoming type are removed and the incoming type is appended.
//
// Merging a set with itself yields the same set, and merging a concrete
// action with an interface it implements keeps only the interface.
func MergeActions(s1, s2 ActionSet) ActionSet {
	acc := make([]ActionType, len(s2.types))
	copy(acc, s2.types)
	for _, x := range s1.types {
		if hasConvertibleMember(acc, x) {
			continue
		}
		kept := acc[:0:len(acc)]
		for _, t := range acc {
			if !convertibleType(t, x) {
				kept = append(kept, t)
			}
		}
		acc = append(kept, x)
	}
	return ActionSet{types: acc}
}
