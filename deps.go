package flux

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingDeps is returned when a dependency bag cannot satisfy an
// effect's declared requirement.
var ErrMissingDeps = errors.New("flux: missing dependencies")

// DepType describes one required dependency.
type DepType = reflect.Type

// DepOf returns the DepType descriptor for T. T may be an interface; the
// requirement is then satisfied by any bag entry implementing it.
func DepOf[T any]() DepType {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// DepSet is the set of dependency types an effect requires. The zero
// value requires nothing.
type DepSet struct {
	types []DepType
}

// Require builds a DepSet from descriptors.
//
//	flux.Require(flux.DepOf[*sql.DB](), flux.DepOf[Clock]())
func Require(types ...DepType) DepSet {
	out := make([]DepType, 0, len(types))
	for _, t := range types {
		if t == nil {
			continue
		}
		if !containsType(out, t) {
			out = append(out, t)
		}
	}
	return DepSet{types: out}
}

// Merge returns the union of both requirement sets.
func (s DepSet) Merge(o DepSet) DepSet {
	out := make([]DepType, len(s.types), len(s.types)+len(o.types))
	copy(out, s.types)
	for _, t := range o.types {
		if !containsType(out, t) {
			out = append(out, t)
		}
	}
	return DepSet{types: out}
}

// Len returns the number of required types.
func (s DepSet) Len() int { return len(s.types) }

func (s DepSet) String() string {
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.String()
	}
	return "deps(" + strings.Join(names, ", ") + ")"
}

// Deps is an immutable value bag of injected services keyed by type.
// Merging bags never mutates either input. The zero value is the empty
// bag.
type Deps struct {
	entries map[DepType]any
}

// NewDeps builds a bag from service values, keyed by each value's dynamic
// type. Nil values are ignored.
func NewDeps(values ...any) Deps {
	if len(values) == 0 {
		return Deps{}
	}
	m := make(map[DepType]any, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		m[reflect.TypeOf(v)] = v
	}
	return Deps{entries: m}
}

// Merge returns a bag satisfying both inputs' requirements. On key
// conflicts the entry from o wins.
func (d Deps) Merge(o Deps) Deps {
	if len(o.entries) == 0 {
		return d
	}
	if len(d.entries) == 0 {
		return o
	}
	m := make(map[DepType]any, len(d.entries)+len(o.entries))
	for t, v := range d.entries {
		m[t] = v
	}
	for t, v := range o.entries {
		m[t] = v
	}
	return Deps{entries: m}
}

// Len returns the number of entries in the bag.
func (d Deps) Len() int { return len(d.entries) }

// Has reports whether the bag holds an entry for t: an exact entry, or
// for interface requirements any entry assignable to it.
func (d Deps) Has(t DepType) bool {
	if _, ok := d.entries[t]; ok {
		return true
	}
	if t.Kind() == reflect.Interface {
		for et := range d.entries {
			if et.AssignableTo(t) {
				return true
			}
		}
	}
	return false
}

// Satisfies checks the bag against a requirement set, reporting every
// missing dependency in the diagnostic.
func (d Deps) Satisfies(req DepSet) error {
	var missing []string
	for _, t := range req.types {
		if !d.Has(t) {
			missing = append(missing, t.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDeps, strings.Join(missing, ", "))
	}
	return nil
}

// GetDep retrieves the entry for T. Interface types match any assignable
// entry; which entry wins is unspecified if several qualify.
func GetDep[T any](d Deps) (T, bool) {
	t := DepOf[T]()
	if v, ok := d.entries[t]; ok {
		return v.(T), true
	}
	if t.Kind() == reflect.Interface {
		for _, v := range d.entries {
			if tv, ok := v.(T); ok {
				return tv, true
			}
		}
	}
	var zero T
	return zero, false
}
