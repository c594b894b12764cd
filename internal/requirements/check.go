package requirements

import (
	"fmt"
	"reflect"

	"github.com/vk/schematemplate/internal/tabledef"
)

// Dependencies maps a requirement name to the table handle or function that
// satisfies it. Check never modifies it.
type Dependencies map[string]any

// CheckOption adjusts a single Check call.
type CheckOption func(*checkOptions)

type checkOptions struct {
	satisfied map[string]struct{}
}

// SatisfiedBy marks upstream table names the caller resolves on its own.
// They are not demanded from the mapping, but are copied through when the
// mapping has them.
func SatisfiedBy(names ...string) CheckOption {
	return func(o *checkOptions) {
		for _, name := range names {
			o.satisfied[name] = struct{}{}
		}
	}
}

// Check validates deps against r and returns a new mapping holding only the
// names r records. Omitted optional methods resolve to
// tabledef.Unimplemented stand-ins.
func (r Requirements) Check(deps Dependencies, opts ...CheckOption) (Dependencies, error) {
	o := checkOptions{satisfied: make(map[string]struct{})}
	for _, opt := range opts {
		opt(&o)
	}

	if len(deps) == 0 && r.needsMapping(o.satisfied) {
		return nil, fmt.Errorf("%w: %s", ErrMissingDependency, r.Describe())
	}

	checked := make(Dependencies, len(r.Tables)+len(r.Methods)+len(r.Optional))
	for _, name := range r.Tables {
		v, ok := deps[name]
		if !ok {
			if _, self := o.satisfied[name]; self {
				continue
			}
			return nil, &MissingDependencyError{Name: name, Kind: tabledef.KindUpstream}
		}
		checked[name] = v
	}

	for _, name := range r.Methods {
		v, ok := deps[name]
		if !ok {
			return nil, &MissingDependencyError{Name: name, Kind: tabledef.KindRequired}
		}
		if !isFunc(v) {
			return nil, &MissingDependencyError{Name: name, Kind: tabledef.KindRequired, Reason: fmt.Sprintf("%T is not a function", v)}
		}
		checked[name] = v
	}

	for _, name := range r.Optional {
		v, ok := deps[name]
		if !ok {
			checked[name] = tabledef.Unimplemented(name)
			continue
		}
		if !isFunc(v) {
			return nil, &MissingDependencyError{Name: name, Kind: tabledef.KindOptional, Reason: fmt.Sprintf("%T is not a function", v)}
		}
		checked[name] = v
	}

	return checked, nil
}

// needsMapping reports whether an empty mapping must be rejected. Optional
// methods never need it since each one has a stand-in, and upstream names in
// satisfied are resolved by the caller.
func (r Requirements) needsMapping(satisfied map[string]struct{}) bool {
	if len(r.Methods) > 0 {
		return true
	}
	for _, name := range r.Tables {
		if _, ok := satisfied[name]; !ok {
			return true
		}
	}
	return false
}

func isFunc(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}
