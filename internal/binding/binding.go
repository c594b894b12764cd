// Package binding defines the contract between a template registry and the
// schema binder that turns a table template into a live table.
package binding

import (
	"context"
	"strings"

	"github.com/vk/schematemplate/internal/tabledef"
)

// Table is a live, schema-bound table handle.
type Table interface {
	TableName() string
}

// Binder turns a fully specified table template into a live table. ns is the
// lookup namespace used to resolve foreign-key references by name.
type Binder interface {
	Bind(ctx context.Context, b *tabledef.Bound, ns Namespace) (Table, error)
}

// BinderFunc adapts a function to the Binder interface.
type BinderFunc func(ctx context.Context, b *tabledef.Bound, ns Namespace) (Table, error)

// Bind calls f.
func (f BinderFunc) Bind(ctx context.Context, b *tabledef.Bound, ns Namespace) (Table, error) {
	return f(ctx, b, ns)
}

// Namespace maps names to tables, modules (nested namespaces) or any other
// value a binder may need to resolve a reference.
type Namespace map[string]any

// Clone returns a shallow copy of ns. A nil ns clones to an empty namespace.
func (ns Namespace) Clone() Namespace {
	out := make(Namespace, len(ns))
	for k, v := range ns {
		out[k] = v
	}
	return out
}

// Merge copies every entry of other into ns, overwriting existing names.
func (ns Namespace) Merge(other Namespace) {
	for k, v := range other {
		ns[k] = v
	}
}

// Lookup resolves ref, following dotted references such as "lab.Subject"
// through nested namespaces.
func (ns Namespace) Lookup(ref string) (any, bool) {
	if v, ok := ns[ref]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(ref, ".")
	if !found {
		return nil, false
	}
	switch nested := ns[head].(type) {
	case Namespace:
		return nested.Lookup(rest)
	case map[string]any:
		return Namespace(nested).Lookup(rest)
	default:
		return nil, false
	}
}
