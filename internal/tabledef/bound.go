package tabledef

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by the stand-in injected for an optional
// method that was not supplied.
var ErrNotImplemented = errors.New("not implemented")

// Method is the canonical signature for injected methods. Any function value
// passes dependency validation, but only a Method can be invoked through
// Bound.Call.
type Method func(ctx context.Context, args ...any) (any, error)

// Unimplemented returns the stand-in used for an omitted optional method.
func Unimplemented(name string) Method {
	return func(context.Context, ...any) (any, error) {
		return nil, fmt.Errorf("optional method %q was not supplied: %w", name, ErrNotImplemented)
	}
}

// Bound is a table template together with the dependencies resolved for it.
// It is what a schema binder receives.
type Bound struct {
	Def  *TableDef
	deps map[string]any
}

// NewBound pairs def with deps. Only entries def declared are kept.
func NewBound(def *TableDef, deps map[string]any) *Bound {
	kept := make(map[string]any, len(def.requirements))
	for _, req := range def.requirements {
		if v, ok := deps[req.Name]; ok {
			kept[req.Name] = v
		}
	}
	return &Bound{Def: def, deps: kept}
}

// Dependency returns the value injected under name.
func (b *Bound) Dependency(name string) (any, bool) {
	v, ok := b.deps[name]
	return v, ok
}

// Dependencies returns a copy of every injected value.
func (b *Bound) Dependencies() map[string]any {
	out := make(map[string]any, len(b.deps))
	for k, v := range b.deps {
		out[k] = v
	}
	return out
}

// Call invokes the method injected under name.
func (b *Bound) Call(ctx context.Context, name string, args ...any) (any, error) {
	v, ok := b.deps[name]
	if !ok {
		return nil, fmt.Errorf("table %q has no method %q", b.Def.Name, name)
	}
	switch fn := v.(type) {
	case Method:
		return fn(ctx, args...)
	case func(context.Context, ...any) (any, error):
		return fn(ctx, args...)
	default:
		return nil, fmt.Errorf("method %q of table %q has type %T and cannot be called directly", name, b.Def.Name, v)
	}
}
