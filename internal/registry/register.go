package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/schematemplate/internal/tabledef"
)

// Register adds a table template and records its requirement names. It
// returns def unchanged so it can wrap a package-level declaration.
func (r *Registry) Register(def *tabledef.TableDef) (*tabledef.TableDef, error) {
	if def == nil {
		return nil, fmt.Errorf("cannot register a nil table template")
	}
	if _, exists := r.byDef[def]; exists {
		return nil, &DuplicateRegistrationError{Name: def.Name}
	}
	if _, exists := r.byName[def.Name]; exists {
		return nil, &DuplicateRegistrationError{Name: def.Name}
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	e := &entry{def: def, index: len(r.entries)}
	r.entries = append(r.entries, e)
	r.byDef[def] = e
	r.byName[def.Name] = e

	for _, req := range def.Requirements() {
		if _, ok := r.seen[req.Kind][req.Name]; ok {
			continue
		}
		r.seen[req.Kind][req.Name] = struct{}{}
		switch req.Kind {
		case tabledef.KindUpstream:
			r.upstream = append(r.upstream, req.Name)
		case tabledef.KindRequired:
			r.required = append(r.required, req.Name)
		case tabledef.KindOptional:
			r.optional = append(r.optional, req.Name)
		}
	}

	slog.Debug("Registering table template.",
		"name", def.Name,
		"upstream", def.Names(tabledef.KindUpstream),
		"required", def.Names(tabledef.KindRequired),
		"optional", def.Names(tabledef.KindOptional),
	)
	return def, nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level template declarations, where a failure is a programming
// error.
func (r *Registry) MustRegister(def *tabledef.TableDef) *tabledef.TableDef {
	def, err := r.Register(def)
	if err != nil {
		panic(err)
	}
	return def
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(modules ...Module) error {
	for _, mod := range modules {
		if err := mod.Register(r); err != nil {
			return fmt.Errorf("register module %T: %w", mod, err)
		}
	}
	return nil
}
