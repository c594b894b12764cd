package registry

import (
	"context"
	"fmt"

	"github.com/vk/schematemplate/internal/binding"
	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/requirements"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Declare binds every registered template, in registration order, and
// returns the resulting tables keyed by table name.
//
// deps is validated once against the union of all templates' requirements
// before anything is bound. An upstream table missing from deps is accepted
// when a template of that name is registered ahead of every template that
// needs it; it is then injected from the table bound earlier in this pass.
//
// ns may be nil. Its entries are merged into the registry namespace, which
// is passed to the binder, and each bound table is added to both.
func (r *Registry) Declare(ctx context.Context, binder binding.Binder, deps requirements.Dependencies, ns binding.Namespace) (map[string]binding.Table, error) {
	if r.declared {
		return nil, ErrAlreadyDeclared
	}
	if binder == nil {
		return nil, fmt.Errorf("schema binder is required")
	}
	logger := ctxlog.FromContext(ctx)

	resolved, err := r.Requirements().Check(deps, requirements.SatisfiedBy(r.selfSatisfied()...))
	if err != nil {
		return nil, fmt.Errorf("check dependencies: %w", err)
	}

	r.namespace.Merge(ns)
	r.declared = true

	tables := make(map[string]binding.Table, len(r.entries))
	for _, e := range r.entries {
		injected, err := r.inject(e.def, resolved)
		if err != nil {
			return tables, err
		}

		logger.Info("Initializing table.", "table", e.def.Name)
		table, err := binder.Bind(ctx, tabledef.NewBound(e.def, injected), r.namespace)
		if err != nil {
			return tables, fmt.Errorf("declare table %q: %w", e.def.Name, err)
		}
		if table == nil {
			return tables, fmt.Errorf("declare table %q: binder returned no table", e.def.Name)
		}

		e.table = table
		name := table.TableName()
		r.namespace[name] = table
		r.tables[name] = table
		tables[name] = table
		if ns != nil {
			ns[name] = table
		}
	}

	logger.Debug("Declaration finished.", "tables", len(tables))
	return tables, nil
}

// inject picks the values for def's own requirements. Upstream tables not in
// the resolved mapping come from the template of that name, bound earlier in
// this pass. The binder may publish that table under another name, so the
// lookup goes through the template, not the namespace.
func (r *Registry) inject(def *tabledef.TableDef, resolved requirements.Dependencies) (map[string]any, error) {
	reqs := def.Requirements()
	out := make(map[string]any, len(reqs))
	for _, req := range reqs {
		if v, ok := resolved[req.Name]; ok {
			out[req.Name] = v
			continue
		}
		if req.Kind == tabledef.KindUpstream {
			if provider, ok := r.byName[req.Name]; ok && provider.table != nil {
				out[req.Name] = provider.table
				continue
			}
		}
		return nil, fmt.Errorf("declare table %q: %s %q was not resolved", def.Name, req.Kind, req.Name)
	}
	return out, nil
}

// selfSatisfied returns the upstream names this registry provides itself: a
// template with that name is registered before every template needing it.
func (r *Registry) selfSatisfied() []string {
	var names []string
	for _, name := range r.upstream {
		provider, ok := r.byName[name]
		if !ok {
			continue
		}
		ok = true
		for _, e := range r.entries {
			if kind, needs := e.def.Needs(name); needs && kind == tabledef.KindUpstream && e.index <= provider.index {
				ok = false
				break
			}
		}
		if ok {
			names = append(names, name)
		}
	}
	return names
}
