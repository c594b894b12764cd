package registry

import (
	"github.com/vk/schematemplate/internal/binding"
	"github.com/vk/schematemplate/internal/requirements"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Module is implemented by packages that contribute a bundle of table
// templates to a registry.
type Module interface {
	Register(r *Registry) error
}

// entry is one registered template with its position in registration order
// and, once declared, the table bound from it.
type entry struct {
	def   *tabledef.TableDef
	index int
	table binding.Table
}

// Registry holds the registered table templates and, after declaration, the
// tables bound from them.
type Registry struct {
	entries []*entry
	byDef   map[*tabledef.TableDef]*entry
	byName  map[string]*entry

	upstream []string
	required []string
	optional []string
	seen     map[tabledef.Kind]map[string]struct{}

	namespace binding.Namespace
	tables    map[string]binding.Table
	declared  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithNamespace seeds the registry's lookup namespace. Entries are copied.
func WithNamespace(ns binding.Namespace) Option {
	return func(r *Registry) {
		r.namespace.Merge(ns)
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		byDef:  make(map[*tabledef.TableDef]*entry),
		byName: make(map[string]*entry),
		seen: map[tabledef.Kind]map[string]struct{}{
			tabledef.KindUpstream: {},
			tabledef.KindRequired: {},
			tabledef.KindOptional: {},
		},
		namespace: binding.Namespace{},
		tables:    make(map[string]binding.Table),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Requirements returns the names collected across every registered
// template, deduplicated in first-seen order.
func (r *Registry) Requirements() requirements.Requirements {
	return requirements.Requirements{
		Tables:   append([]string(nil), r.upstream...),
		Methods:  append([]string(nil), r.required...),
		Optional: append([]string(nil), r.optional...),
	}
}

// Describe returns guidance on the dependency mapping Declare expects.
func (r *Registry) Describe() string {
	return r.Requirements().Describe()
}

// ListTables returns the registered template names in registration order.
func (r *Registry) ListTables() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.def.Name)
	}
	return names
}

// Definitions returns the registered templates in registration order.
func (r *Registry) Definitions() []*tabledef.TableDef {
	defs := make([]*tabledef.TableDef, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.def)
	}
	return defs
}

// Declared reports whether Declare has started binding tables.
func (r *Registry) Declared() bool {
	return r.declared
}

// Table returns a declared table by name.
func (r *Registry) Table(name string) (binding.Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Namespace returns a copy of the registry's lookup namespace.
func (r *Registry) Namespace() binding.Namespace {
	return r.namespace.Clone()
}
