package memschema

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/schematemplate/internal/binding"
	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Table is a table bound into a Schema.
type Table struct {
	schema  string
	bound   *tabledef.Bound
	parents []string
}

// TableName implements binding.Table.
func (t *Table) TableName() string { return t.bound.Def.Name }

// Schema returns the owning schema's name.
func (t *Table) Schema() string { return t.schema }

// Tier returns the table tier.
func (t *Table) Tier() tabledef.Tier { return t.bound.Def.Tier }

// StorageName returns the physical table name.
func (t *Table) StorageName() string { return t.bound.Def.StorageName() }

// Parents returns the names of the tables referenced by foreign keys, in
// definition order.
func (t *Table) Parents() []string {
	out := make([]string, len(t.parents))
	copy(out, t.parents)
	return out
}

// Bound returns the template and the dependencies injected into it.
func (t *Table) Bound() *tabledef.Bound { return t.bound }

// Contents returns the fixed rows of a lookup table.
func (t *Table) Contents() [][]string { return t.bound.Def.Contents }

// Schema is an in-memory schema binder.
type Schema struct {
	name string

	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
}

// New creates an empty schema.
func New(name string) *Schema {
	return &Schema{
		name:   name,
		tables: make(map[string]*Table),
	}
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Bind implements binding.Binder.
func (s *Schema) Bind(ctx context.Context, b *tabledef.Bound, ns binding.Namespace) (binding.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b == nil || b.Def == nil {
		return nil, fmt.Errorf("schema %q: nothing to bind", s.name)
	}
	logger := ctxlog.FromContext(ctx)
	name := b.Def.Name

	refs := ForeignKeys(b.Def.Definition)
	parents := make([]string, 0, len(refs))
	for _, ref := range refs {
		v, ok := ns.Lookup(ref)
		if !ok {
			return nil, fmt.Errorf("table %q: foreign key reference %q is not in the namespace", name, ref)
		}
		parent, ok := v.(binding.Table)
		if !ok {
			return nil, fmt.Errorf("table %q: foreign key reference %q is a %T, not a table", name, ref, v)
		}
		parents = append(parents, parent.TableName())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[name]; exists {
		return nil, fmt.Errorf("table %q already exists in schema %q", name, s.name)
	}
	t := &Table{schema: s.name, bound: b, parents: parents}
	s.tables[name] = t
	s.order = append(s.order, name)

	logger.Debug("Bound table into memory schema.", "schema", s.name, "table", name, "parents", parents)
	return t, nil
}

// Table returns a bound table by name.
func (s *Schema) Table(name string) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	return t, ok
}

// Drop removes a bound table. It reports whether the table existed.
func (s *Schema) Drop(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; !ok {
		return false
	}
	delete(s.tables, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Tables returns every bound table in bind order.
func (s *Schema) Tables() []*Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out
}

// ForeignKeys returns the references named by "->" lines of a definition.
// An option list in brackets before the name is skipped.
func ForeignKeys(definition string) []string {
	var refs []string
	for _, line := range strings.Split(definition, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "->") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "->"))
		if strings.HasPrefix(line, "[") {
			if end := strings.Index(line, "]"); end >= 0 {
				line = strings.TrimSpace(line[end+1:])
			}
		}
		// Drop a trailing projection or comment.
		if i := strings.IndexAny(line, " \t(#"); i >= 0 {
			line = line[:i]
		}
		if line != "" {
			refs = append(refs, line)
		}
	}
	return refs
}
