package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/schematemplate/internal/binding"
	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Binder records every table bound by the wrapped binder.
type Binder struct {
	next   binding.Binder
	store  *Store
	schema string
	now    func() time.Time
}

// NewBinder wraps next so that each bound table is recorded under schema.
func NewBinder(next binding.Binder, store *Store, schema string) *Binder {
	return &Binder{next: next, store: store, schema: schema, now: time.Now}
}

// dropper is implemented by binders that can undo a bind.
type dropper interface {
	Drop(name string) bool
}

// Bind implements binding.Binder. A failure to record fails the bind, and
// the table is dropped from the wrapped binder when it supports Drop.
func (b *Binder) Bind(ctx context.Context, bound *tabledef.Bound, ns binding.Namespace) (binding.Table, error) {
	table, err := b.next.Bind(ctx, bound, ns)
	if err != nil {
		return nil, err
	}

	rec := Record{
		Schema:      b.schema,
		Name:        table.TableName(),
		StorageName: bound.Def.StorageName(),
		Tier:        string(bound.Def.Tier),
		Definition:  bound.Def.Definition,
		DeclaredAt:  b.now(),
	}
	if p, ok := table.(interface{ Parents() []string }); ok {
		rec.Parents = p.Parents()
	}
	if err := b.store.Record(ctx, rec); err != nil {
		if d, ok := b.next.(dropper); ok {
			d.Drop(rec.Name)
		}
		return nil, fmt.Errorf("catalog: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("Recorded table in catalog.", "schema", b.schema, "table", rec.Name)
	return table, nil
}
