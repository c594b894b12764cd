package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/schematemplate/internal/binding"
	"github.com/vk/schematemplate/internal/catalog"
	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/memschema"
	"github.com/vk/schematemplate/internal/requirements"
	"github.com/vk/schematemplate/internal/tabledef"
	"github.com/vk/schematemplate/modules/session"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	switch a.config.Command {
	case CommandDescribe:
		return a.describe()
	case CommandDeclare:
		return a.declare(ctx)
	case CommandList:
		return a.list(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}

func (a *App) describe() error {
	for _, def := range a.registry.Definitions() {
		fmt.Fprintf(a.outW, "%s (%s)\n", def.Name, def.Tier)
		for _, kind := range []tabledef.Kind{tabledef.KindUpstream, tabledef.KindRequired, tabledef.KindOptional} {
			if names := def.Names(kind); len(names) > 0 {
				fmt.Fprintf(a.outW, "  %s: %s\n", kind, strings.Join(names, ", "))
			}
		}
	}
	fmt.Fprintln(a.outW)
	fmt.Fprintln(a.outW, a.registry.Describe())
	return nil
}

func (a *App) declare(ctx context.Context) error {
	var binder binding.Binder = memschema.New(a.config.Schema)
	deps := requirements.Dependencies{
		session.MethodDirectory: session.DirectoryResolver(a.config.DataRoot),
	}
	ns := binding.Namespace{}

	if a.config.DBPath != "" {
		store, err := catalog.Open(ctx, a.config.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		known, err := store.ListTables(ctx, a.config.Schema)
		if err != nil {
			return err
		}
		// Tables from earlier runs can satisfy upstream requirements, but a
		// template registered here always replaces its old record.
		for _, rec := range known {
			if _, ok := deps[rec.Name]; ok || a.registered(rec.Name) {
				continue
			}
			deps[rec.Name] = rec
			ns[rec.Name] = rec
		}
		a.logger.Debug("Loaded catalog tables.", "schema", a.config.Schema, "count", len(known))
		binder = catalog.NewBinder(binder, store, a.config.Schema)
	}

	tables, err := a.registry.Declare(ctx, binder, deps, ns)
	if err != nil {
		return fmt.Errorf("declaration failed: %w", err)
	}

	for _, name := range a.registry.ListTables() {
		if _, ok := tables[name]; ok {
			fmt.Fprintf(a.outW, "declared %s.%s\n", a.config.Schema, name)
		}
	}
	a.logger.Info("Declaration finished.", "schema", a.config.Schema, "tables", len(tables))
	return nil
}

func (a *App) list(ctx context.Context) error {
	store, err := catalog.Open(ctx, a.config.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.ListTables(ctx, a.config.Schema)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		a.logger.Warn("No tables recorded for schema.", "schema", a.config.Schema)
		return nil
	}
	for _, rec := range recs {
		fmt.Fprintf(a.outW, "%s\t%s\t%s\t%s\n", rec.Name, rec.StorageName, rec.Tier, strings.Join(rec.Parents, ","))
	}
	return nil
}

func (a *App) registered(name string) bool {
	for _, n := range a.registry.ListTables() {
		if n == name {
			return true
		}
	}
	return false
}
