// Package session bundles the session table templates. They expect the
// Subject table and a get_session_directory method to be supplied when the
// template is declared.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/schematemplate/internal/registry"
	"github.com/vk/schematemplate/internal/tabledef"
)

// Requirement names used by the session templates.
const (
	UpstreamSubject = "Subject"
	MethodDirectory = "get_session_directory"
	MethodNote      = "get_session_note"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Tables returns fresh copies of the session templates in declaration order.
func Tables() []*tabledef.TableDef {
	return []*tabledef.TableDef{
		tabledef.New("Session").
			WithComment("experimental session").
			WithDefinition("-> " + UpstreamSubject + "\nsession_datetime : datetime").
			Upstream(UpstreamSubject).
			Requires(MethodDirectory).
			Optional(MethodNote),
		tabledef.New("SessionDirectory").
			WithDefinition("-> Session\n---\nsession_dir : varchar(255)").
			Requires(MethodDirectory),
	}
}

// Register registers the session templates.
func (m *Module) Register(r *registry.Registry) error {
	for _, def := range Tables() {
		if _, err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// DirectoryResolver returns a get_session_directory implementation that
// places each session under root. It expects the session key as its only
// argument.
func DirectoryResolver(root string) tabledef.Method {
	return func(ctx context.Context, args ...any) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected a session key, got %d arguments", MethodDirectory, len(args))
		}
		key, ok := args[0].(string)
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%s: session key must be a non-empty string, got %v", MethodDirectory, args[0])
		}
		return filepath.Join(root, filepath.Clean("/"+key)), nil
	}
}
