package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/schematemplate/internal/ctxlog"
	"github.com/vk/schematemplate/internal/manifest"
	"github.com/vk/schematemplate/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
}

// NewApp builds an App with its own logger and registry. Command output goes
// to outW and logs to logW. The bundled modules are registered first, unless
// modules overrides them, followed by the tables of every manifest path.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if modules == nil {
		modules = coreModules
	}
	if err := reg.RegisterModules(modules...); err != nil {
		return nil, err
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	defs, err := manifest.Load(ctx, cfg.ManifestPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifests: %w", err)
	}
	for _, def := range defs {
		if _, err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("failed to register manifest table: %w", err)
		}
	}
	logger.Debug("Manifest tables registered.", "count", len(defs))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
