// Package testutil provides helpers shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/schematemplate/internal/app"
	"github.com/vk/schematemplate/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of one application run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteFiles writes files, keyed by slash-separated relative path, under a
// fresh temporary directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

// RunApp builds an App from cfg and runs it. A nil modules slice uses the
// bundled modules; pass an empty slice for none. Construction errors are
// reported in Err with a nil App.
func RunApp(t *testing.T, cfg app.Config, modules []registry.Module) *HarnessResult {
	t.Helper()
	if cfg.Schema == "" {
		cfg.Schema = "test"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	a, err := app.NewApp(out, logs, &cfg, modules...)
	if err != nil {
		return &HarnessResult{Err: err, LogOutput: logs.String()}
	}
	err = a.Run(context.Background())
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       err,
		App:       a,
	}
}
