package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematemplate/internal/app"
	"github.com/vk/schematemplate/internal/registry"
	"github.com/vk/schematemplate/internal/requirements"
	"github.com/vk/schematemplate/internal/testutil"
)

const probeManifest = `
table "Probe" {
  definition = <<-EOT
    -> Session
    probe : varchar(32)
  EOT
  upstream "Session" {}
  optional "get_probe_geometry" {}
}
`

func TestDescribe_ListsTablesAndRequirements(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"probe.hcl": probeManifest})

	res := testutil.RunApp(t, app.Config{Command: app.CommandDescribe, ManifestPaths: []string{root}}, nil)

	require.NoError(t, res.Err)
	assert.Contains(t, res.Output, "Session (manual)\n  upstream table: Subject\n  required method: get_session_directory\n  optional method: get_session_note\n")
	assert.Contains(t, res.Output, "Probe (manual)\n  upstream table: Session\n  optional method: get_probe_geometry\n")
	assert.Contains(t, res.Output, "Keys for upstream tables: [Subject Session]")
	assert.Contains(t, res.Output, "Keys for optional methods: [get_session_note get_probe_geometry]")
}

func TestDeclare_WithoutCatalog(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"probe.hcl": probeManifest})

	res := testutil.RunApp(t, app.Config{Command: app.CommandDeclare, ManifestPaths: []string{root}, DataRoot: "/data"}, nil)

	require.NoError(t, res.Err)
	assert.Equal(t, "declared test.Lab\ndeclared test.Species\ndeclared test.Subject\ndeclared test.Session\ndeclared test.SessionDirectory\ndeclared test.Probe\n", res.Output)
	assert.Contains(t, res.LogOutput, "Initializing table.")
	assert.True(t, res.App.Registry().Declared())
}

func TestDeclare_MissingUpstreamIsReported(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"probe.hcl": probeManifest})

	res := testutil.RunApp(t, app.Config{Command: app.CommandDeclare, ManifestPaths: []string{root}}, []registry.Module{})

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, requirements.ErrMissingDependency)
	assert.Contains(t, res.Err.Error(), "requiring upstream table: Session")
}

func TestDeclare_CatalogFeedsLaterRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	first := testutil.RunApp(t, app.Config{Command: app.CommandDeclare, DBPath: dbPath}, nil)
	require.NoError(t, first.Err)

	// A second run registers only the probe manifest; Session comes from the
	// catalog written by the first run.
	root := testutil.WriteFiles(t, map[string]string{"probe.hcl": probeManifest})
	second := testutil.RunApp(t, app.Config{Command: app.CommandDeclare, DBPath: dbPath, ManifestPaths: []string{root}}, []registry.Module{})
	require.NoError(t, second.Err)
	assert.Equal(t, "declared test.Probe\n", second.Output)

	list := testutil.RunApp(t, app.Config{Command: app.CommandList, DBPath: dbPath}, []registry.Module{})
	require.NoError(t, list.Err)
	assert.Contains(t, list.Output, "Subject\tsubject\tmanual\tLab,Species\n")
	assert.Contains(t, list.Output, "Species\t#species\tlookup\t\n")
	assert.Contains(t, list.Output, "Probe\tprobe\tmanual\tSession\n")
}

func TestList_EmptySchemaWarns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	res := testutil.RunApp(t, app.Config{Command: app.CommandList, DBPath: dbPath, Schema: "empty"}, []registry.Module{})

	require.NoError(t, res.Err)
	assert.Empty(t, res.Output)
	assert.Contains(t, res.LogOutput, "No tables recorded for schema.")
}

func TestNewApp_DuplicateManifestTable(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"dup.hcl": `table "Subject" {}`})

	res := testutil.RunApp(t, app.Config{Command: app.CommandDescribe, ManifestPaths: []string{root}}, nil)

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, registry.ErrDuplicateRegistration)
	assert.Nil(t, res.App)
}

func TestNewConfig(t *testing.T) {
	_, err := app.NewConfig(app.Config{Schema: "s"})
	assert.Error(t, err)
	_, err = app.NewConfig(app.Config{Command: "drop", Schema: "s"})
	assert.Error(t, err)
	_, err = app.NewConfig(app.Config{Command: app.CommandList, Schema: "s"})
	assert.Error(t, err)
	_, err = app.NewConfig(app.Config{Command: app.CommandDescribe})
	assert.Error(t, err)

	cfg, err := app.NewConfig(app.Config{Command: app.CommandDeclare, Schema: "s"})
	require.NoError(t, err)
	assert.Equal(t, "s", cfg.Schema)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SCHEMATEMPLATE_SCHEMA", "ephys")
	t.Setenv("SCHEMATEMPLATE_LOG_LEVEL", "debug")

	cfg, err := app.ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ephys", cfg.Schema)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ".", cfg.DataRoot)
}
