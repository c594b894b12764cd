package tabledef

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDef_DeduplicatesRequirements(t *testing.T) {
	def := New("Session").
		Upstream("Subject", "Subject").
		Requires("get_session_directory").
		Upstream("Subject").
		Optional("get_session_note")

	assert.Equal(t, []string{"Subject"}, def.Names(KindUpstream))
	assert.Equal(t, []string{"get_session_directory"}, def.Names(KindRequired))
	assert.Equal(t, []string{"get_session_note"}, def.Names(KindOptional))
	assert.Len(t, def.Requirements(), 3)
	require.NoError(t, def.Validate())
}

func TestTableDef_ValidateRejectsConflictingKinds(t *testing.T) {
	def := New("Session").Requires("get_path").Optional("get_path")

	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"get_path" declared as both required method and optional method`)
}

func TestTableDef_ValidateStructure(t *testing.T) {
	testCases := []struct {
		name    string
		def     *TableDef
		wantErr string
	}{
		{name: "bad name", def: New("my table"), wantErr: "invalid table name"},
		{name: "unknown tier", def: New("Subject").WithTier("part"), wantErr: `unknown tier "part"`},
		{name: "contents on manual", def: New("Subject").WithContents([]string{"a"}), wantErr: "contents are only allowed"},
		{name: "empty requirement", def: New("Subject").Upstream(""), wantErr: "empty upstream table name"},
		{name: "lookup with contents", def: New("Species").WithTier(TierLookup).WithContents([]string{"mouse"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestTableDef_StorageName(t *testing.T) {
	assert.Equal(t, "session", New("Session").StorageName())
	assert.Equal(t, "#session_type", New("SessionType").WithTier(TierLookup).StorageName())
	assert.Equal(t, "_ephys_recording", New("EphysRecording").WithTier(TierImported).StorageName())
	assert.Equal(t, "__lfp2_spectrum", New("Lfp2Spectrum").WithTier(TierComputed).StorageName())
}

func TestUnimplemented_AlwaysFails(t *testing.T) {
	stub := Unimplemented("get_session_note")

	for i := 0; i < 3; i++ {
		out, err := stub(context.Background(), i)
		assert.Nil(t, out)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotImplemented))
		assert.Contains(t, err.Error(), "get_session_note")
	}
}

func TestBound_KeepsOnlyDeclaredDependencies(t *testing.T) {
	def := New("Session").Upstream("Subject").Requires("get_path")
	getPath := Method(func(_ context.Context, args ...any) (any, error) {
		return "/data/" + args[0].(string), nil
	})

	b := NewBound(def, map[string]any{
		"Subject":   "subject-table",
		"get_path":  getPath,
		"Unrelated": 42,
	})

	deps := b.Dependencies()
	assert.Len(t, deps, 2)
	assert.Equal(t, "subject-table", deps["Subject"])
	assert.Contains(t, deps, "get_path")
	_, ok := b.Dependency("Unrelated")
	assert.False(t, ok)

	out, err := b.Call(context.Background(), "get_path", "s1")
	require.NoError(t, err)
	assert.Equal(t, "/data/s1", out)
}

func TestBound_CallErrors(t *testing.T) {
	def := New("Session").Requires("count", "get_path")
	b := NewBound(def, map[string]any{"count": func() int { return 1 }})

	_, err := b.Call(context.Background(), "get_path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `has no method "get_path"`)

	_, err = b.Call(context.Background(), "count")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be called directly")
}
