package requirements

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematemplate/internal/tabledef"
)

func getPath(context.Context, ...any) (any, error) { return "/data", nil }

func TestDescribe(t *testing.T) {
	assert.Equal(t, "No required upstream tables or methods.", Requirements{}.Describe())

	r := Requirements{
		Tables:   []string{"Subject", "Session"},
		Methods:  []string{"get_path"},
		Optional: []string{"get_note"},
	}
	want := "dependencies need to be a mapping with:" +
		"\n\tKeys for upstream tables: [Subject Session]" +
		"\n\tKeys for required methods: [get_path]" +
		"\n\tKeys for optional methods: [get_note]"
	assert.Equal(t, want, r.Describe())

	assert.Equal(t, "dependencies need to be a mapping with:\n\tKeys for required methods: [get_path]",
		Requirements{Methods: []string{"get_path"}}.Describe())
}

func TestCheck_MissingTable(t *testing.T) {
	r := Requirements{Tables: []string{"Subject", "Probe"}}

	_, err := r.Check(Dependencies{"Subject": "table"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependency))
	var missing *MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Probe", missing.Name)
	assert.Equal(t, tabledef.KindUpstream, missing.Kind)
	assert.Equal(t, "requiring upstream table: Probe", err.Error())
}

func TestCheck_EmptyMappingCarriesDescription(t *testing.T) {
	r := Requirements{Tables: []string{"Subject"}}

	for _, deps := range []Dependencies{nil, {}} {
		_, err := r.Check(deps)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingDependency))
		assert.Contains(t, err.Error(), "Keys for upstream tables: [Subject]")
	}
}

func TestCheck_NoRequirementsAcceptsNil(t *testing.T) {
	checked, err := Requirements{}.Check(nil)
	require.NoError(t, err)
	assert.Empty(t, checked)
}

func TestCheck_MethodMustBeFunction(t *testing.T) {
	r := Requirements{Methods: []string{"get_path"}}
	var nilFunc func()

	testCases := []struct {
		name  string
		value any
	}{
		{name: "string", value: "/data"},
		{name: "int", value: 3},
		{name: "nil", value: nil},
		{name: "typed nil func", value: nilFunc},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Check(Dependencies{"get_path": tc.value})
			require.Error(t, err)
			var missing *MissingDependencyError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, "get_path", missing.Name)
			assert.Equal(t, tabledef.KindRequired, missing.Kind)
		})
	}
}

func TestCheck_AcceptsAnyFunctionShape(t *testing.T) {
	r := Requirements{Methods: []string{"a", "b", "c"}}
	deps := Dependencies{
		"a": getPath,
		"b": func(s string) string { return s },
		"c": tabledef.Method(getPath),
	}

	checked, err := r.Check(deps)
	require.NoError(t, err)
	assert.Len(t, checked, 3)
}

func TestCheck_FiltersUnrelatedKeys(t *testing.T) {
	r := Requirements{Tables: []string{"Subject"}, Methods: []string{"get_path"}}
	deps := Dependencies{"Subject": "subject", "get_path": getPath, "Extra": 1, "other": getPath}

	checked, err := r.Check(deps)
	require.NoError(t, err)
	assert.Len(t, checked, 2)
	assert.Equal(t, "subject", checked["Subject"])
	assert.NotContains(t, checked, "Extra")
	assert.NotContains(t, checked, "other")
	assert.Len(t, deps, 4, "input mapping must not be modified")
}

func TestCheck_EmptyMappingWithOnlyOptionalMethods(t *testing.T) {
	r := Requirements{Optional: []string{"get_note", "get_geometry"}}

	for _, deps := range []Dependencies{nil, {}} {
		checked, err := r.Check(deps)
		require.NoError(t, err)
		assert.Len(t, checked, 2)
	}

	// A single required method restores the empty-mapping failure.
	r.Methods = []string{"get_path"}
	_, err := r.Check(Dependencies{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Keys for optional methods: [get_note get_geometry]")
}

func TestCheck_OptionalMethods(t *testing.T) {
	r := Requirements{Optional: []string{"get_note"}}

	checked, err := r.Check(nil)
	require.NoError(t, err)
	stub, ok := checked["get_note"].(tabledef.Method)
	require.True(t, ok)
	_, err = stub(context.Background())
	assert.True(t, errors.Is(err, tabledef.ErrNotImplemented))

	checked, err = r.Check(Dependencies{"get_note": getPath})
	require.NoError(t, err)
	out, err := checked["get_note"].(func(context.Context, ...any) (any, error))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/data", out)

	_, err = r.Check(Dependencies{"get_note": "not a func"})
	var missing *MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, tabledef.KindOptional, missing.Kind)
}

func TestCheck_SatisfiedBy(t *testing.T) {
	r := Requirements{Tables: []string{"Subject", "Probe"}}

	checked, err := r.Check(Dependencies{"Probe": "probe"}, SatisfiedBy("Subject"))
	require.NoError(t, err)
	assert.Equal(t, Dependencies{"Probe": "probe"}, checked)

	checked, err = r.Check(nil, SatisfiedBy("Subject", "Probe"))
	require.NoError(t, err)
	assert.Empty(t, checked)

	checked, err = r.Check(Dependencies{"Subject": "explicit", "Probe": "probe"}, SatisfiedBy("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "explicit", checked["Subject"])
}
