package schema

import (
	"testing"

	"github.com/forattini-dev/s3db/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyticsSchema(t *testing.T) *RecordSchema {
	t.Helper()
	s, err := New(Config{
		Resource: "analytics",
		Version:  1,
		Attributes: []Definition{
			{Name: "event", Type: "string|required"},
			{Name: "region", Type: "string|required"},
			{Name: "count", Type: "int"},
			{Name: "note", Type: "string"},
		},
		Partitions: []PartitionDefinition{
			{Name: "byEventAndRegion", Fields: []string{"event", "region"}},
		},
		Behavior: BehaviorEnforceLimits,
	})
	require.NoError(t, err)
	return s
}

func TestNew_CompilesTagsOnce(t *testing.T) {
	s := analyticsSchema(t)

	event, ok := s.Attribute("event")
	require.True(t, ok)
	assert.Equal(t, codec.VariantString, event.Codec.Variant)
	assert.True(t, event.Rules.Required)

	count, ok := s.Attribute("count")
	require.True(t, ok)
	assert.Equal(t, codec.VariantInt, count.Codec.Variant)
	assert.False(t, count.Rules.Required)
}

func TestNew_InjectsIDAttribute(t *testing.T) {
	s := analyticsSchema(t)

	id, ok := s.Attribute(IDField)
	require.True(t, ok)
	assert.True(t, id.Rules.Required)
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(Config{Resource: "", Version: 1})
	assert.Error(t, err)

	_, err = New(Config{Resource: "r", Version: 0})
	assert.Error(t, err)

	_, err = New(Config{Resource: "r", Version: 1, Behavior: "whatever"})
	assert.Error(t, err)

	_, err = New(Config{Resource: "r", Version: 1, Attributes: []Definition{
		{Name: "a", Type: "string"}, {Name: "a", Type: "int"},
	}})
	assert.Error(t, err, "duplicate attribute")

	_, err = New(Config{Resource: "r", Version: 1, Attributes: []Definition{
		{Name: VersionKey, Type: "string"},
	}})
	assert.Error(t, err, "reserved attribute name")

	_, err = New(Config{Resource: "r", Version: 1, Attributes: []Definition{
		{Name: "a", Type: "string|min:x"},
	}})
	assert.Error(t, err, "invalid rule")

	_, err = New(Config{Resource: "r", Version: 1, Attributes: []Definition{
		{Name: "v", Type: "embedding"},
	}})
	assert.Error(t, err, "embedding without dimension")
}

func TestParseAttribute_TypeParameters(t *testing.T) {
	spec, err := ParseAttribute("price", "decimal:2|min:0")
	require.NoError(t, err)
	assert.Equal(t, codec.VariantDecimal, spec.Codec.Variant)
	assert.Equal(t, 2, spec.Codec.Precision)

	spec, err = ParseAttribute("vec", "embedding:384")
	require.NoError(t, err)
	assert.Equal(t, codec.VariantEmbedding, spec.Codec.Variant)
	assert.Equal(t, 384, spec.Codec.Dimensions)
}

func TestSecretAttributesInheritPassphrase(t *testing.T) {
	s, err := New(Config{
		Resource:   "users",
		Version:    1,
		Attributes: []Definition{{Name: "apiKey", Type: "secret"}},
		Passphrase: "hunter2",
		Iterations: 1000,
	})
	require.NoError(t, err)

	a, ok := s.Attribute("apiKey")
	require.True(t, ok)
	assert.Equal(t, "hunter2", a.Codec.Passphrase)
	assert.Equal(t, 1000, a.Codec.Iterations)
}

func TestValidateRecord(t *testing.T) {
	s := analyticsSchema(t)

	err := s.ValidateRecord(map[string]any{"event": "click", "region": "US"})
	assert.NoError(t, err)

	err = s.ValidateRecord(map[string]any{"event": "click"})
	var valErr *codec.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "region", valErr.Field)

	err = s.ValidateRecord(map[string]any{"event": "click", "region": "US", "bogus": 1})
	assert.ErrorAs(t, err, &valErr, "undeclared field must be rejected")
}

func TestValidateRecord_Rules(t *testing.T) {
	s, err := New(Config{
		Resource: "users",
		Version:  1,
		Attributes: []Definition{
			{Name: "name", Type: "string|required|min:2|max:10"},
			{Name: "age", Type: "int|min:0|max:150"},
		},
	})
	require.NoError(t, err)

	assert.NoError(t, s.ValidateRecord(map[string]any{"name": "bo", "age": 30}))
	assert.Error(t, s.ValidateRecord(map[string]any{"name": "b"}))
	assert.Error(t, s.ValidateRecord(map[string]any{"name": "far too long a name"}))
	assert.Error(t, s.ValidateRecord(map[string]any{"name": "bo", "age": -1}))
	assert.Error(t, s.ValidateRecord(map[string]any{"name": "bo", "age": 200}))
}

func TestOrphanedPartitionLifecycle(t *testing.T) {
	v2, err := New(Config{
		Resource: "analytics",
		Version:  2,
		Attributes: []Definition{
			{Name: "event", Type: "string|required"},
			// "region" removed in this version
		},
		Partitions: []PartitionDefinition{
			{Name: "byEvent", Fields: []string{"event"}},
			{Name: "byEventAndRegion", Fields: []string{"event", "region"}},
		},
	})
	require.NoError(t, err)

	orphaned := v2.FindOrphanedPartitions()
	assert.Equal(t, []string{"byEventAndRegion"}, orphaned)

	stripped := v2.RemoveOrphanedPartitions()
	assert.Empty(t, stripped.FindOrphanedPartitions())
	require.Len(t, stripped.Partitions, 1)
	assert.Equal(t, "byEvent", stripped.Partitions[0].Name)

	// The receiver is untouched.
	assert.Len(t, v2.Partitions, 2)
}

func TestTruncatable(t *testing.T) {
	cases := map[string]bool{
		"string":          true,
		"json":            true,
		"string|required": false,
		"secret":          false,
		"embedding:8":     false,
		"int":             false,
		"ts":              false,
	}
	for tag, want := range cases {
		spec, err := ParseAttribute("f", tag)
		require.NoError(t, err)
		assert.Equal(t, want, spec.Truncatable(), "tag %q", tag)
	}
}

func TestRegistry_VersionDispatch(t *testing.T) {
	v1 := analyticsSchema(t)
	v2, err := New(Config{
		Resource:   "analytics",
		Version:    2,
		Attributes: []Definition{{Name: "event", Type: "string|required"}},
	})
	require.NoError(t, err)

	reg, err := NewRegistry(v1, v2)
	require.NoError(t, err)

	assert.Equal(t, v2, reg.Latest())
	assert.Equal(t, []int{1, 2}, reg.Versions())

	got, ok := reg.Version(1)
	require.True(t, ok)
	assert.Equal(t, v1, got)

	// Version 0 means "written before versioning": oldest snapshot.
	got, ok = reg.Version(0)
	require.True(t, ok)
	assert.Equal(t, v1, got)

	_, ok = reg.Version(9)
	assert.False(t, ok)
}

func TestRegistry_Invariants(t *testing.T) {
	v1 := analyticsSchema(t)

	_, err := NewRegistry()
	assert.Error(t, err)

	_, err = NewRegistry(v1, v1)
	assert.Error(t, err, "duplicate version")

	other, err := New(Config{Resource: "users", Version: 1})
	require.NoError(t, err)
	_, err = NewRegistry(v1, other)
	assert.Error(t, err, "mixed resources")

	v3, err := New(Config{Resource: "analytics", Version: 3})
	require.NoError(t, err)
	reg, err := NewRegistry(v1)
	require.NoError(t, err)
	reg2, err := reg.With(v3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reg.Versions(), "With must not mutate the receiver")
	assert.Equal(t, []int{1, 3}, reg2.Versions())
}
