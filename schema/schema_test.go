package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
)

func mustDecode(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := FromJSON([]byte(src))
	require.NoError(t, err)
	return s
}

func TestFromJSONKeepsPropertyOrder(t *testing.T) {
	s := mustDecode(t, `{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"integer"},"mid":{"type":"boolean"}}}`)
	require.True(t, s.HasProperties())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, s.Properties.Keys())
}

func TestFromJSONKeywords(t *testing.T) {
	s := mustDecode(t, `{
		"title": "User",
		"description": "a user",
		"type": ["string", "null"],
		"format": "email",
		"enum": ["a", "b", 3, true, null],
		"default": "a",
		"maxLength": 10,
		"x-apifox-orders": ["a"],
		"x-custom": {"k": 1}
	}`)
	assert.Equal(t, "User", s.Title)
	assert.Equal(t, "a user", s.Description)
	assert.Equal(t, TypeString, s.Type)
	assert.True(t, s.Nullable)
	assert.Equal(t, "email", s.Format)
	assert.Equal(t, []any{"a", "b", int64(3), true, nil}, s.Enum)
	assert.Equal(t, "a", s.Default)
	assert.Equal(t, []string{"maxLength"}, s.Extra.Keys())
	assert.Equal(t, []string{"x-apifox-orders", "x-custom"}, s.Extensions.Keys())
	custom, ok := s.Extension("x-custom")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"k": int64(1)}, custom)
}

func TestFromJSONItemsAndAdditional(t *testing.T) {
	s := mustDecode(t, `{"type":"array","items":{"type":"string"},"additionalProperties":false}`)
	require.NotNil(t, s.Items)
	assert.Equal(t, TypeString, s.Items.Type)
	assert.Nil(t, s.TupleItems)
	require.NotNil(t, s.AdditionalProperties)
	assert.False(t, s.AdditionalProperties.Allowed)

	tuple := mustDecode(t, `{"type":"array","items":[{"type":"string"},{"type":"number"}],"additionalProperties":{"type":"string"}}`)
	assert.Nil(t, tuple.Items)
	assert.Len(t, tuple.TupleItems, 2)
	require.NotNil(t, tuple.AdditionalProperties.Schema)
	assert.True(t, tuple.AdditionalProperties.Allowed)
}

func TestFromJSONRequiredBooleanIgnored(t *testing.T) {
	s := mustDecode(t, `{"type":"string","required":true}`)
	assert.Empty(t, s.Required)
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"properties not object", `{"properties":[1,2]}`},
		{"schema is array", `[1]`},
		{"enum not array", `{"enum":"a"}`},
		{"invalid json", `{"type":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, o2terrors.ErrParse))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, (*Schema)(nil).IsEmpty())
	assert.True(t, mustDecode(t, `{}`).IsEmpty())
	assert.False(t, mustDecode(t, `{"type":"string"}`).IsEmpty())
	assert.False(t, mustDecode(t, `{"properties":{}}`).IsEmpty())
}

func TestCloneIsDeep(t *testing.T) {
	s := mustDecode(t, `{"type":"object","required":["a"],"properties":{"a":{"type":"object","properties":{"b":{"type":"string"}}}}}`)
	c := s.Clone()

	a, _ := c.Properties.Get("a")
	a.Title = "Changed"
	a.Properties.Delete("b")
	c.Required[0] = "z"

	orig, _ := s.Properties.Get("a")
	assert.Empty(t, orig.Title)
	assert.True(t, orig.Properties.Has("b"))
	assert.Equal(t, []string{"a"}, s.Required)
}

func TestMarshalJSONOrdered(t *testing.T) {
	s := mustDecode(t, `{"properties":{"b":{"type":"string"},"a":{"type":"integer"}},"type":"object","required":["b"],"x-k":1}`)
	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","properties":{"b":{"type":"string"},"a":{"type":"integer"}},"required":["b"],"x-k":1}`,
		string(data))
}

func TestFingerprint(t *testing.T) {
	a := mustDecode(t, `{"type":"object","properties":{"x":{"type":"string"}}}`)
	b := mustDecode(t, "type: object\nproperties:\n  x:\n    type: string\n")
	c := mustDecode(t, `{"type":"object","properties":{"y":{"type":"string"}}}`)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
