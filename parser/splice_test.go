package parser

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
)

const splicePrevious = `openapi: 3.0.1
info: {title: Shop, version: "1"}
paths:
  /a:
    get: {summary: a-old}
  /b:
    get: {summary: b-old}
  /c:
    get: {summary: c-old}
components:
  schemas:
    Old: {type: string}
    Shared: {type: string, description: old}
  parameters:
    Page: {name: page, in: query}
`

const spliceNewest = `{
  "openapi": "3.0.1",
  "info": {"title": "Shop <v2>", "version": "2"},
  "paths": {
    "/d": {"get": {"summary": "d-new"}},
    "/b": {"get": {"summary": "b-new"}},
    "/a": {"get": {"summary": "a-new"}},
    "/e": {"get": {"summary": "e-new"}}
  },
  "components": {"schemas": {"Shared": {"type": "string", "description": "new"}, "Renamed": {"type": "integer"}}}
}`

func summaries(t *testing.T, doc *Document) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for route, item := range doc.Paths.All() {
		out[route] = item.Operation("get").Summary
	}
	return out
}

func TestSpliceExports(t *testing.T) {
	out, err := SpliceExports([]byte(splicePrevious), []byte(spliceNewest), []string{"/b", "/e", "/c"})
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
	assert.Contains(t, string(out), `"title": "Shop <v2>"`, "top-level keys come from the newest export, unescaped")

	res, err := ParseWithOptions(WithBytes(out))
	require.NoError(t, err)
	doc := res.Document

	assert.Equal(t, []string{"/a", "/b", "/c", "/e"}, doc.Paths.Keys())
	assert.Equal(t, map[string]string{
		"/a": "a-old",
		"/b": "b-new",
		"/c": "c-old",
		"/e": "e-new",
	}, summaries(t, doc))

	assert.Equal(t, []string{"Old", "Shared", "Renamed"}, doc.Components.Schemas.Keys())
	shared, _ := doc.Components.Schemas.Get("Shared")
	assert.Equal(t, "new", shared.Description)
	assert.Contains(t, string(out), `"parameters"`)
}

func TestSpliceExportsWithoutRoutesKeepsPrevious(t *testing.T) {
	out, err := SpliceExports([]byte(splicePrevious), []byte(spliceNewest), nil)
	require.NoError(t, err)

	res, err := ParseWithOptions(WithBytes(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, res.Document.Paths.Keys())
	assert.Equal(t, "a-old", summaries(t, res.Document)["/a"])
}

func TestSpliceExportsNewestWithoutPaths(t *testing.T) {
	out, err := SpliceExports([]byte(splicePrevious), []byte(`{"openapi": "3.0.1"}`), []string{"/a"})
	require.NoError(t, err)

	res, err := ParseWithOptions(WithBytes(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b", "/c"}, res.Document.Paths.Keys())
	assert.Equal(t, []string{"Old", "Shared"}, res.Document.Components.Schemas.Keys())
}

func TestSpliceExportsErrors(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		newest   string
	}{
		{name: "invalid previous", previous: "{", newest: spliceNewest},
		{name: "scalar newest", previous: splicePrevious, newest: `"text"`},
		{name: "empty newest", previous: splicePrevious, newest: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SpliceExports([]byte(tt.previous), []byte(tt.newest), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, o2terrors.ErrParse))
		})
	}
}
