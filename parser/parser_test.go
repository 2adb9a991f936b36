package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
)

const usersJSON = "../testdata/users-apifox.json"
const usersYAML = "../testdata/users-apifox.yaml"

func TestParseFileKeepsOrder(t *testing.T) {
	res, err := New().Parse(usersJSON)
	require.NoError(t, err)

	assert.Equal(t, usersJSON, res.SourcePath)
	assert.Equal(t, SourceFormatJSON, res.SourceFormat)
	assert.Equal(t, "User Service", res.Document.Info.Title)
	assert.Equal(t, "3.0.1", res.Document.OpenAPI)
	assert.Equal(t,
		[]string{"/users", "/users/{id}", "/user-profile/avatar", "/health"},
		res.Document.Paths.Keys())

	users, _ := res.Document.Paths.Get("/users")
	assert.Equal(t, []string{"get", "post"}, users.Operations.Keys())
	assert.NotEmpty(t, res.Raw)
	assert.Equal(t, int64(len(res.Raw)), res.SourceSize)
}

func TestParseOperationFields(t *testing.T) {
	res, err := New().Parse(usersJSON)
	require.NoError(t, err)

	users, _ := res.Document.Paths.Get("/users")
	list := users.Operation("get")
	require.NotNil(t, list)
	assert.Equal(t, StatusReleased, list.Status)
	assert.Equal(t, "List users", list.Summary)
	assert.Equal(t, []string{"users"}, list.Tags)
	assert.True(t, list.HasParameters())
	require.Len(t, list.Parameters, 3)

	var names []string
	for _, p := range list.QueryParameters() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"page", "keyword"}, names)

	folder, ok := list.Extensions.Get("x-apifox-folder")
	require.True(t, ok)
	assert.Equal(t, "users", folder)

	resp := list.ResponseSchema("200")
	require.NotNil(t, resp)
	assert.Equal(t, []string{"total", "list"}, resp.Properties.Keys())
	assert.Nil(t, list.RequestSchema())

	create := users.Operation("post")
	assert.True(t, create.HasParameters())
	assert.Empty(t, create.Parameters)
	body := create.RequestSchema()
	require.NotNil(t, body)
	assert.Equal(t, []string{"name"}, body.Required)

	byID, _ := res.Document.Paths.Get("/users/{id}")
	del := byID.Operation("delete")
	assert.False(t, del.HasParameters())
	assert.Nil(t, del.ResponseSchema("200"))

	user, ok := res.Document.Components.Schemas.Get("User")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "email"}, user.Properties.Keys())
}

func TestParseYAMLResolvesComponentRefs(t *testing.T) {
	res, err := New().Parse(usersYAML)
	require.NoError(t, err)
	assert.Equal(t, SourceFormatYAML, res.SourceFormat)
	assert.Equal(t, []string{"/users/{id}", "/users"}, res.Document.Paths.Keys())

	byID, _ := res.Document.Paths.Get("/users/{id}")
	get := byID.Operation("get")
	require.NotNil(t, get)

	var names []string
	for _, p := range get.QueryParameters() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"trace", "verbose"}, names)

	resp := get.ResponseSchema("200")
	require.NotNil(t, resp)
	assert.True(t, resp.Properties.Has("id"))

	users, _ := res.Document.Paths.Get("/users")
	body := users.Operation("post").RequestSchema()
	require.NotNil(t, body, "request body refs are inlined")
	assert.True(t, body.Properties.Has("name"))
	assert.Empty(t, res.Warnings)
}

func TestOnlyApplicationJSONIsConsulted(t *testing.T) {
	src := `{"paths":{"/a":{"get":{
		"requestBody":{"content":{"application/json; charset=utf-8":{"schema":{"type":"object"}}}},
		"responses":{"200":{"content":{
			"application/vnd.api+json":{"schema":{"type":"object","properties":{"id":{"type":"string"}}}},
			"text/plain":{"schema":{"type":"string"}}
		}}}
	}}}}`
	res, err := New().ParseBytes([]byte(src))
	require.NoError(t, err)

	a, _ := res.Document.Paths.Get("/a")
	get := a.Operation("get")
	assert.Nil(t, get.RequestSchema())
	assert.Nil(t, get.ResponseSchema("200"))
}

func TestParseUnresolvedRefWarns(t *testing.T) {
	src := `{"paths":{"/a":{"get":{"parameters":[{"$ref":"#/components/parameters/Missing"}],"responses":{"999":{"description":"x"}}}}}}`
	res, err := New().ParseBytes([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "ParseBytes.json", res.SourcePath)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "Missing")
	assert.Contains(t, res.Warnings[1], "999")

	a, _ := res.Document.Paths.Get("/a")
	assert.Empty(t, a.Operation("get").Parameters)
}

func TestParseReader(t *testing.T) {
	f, err := os.Open(usersYAML)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	res, err := New().ParseReader(f)
	require.NoError(t, err)
	assert.Equal(t, "ParseReader.yaml", res.SourcePath)
	assert.Equal(t, 2, res.Stats.PathCount)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"invalid", `{"paths":`, "invalid JSON or YAML"},
		{"empty", ``, "empty document"},
		{"root array", `[1,2]`, "document root must be an object"},
		{"paths array", `{"paths":[]}`, "paths must be an object"},
		{"parameters object", `{"paths":{"/a":{"get":{"parameters":{}}}}}`, "parameters must be an array"},
		{"bad schema", `{"paths":{"/a":{"post":{"requestBody":{"content":{"application/json":{"schema":{"properties":[]}}}}}}}}`, "properties must be an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ParseBytes([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, o2terrors.ErrParse))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().Parse("../testdata/does-not-exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParseMaxSize(t *testing.T) {
	p := New()
	p.MaxSize = 16
	_, err := p.Parse(usersJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, o2terrors.ErrParse))

	_, err = p.ParseReader(strings.NewReader(strings.Repeat(" ", 64)))
	require.Error(t, err)
}

func TestParseURL(t *testing.T) {
	data, err := os.ReadFile(usersJSON)
	require.NoError(t, err)

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/export" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	p := New()
	p.UserAgent = "o2t-test/1.0"
	res, err := p.ParseContext(context.Background(), srv.URL+"/export")
	require.NoError(t, err)
	assert.Equal(t, "o2t-test/1.0", gotUA)
	assert.Equal(t, SourceFormatJSON, res.SourceFormat)
	assert.Equal(t, 4, res.Stats.PathCount)

	_, err = p.Parse(srv.URL + "/missing")
	require.Error(t, err)
	var fe *o2terrors.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.True(t, errors.Is(err, o2terrors.ErrFetch))
}

func TestParseURLCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().ParseContext(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, o2terrors.ErrFetch))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDocumentStats(t *testing.T) {
	res, err := New().Parse(usersJSON)
	require.NoError(t, err)

	stats := res.Stats
	assert.Equal(t, 4, stats.PathCount)
	assert.Equal(t, 7, stats.OperationCount)
	assert.Equal(t, 1, stats.SchemaCount)
	assert.Equal(t, 3, stats.ByMethod["get"])
	assert.Equal(t, 1, stats.ByMethod["patch"])
	assert.Equal(t, 3, stats.ByStatus[StatusReleased])
	assert.Equal(t, 1, stats.ByStatus[""])
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{-1, "-1 B"},
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in))
	}
}

func TestDetectFormatFromURL(t *testing.T) {
	assert.Equal(t, SourceFormatYAML, detectFormatFromURL("https://x/api.yml", ""))
	assert.Equal(t, SourceFormatJSON, detectFormatFromURL("https://x/export", "application/json; charset=utf-8"))
	assert.Equal(t, SourceFormatYAML, detectFormatFromURL("https://x/export", "text/yaml"))
	assert.Equal(t, SourceFormatUnknown, detectFormatFromURL("https://x/export", "text/plain"))
}
