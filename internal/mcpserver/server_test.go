package mcpserver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		items  []int
		offset int
		limit  int
		want   []int
	}{
		{"default limit returns all when under 200", items, 0, 0, []int{0, 1, 2, 3, 4}},
		{"explicit limit", items, 0, 2, []int{0, 1}},
		{"offset only", items, 2, 0, []int{2, 3, 4}},
		{"offset and limit", items, 1, 2, []int{1, 2}},
		{"offset at end", items, 4, 2, []int{4}},
		{"offset beyond end", items, 5, 2, nil},
		{"negative offset", items, -1, 2, nil},
		{"limit exceeds remaining", items, 3, 10, []int{3, 4}},
		{"nil slice", nil, 0, 2, nil},
		{"empty slice", []int{}, 0, 2, nil},
		{"negative limit treated as default", items, 0, -1, []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_OverflowLimit(t *testing.T) {
	items := []int{0, 1, 2}
	assert.Equal(t, []int{1, 2}, paginate(items, 1, math.MaxInt))
}

func TestPaginate_DefaultAndMaxLimit(t *testing.T) {
	items := make([]int, 1500)
	for i := range items {
		items[i] = i
	}
	assert.Len(t, paginate(items, 0, 0), cfg.TreeLimit)
	assert.Len(t, paginate(items, 0, 1500), cfg.MaxLimit, "limit should be capped at MaxLimit")
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error returns empty string", nil, ""},
		{"strips absolute path", fmt.Errorf("failed to open /home/user/secret/export.json: no such file"), "failed to open <path>: no such file"},
		{"preserves non-path content", errors.New("invalid JSON at line 5"), "invalid JSON at line 5"},
		{"strips multiple paths", fmt.Errorf("copy /tmp/a.json to /var/out/b.json failed"), "copy <path> to <path> failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	r := errResult(errors.New("reading /root/secret.json failed"))
	assert.True(t, r.IsError)
	assert.Len(t, r.Content, 1)
}

func TestGroupAndSort(t *testing.T) {
	items := []string{"b", "a", "b", "c", "a", "b"}
	got := groupAndSort(items, func(s string) []string { return []string{s} })
	assert.Equal(t, []groupCount{{"b", 3}, {"a", 2}, {"c", 1}}, got)

	assert.Empty(t, groupAndSort([]string{"x"}, func(string) []string { return nil }))
}

func TestValidateGroupBy(t *testing.T) {
	allowed := []string{"kind", "depth"}
	assert.NoError(t, validateGroupBy("", allowed))
	assert.NoError(t, validateGroupBy("KIND", allowed))
	err := validateGroupBy("tag", allowed)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kind, depth")
}
