package orderedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := New[string, int](0)
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	assert.Equal(t, []int{1, 2, 3}, m.Values())
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := New[string, int](0)
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestMap_Delete(t *testing.T) {
	m := New[string, int](0)
	for i, k := range []string{"a", "b", "c", "d"} {
		m.Set(k, i)
	}
	m.Delete("b")
	m.Delete("missing")

	assert.Equal(t, []string{"a", "c", "d"}, m.Keys())
	v, ok := m.Get("d")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, m.Has("b"))
}

func TestMap_All(t *testing.T) {
	m := New[string, int](0)
	m.Set("x", 1)
	m.Set("y", 2)
	m.Set("z", 3)

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		if k == "y" {
			break
		}
	}
	assert.Equal(t, []string{"x", "y"}, seen)
}

func TestMap_NilSafe(t *testing.T) {
	var m *Map[string, int]

	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	assert.False(t, m.Has("a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
	for range m.All() {
		t.Fatal("nil map should not yield")
	}
}
