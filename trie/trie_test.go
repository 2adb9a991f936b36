package trie

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/seed"
	"github.com/erraggy/o2t/schema"
)

func mk(method, route string) seed.Seed {
	return seed.Seed{
		Path:         seed.Path(method, route),
		OriginalPath: route,
		Content: seed.Content{
			Method:   method,
			Response: &schema.Schema{Title: "Response", Description: method + " " + route},
		},
	}
}

func TestPrefixMerge(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/users"), mk("get", "/users/{id}")})
	require.NoError(t, err)

	users, ok := tr.Find("Get", "users")
	require.True(t, ok)
	assert.Equal(t, KindParent, users.Kind())
	require.NotNil(t, users.Leaf())
	assert.Equal(t, "/users", users.Leaf().Path)
	assert.Equal(t, "get /users", users.Leaf().Content.Response.Description)

	require.Equal(t, 1, users.Len())
	id := users.Children()[0]
	assert.Equal(t, "Id", id.Key())
	assert.Equal(t, KindLeaf, id.Kind())
	assert.Equal(t, "/users/{id}", id.Leaf().Path)

	get, _ := tr.Find("Get")
	assert.Equal(t, KindNamespace, get.Kind())
	assert.Equal(t, KindRoot, tr.Root().Kind())
	assert.Equal(t, RootPart, tr.Root().Part())
}

func TestPrefixMergeReverseOrder(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/users/{id}"), mk("get", "/users")})
	require.NoError(t, err)

	users, ok := tr.Find("Get", "Users")
	require.True(t, ok)
	assert.Equal(t, KindParent, users.Kind())
}

func TestLastInsertWins(t *testing.T) {
	first := mk("get", "/user-profile")
	second := mk("get", "/userProfile")
	tr, err := Build([]seed.Seed{first, second})
	require.NoError(t, err)

	get, _ := tr.Find("Get")
	require.Equal(t, 1, get.Len(), "hyphen and camel variants share one node")
	node := get.Children()[0]
	assert.Equal(t, "UserProfile", node.Part())
	assert.Equal(t, "/userProfile", node.Leaf().Path)
	assert.Equal(t, 2, tr.Seeds())
}

func TestInsertRejectsEmptyPath(t *testing.T) {
	tr := New()
	err := tr.Insert(seed.Seed{Path: "///"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, o2terrors.ErrInvariant))
	assert.Nil(t, tr.Root().Leaf())

	_, err = Build([]seed.Seed{mk("get", "/a"), {Path: ""}})
	require.Error(t, err)
}

func TestClassificationExhaustive(t *testing.T) {
	routes := []string{
		"/", "/a", "/a/b", "/a/b/c", "/a/{id}", "/a-b", "/x/y/z", "/x", "/v1/users.json",
		"/a/b/c/d/e", "/{tenant}/items", "/{tenant}", "/a?", "/deep/er/path/here",
	}
	methods := []string{"get", "post", "put", "delete"}
	for i := 0; i < 20; i++ {
		var seeds []seed.Seed
		for j, r := range routes {
			m := methods[(i+j)%len(methods)]
			if (i*7+j)%3 == 0 {
				continue
			}
			seeds = append(seeds, mk(m, r))
		}
		tr, err := Build(seeds)
		require.NoError(t, err)
		_ = tr.Walk(func(n *Node, depth int) error {
			assert.NotEqual(t, KindInvalid, n.Kind(), "iteration %d depth %d node %q", i, depth, n.Key())
			return nil
		})
		assert.Zero(t, tr.Stats().Invalid)
	}
}

func TestOrderSensitivityOnlyAffectsSiblings(t *testing.T) {
	seeds := []seed.Seed{
		mk("get", "/users"), mk("post", "/users"), mk("get", "/users/{id}"),
		mk("delete", "/users/{id}"), mk("put", "/orders/{id}"), mk("get", "/orders"),
	}
	reversed := slices.Clone(seeds)
	slices.Reverse(reversed)

	a, err := Build(seeds)
	require.NoError(t, err)
	b, err := Build(reversed)
	require.NoError(t, err)

	shape := func(tr *Trie) map[string]NodeKind {
		out := map[string]NodeKind{}
		var stack []string
		_ = tr.Walk(func(n *Node, depth int) error {
			stack = append(stack[:depth], n.Part())
			out[strings.Join(stack, ".")] = n.Kind()
			return nil
		})
		return out
	}
	assert.Equal(t, shape(a), shape(b))

	var orderA, orderB []string
	for _, n := range a.Root().Children() {
		orderA = append(orderA, n.Part())
	}
	for _, n := range b.Root().Children() {
		orderB = append(orderB, n.Part())
	}
	assert.Equal(t, []string{"Get", "Post", "Delete", "Put"}, orderA)
	assert.Equal(t, []string{"Get", "Put", "Delete", "Post"}, orderB)
}

func TestPartSanitized(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/v1/users.json"), mk("get", "/2fa")})
	require.NoError(t, err)

	n, ok := tr.Find("Get", "v1", "users.json")
	require.True(t, ok)
	assert.Equal(t, "Users.json", n.Key())
	assert.Equal(t, "UsersJson", n.Part())

	n, ok = tr.Find("Get", "2fa")
	require.True(t, ok)
	assert.Equal(t, "_2fa", n.Part())
}

func TestFindHyphenRuns(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/a--b"), mk("get", "/a-b")})
	require.NoError(t, err)

	for _, seg := range []string{"a--b", "A-B"} {
		n, ok := tr.Find("Get", seg)
		require.True(t, ok, seg)
		assert.Equal(t, "A-B", n.Key())
		assert.Equal(t, "/a--b", n.Leaf().Path)
	}

	n, ok := tr.Find("Get", "a-b")
	require.True(t, ok)
	assert.Equal(t, "AB", n.Key())
}

func TestFindMissing(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/a")})
	require.NoError(t, err)
	_, ok := tr.Find("Get", "b")
	assert.False(t, ok)

	root, ok := tr.Find()
	assert.True(t, ok)
	assert.True(t, root.IsRoot())
}

func TestWalkOrderAndStop(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/a/b"), mk("get", "/a"), mk("post", "/c")})
	require.NoError(t, err)

	var visited []string
	_ = tr.Walk(func(n *Node, depth int) error {
		visited = append(visited, fmt.Sprintf("%d:%s", depth, n.Part()))
		return nil
	})
	assert.Equal(t, []string{"0:TrieRoot", "1:Get", "2:A", "3:B", "1:Post", "2:C"}, visited)

	stop := errors.New("stop")
	count := 0
	err = tr.Walk(func(n *Node, depth int) error {
		count++
		if depth == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, count)
}

func TestStats(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/a/b"), mk("get", "/a"), mk("post", "/c/d")})
	require.NoError(t, err)
	st := tr.Stats()
	assert.Equal(t, Stats{Nodes: 6, Namespaces: 3, Parents: 1, Leaves: 2, MaxDepth: 3}, st)
}

func TestKindInvalidShape(t *testing.T) {
	assert.Equal(t, KindInvalid, (&Node{}).Kind())
	assert.Equal(t, "INVALID", KindInvalid.String())
	assert.Equal(t, "CHILD_NODE", KindLeaf.String())
	assert.Equal(t, "PARENT_NODE", KindParent.String())
	assert.Equal(t, "NAMESPACE", KindNamespace.String())
	assert.Equal(t, "ROOT", KindRoot.String())
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"Get", "Users", "Id"}, Segments("/Get/users/{id}"))
	assert.Equal(t, []string{"Put", "UserProfile", "Avatar"}, Segments("/Put/user-profile/avatar"))
	assert.Equal(t, []string{"Get", "A-B"}, Segments("/Get/a--b"))
	assert.Empty(t, Segments("/"))
}

func TestEntries(t *testing.T) {
	tr, err := Build([]seed.Seed{mk("get", "/users"), mk("get", "/users/{id}"), mk("post", "/users")})
	require.NoError(t, err)

	entries := tr.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Get", "Get.Users", "Get.Users.Id", "Post", "Post.Users"}, names)

	assert.Equal(t, Entry{Name: "Get", Part: "Get", Kind: KindNamespace, Depth: 1}, entries[0])
	assert.Equal(t, Entry{Name: "Get.Users", Part: "Users", Kind: KindParent, Depth: 2, Method: "get", Route: "/users"}, entries[1])
	assert.Equal(t, KindLeaf, entries[2].Kind)
	assert.Equal(t, "/users/{id}", entries[2].Route)
	assert.Equal(t, 3, entries[2].Depth)

	assert.Empty(t, New().Entries())
}
