// Package trie builds the namespace tree that mirrors an API's route
// hierarchy.
//
// Each seed path (/Get/users/{id}) is split on "/" and every segment is
// formatted into an identifier (Get, Users, Id). Segments become nodes; the
// final node of a seed holds its [Leaf]. A node's [Kind] follows from its
// shape:
//
//	root              KindRoot
//	leaf, no children KindLeaf
//	leaf and children KindParent
//	children only     KindNamespace
//
// Children keep insertion order, which is the order declarations are emitted.
package trie
