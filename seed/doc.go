// Package seed turns a parsed Apifox export into trie seeds and reconciles
// seed sets during incremental regeneration.
//
// A [Seed] carries one operation: its synthetic trie path (/Get/users/{id}),
// the original route and the normalized params, body and response schemas.
// [Extract] builds seeds in document order; [Merge] combines a previous seed
// set with a fresh one according to a list of changed routes.
package seed
