// Package schema models the JSON Schema fragments found in an Apifox export
// and normalizes them for declaration compilation.
//
// A [Schema] is decoded from a YAML or JSON node so that property order, which
// becomes member order in the emitted declarations, is preserved.
//
// [Normalize] rewrites a fragment into the shape the declaration compiler
// expects: nested object properties get titles derived from their property
// names (so they are emitted as named declarations), object properties are
// closed with additionalProperties: false, and the Apifox bookkeeping keys
// listed in [VendorKeys] are removed at every depth.
//
// Normalize never mutates its input; it returns a freshly built tree.
//
//	raw, _ := schema.FromJSON([]byte(`{"type":"object","properties":{"user":{"type":"object","properties":{"id":{"type":"integer"}}}}}`))
//	norm := schema.Normalize(raw, "Response")
//	user, _ := norm.Properties.Get("user")
//	fmt.Println(user.Title) // User
package schema
