// Package tsdecl compiles JSON Schema fragments into TypeScript declarations.
//
// A titled object schema becomes an interface; any other titled schema
// becomes a type alias. Nested schemas that carry their own title, and
// component schemas reached through $ref, are hoisted into declarations of
// their own that follow the root declaration. Untitled or empty schemas
// compile to the empty string.
//
//	c := tsdecl.New(tsdecl.WithDefinitions(doc.Components.Schemas))
//	text, err := c.Compile(ctx, tsdecl.Root{Name: "Response", Schema: s})
//
// Additional properties are closed unless a schema explicitly allows them,
// and schemas without a usable type render as unknown. Declarations carry no
// export keyword by default; inside an ambient declaration file every member
// of a namespace is visible without one.
//
// [CachedCompiler] memoizes results by title and schema fingerprint.
package tsdecl
