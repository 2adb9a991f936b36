// Package parser reads Apifox OpenAPI exports into an order-preserving
// document model.
//
// Documents may be JSON or YAML and may be loaded from a local file, a remote
// URL (http:// or https://), an io.Reader or a byte slice. Route order,
// method order and schema property order are kept exactly as written, since
// they determine the order of the generated declarations.
//
// # Quick Start
//
//	result, err := parser.ParseWithOptions(
//		parser.WithFilePath("https://example.com/export/openapi.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for route, item := range result.Document.Paths.All() {
//		fmt.Println(route, item.Operations.Keys())
//	}
//
// Or create a reusable Parser instance:
//
//	p := parser.New()
//	p.Timeout = 10 * time.Second
//	result, _ := p.ParseContext(ctx, "export.yaml")
//
// # References
//
// Operation-level references into components (parameters, requestBodies and
// responses) are resolved while decoding. Schema references are left in place
// and resolved by the declaration compiler against [Components.Schemas].
//
// # Apifox Extensions
//
// The x-apifox-status key of each operation is surfaced as [Operation.Status];
// every other "x-" key is kept in the Extensions map of its owner.
package parser
