// Package o2t turns an OpenAPI route map, as exported by Apifox, into a single
// TypeScript declaration file made of nested namespaces.
//
// # Overview
//
// Every enabled (route, method) pair becomes a seed: the method-prefixed route
// plus the normalized parameter, request body and response schemas. Seeds are
// inserted into a prefix tree keyed by path segment, and the tree is rendered
// depth-first into namespaces:
//
//	export namespace Get {
//	  namespace Users {
//	    /**
//	     * @description Response Interface
//	     * @method get
//	     * @path /users
//	     */
//	    interface Params { ... }
//	    interface Response { ... }
//	    namespace Id { ... }
//	  }
//	}
//
// # Packages
//
//   - parser: load an Apifox/OpenAPI document from a file, URL or reader
//   - schema: the schema model and the title/vendor-key normalizer
//   - seed: seed extraction and the incremental merge of seed sets
//   - trie: the namespace prefix tree and its node classification
//   - tsdecl: the JSON Schema to TypeScript declaration compiler
//   - generator: rendering plus the high level GenerateWithOptions API
//   - snapshot: persisted state for incremental regeneration
//   - publish: package.json manifest and publish script invocation
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("apifox.json"),
//		generator.WithPackageName("petstore"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("generated"); err != nil {
//		log.Fatal(err)
//	}
package o2t
