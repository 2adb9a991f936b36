// Package generator turns an Apifox export into a TypeScript declaration
// package.
//
// A generation pass parses the export, extracts one seed per enabled
// operation, optionally merges the seeds with a previous generation, builds
// the route trie and renders it as nested namespaces:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("export.json"),
//	    generator.WithPackageName("petstore"),
//	)
//	if err != nil {
//	    return err
//	}
//	err = result.WriteFiles("generated")
//
// The rendered document has one exported namespace per HTTP method (Get,
// Post, Put, Delete). Beneath it every route segment becomes a namespace,
// and each operation contributes its Params, Body and Response declarations:
//
//	export namespace Get {
//	  namespace Users {
//	    /**
//	     * @description Response Interface
//	     * @method get
//	     * @path /users/{id}
//	     */
//	    namespace Id {
//	      interface Response {
//	        id?: Id;
//	      }
//	    }
//	  }
//	}
//
// [Render] works on any trie and any [tsdecl.Compiler]; [GenerateWithOptions]
// wires the parser, seed extraction, the incremental merge and a cached
// compiler together and returns the files of the package.
package generator
