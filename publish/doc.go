// Package publish builds the npm package manifest for generated declarations
// and runs the publish script that pushes the package to a registry.
//
// The manifest names the package @types/<name> and versions it
// 1.0.0-<unix milliseconds>, so every generation is a distinct prerelease:
//
//	m := publish.NewManifest("petstore", "team", time.Now())
//	data, err := m.Marshal()
//
// A [Publisher] runs its script with sh inside the output directory and
// passes the registry credentials as REGISTRY, USERNAME, PASSWORD and EMAIL.
// Failures are returned to the caller and never retried.
package publish
