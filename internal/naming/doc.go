// Package naming provides the identifier helpers shared by the seed, trie and
// tsdecl packages.
//
// FormatPath turns a raw route segment into a namespace name, Capitalize
// builds declaration titles from property and parameter names, and
// ToPascalCase/SafeIdentifier turn arbitrary schema names into TypeScript
// identifiers.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
