// Package o2terrors provides structured error types for the o2t library.
//
// Import path: github.com/erraggy/o2t/o2terrors
//
// Callers use [errors.Is] and [errors.As] to tell recoverable data problems
// apart from failures that abort a generation pass.
//
// # Error Types
//
//   - [ParseError]: the source document could not be decoded
//   - [FetchError]: the source document could not be downloaded
//   - [CompileError]: a schema could not be compiled to a declaration
//   - [MergeError]: changed routes that matched neither the previous nor the newest document
//   - [InvariantError]: the namespace tree reached a shape insertion never produces
//   - [StoreError]: a snapshot store failed to load or save
//   - [ConfigError]: invalid configuration or options
//
// # Sentinel Errors
//
// Each error type matches a sentinel with errors.Is:
//
//	if errors.Is(err, o2terrors.ErrInvariant) {
//		// a programming error, not bad input
//	}
//
// A [MergeError] is the only recoverable kind: the generator records it as an
// issue and keeps going. An [InvariantError] always aborts.
package o2terrors
