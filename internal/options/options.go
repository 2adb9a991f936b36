// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/o2t/o2terrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// The returned error is a *o2terrors.ConfigError naming option.
func ValidateSingleInputSource(option string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return &o2terrors.ConfigError{Option: option, Message: "must specify an input source"}
	case sourceCount > 1:
		return &o2terrors.ConfigError{Option: option, Message: "must specify exactly one input source"}
	}
	return nil
}
