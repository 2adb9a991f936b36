package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/o2t/o2terrors"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{"none", []bool{false, false}, "must specify an input source"},
		{"one", []bool{false, true, false}, ""},
		{"two", []bool{true, true}, "exactly one"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("input", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, o2terrors.ErrConfig))
		})
	}
}
