package httputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateStatusCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"200", true},
		{"default", true},
		{"x-apifox-name", true},
		{"2XX", true},
		{"6XX", false},
		{"099", false},
		{"600", false},
		{"20", false},
		{"abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateStatusCode(tt.code))
		})
	}
}

func TestIsMethod(t *testing.T) {
	assert.True(t, IsMethod("get"))
	assert.True(t, IsMethod("trace"))
	assert.False(t, IsMethod("GET"))
	assert.False(t, IsMethod("parameters"))
}

func TestNewClient(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(0).Timeout)
	assert.Equal(t, 5*time.Second, NewClient(5*time.Second).Timeout)
}
