// File: internal/sweep/fill_test.go
package sweep

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUniform(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		fill     byte
		expected bool
	}{
		{"empty slice", []byte{}, 0x00, true},
		{"all zero with zero fill", make([]byte, 4096), 0x00, true},
		{"all ones with ones fill", bytes.Repeat([]byte{0xFF}, 1024), 0xFF, true},
		{"all zero with nonzero fill", make([]byte, 1024), 0xAA, false},
		{"first byte differs", append([]byte{0x01}, make([]byte, 1023)...), 0x00, false},
		{"last byte differs", append(make([]byte, 1023), 0x01), 0x00, false},
		{"single matching byte", []byte{0x5A}, 0x5A, true},
		{"single differing byte", []byte{0x5B}, 0x5A, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUniform(tt.data, tt.fill))
		})
	}
}
