package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFillValue(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    byte
		expectError bool
	}{
		{"zero", "0", 0x00, false},
		{"decimal", "170", 0xAA, false},
		{"max", "255", 0xFF, false},
		{"hex", "0xff", 0xFF, false},
		{"hex upper", "0xAB", 0xAB, false},
		{"octal", "0377", 0xFF, false},
		{"too large", "256", 0, true},
		{"negative", "-1", 0, true},
		{"empty", "", 0, true},
		{"junk", "zz", 0, true},
		{"trailing junk", "12x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fill, err := parseFillValue(tt.input)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, fill)
			}
		})
	}
}
