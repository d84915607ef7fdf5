package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimalMinor(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"499.00", 49900, false},
		{"499", 49900, false},
		{"499.5", 49950, false},
		{"0.99", 99, false},
		{" 12.34 ", 1234, false},
		{"499.999", 49999, false}, // extra precision truncated
		{"", 0, true},
		{"abc", 0, true},
		{"12.x", 0, true},
		{"-5.00", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDecimalMinor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
