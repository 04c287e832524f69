package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatARS(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{12500, "12.500"},
		{1234567, "1.234.567"},
		{1234.5, "1.234,5"},
		{10.125, "10,125"},
		{-2500, "-2.500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatARS(tt.in), "%v", tt.in)
	}
}
