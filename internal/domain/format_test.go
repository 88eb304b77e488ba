package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount   int64
		expected string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{220000, "Rp 220.000"},
		{1250000, "Rp 1.250.000"},
		{-15000, "-Rp 15.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatRupiah(tt.amount))
	}
}
