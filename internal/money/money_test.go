package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"125", 12500},
		{"125.5", 12550},
		{"125.50", 12550},
		{"0.01", 1},
		{"0", 0},
		{"$1,250.75", 125075},
		{"  100.00  ", 10000},
		{"-75.00", -7500},
		{"-$75.00", -7500},
		{"$-75.00", -7500},
		{"1000000.00", 100000000},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, got, "input: %q", tt.input)
	}
}

func TestParse_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"   ",
		"$",
		"abc",
		"12.345",
		"0.001",
		"1.2.3",
		"12a",
		"99999999999999999999",
	}
	for _, input := range badInputs {
		_, err := Parse(input)
		assert.Error(t, err, "expected error for input: %q", input)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "0.00", String(0))
	assert.Equal(t, "0.01", String(1))
	assert.Equal(t, "1234.56", String(123456))
	assert.Equal(t, "-75.00", String(-7500))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{7500, "$75.00"},
		{-7500, "-$75.00"},
		{123456, "$1,234.56"},
		{100000000, "$1,000,000.00"},
		{-100000000, "-$1,000,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.cents))
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12550, -7500, 100000000} {
		got, err := Parse(Format(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
