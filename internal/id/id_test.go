package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTransactionID(t *testing.T) {
	tests := []struct {
		counter int64
		want    string
	}{
		{1, "TX-1"},
		{42, "TX-42"},
		{100000, "TX-100000"},
	}
	for _, tt := range tests {
		got := FormatTransactionID(tt.counter)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatAccountID(t *testing.T) {
	assert.Equal(t, "ACC-1", FormatAccountID(1))
	assert.Equal(t, "ACC-7", FormatAccountID(7))
}

func TestParseTransactionID(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"TX-1", 1},
		{"TX-42", 42},
		{"TX-999999", 999999},
	}
	for _, tt := range tests {
		got, err := ParseTransactionID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTransactionID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"42",
		"TX-",
		"TX-abc",
		"TX-0",
		"TX--3",
		"ACC-42",
		"tx-42",
	}
	for _, input := range badInputs {
		_, err := ParseTransactionID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestParseAccountID(t *testing.T) {
	got, err := ParseAccountID("ACC-7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	badInputs := []string{"", "ACC-", "ACC-0", "TX-7", "acc-7", "ACC-1.5"}
	for _, input := range badInputs {
		_, err := ParseAccountID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, counter := range []int64{1, 9, 10, 12345} {
		n, err := ParseTransactionID(FormatTransactionID(counter))
		require.NoError(t, err)
		assert.Equal(t, counter, n)

		n, err = ParseAccountID(FormatAccountID(counter))
		require.NoError(t, err)
		assert.Equal(t, counter, n)
	}
}
