package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicy(t *testing.T) {
	require.NoError(t, ValidatePolicy())
}

func TestOverdraftTiersShape(t *testing.T) {
	tiers := OverdraftTiers()
	require.Len(t, tiers, 4)

	// Bounds strictly increase and only the last tier is open-ended.
	for i, tier := range tiers[:len(tiers)-1] {
		assert.Positive(t, tier.UpTo, "tier %d", i+1)
		if i > 0 {
			assert.Greater(t, tier.UpTo, tiers[i-1].UpTo)
		}
	}
	assert.Zero(t, tiers[len(tiers)-1].UpTo)

	// Fees never decrease as the magnitude grows.
	for i := 1; i < len(tiers); i++ {
		assert.GreaterOrEqual(t, tiers[i].Fee, tiers[i-1].Fee)
	}
}

func TestCheckAccountLimits(t *testing.T) {
	tests := []struct {
		name           string
		maxBalance     int64
		maxTransaction int64
		overdraftLimit int64
		wantErr        string
	}{
		{"defaults", DefaultMaxBalance, DefaultMaxTransaction, DefaultOverdraftLimit, ""},
		{"zero overdraft", 100_000, 50_000, 0, ""},
		{"transaction equals balance", 100_000, 100_000, 0, ""},
		{"zero max balance", 0, 50_000, 0, "max balance must be positive"},
		{"negative max balance", -1, 50_000, 0, "max balance must be positive"},
		{"zero max transaction", 100_000, 0, 0, "max transaction must be positive"},
		{"transaction above balance", 100_000, 100_001, 0, "exceeds max balance"},
		{"negative overdraft", 100_000, 50_000, -5, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccountLimits(tt.maxBalance, tt.maxTransaction, tt.overdraftLimit)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
