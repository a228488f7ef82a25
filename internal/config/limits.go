package config

import "fmt"

// All monetary values are int64 cents.

const (
	// MinTransactionAmount is the smallest amount any operation accepts.
	MinTransactionAmount int64 = 1
	// MaxOwnerNameLen bounds account owner names.
	MaxOwnerNameLen = 255
)

// Account limit defaults applied when creation supplies no overrides.
const (
	DefaultMaxBalance     int64 = 100_000_000 // $1,000,000.00
	DefaultMaxTransaction int64 = 10_000_000  // $100,000.00
	DefaultOverdraftLimit int64 = 100_000     // $1,000.00
)

// DefaultBackupRetention is how many ledger backups are kept.
const DefaultBackupRetention = 5

// FeeTier maps a contiguous overdraft-magnitude range to a flat fee.
// UpTo is the inclusive upper bound of the range; the final tier is
// open-ended and carries UpTo == 0.
type FeeTier struct {
	UpTo int64
	Fee  int64
}

// OverdraftTiers returns the fixed overdraft fee schedule. Magnitudes at a
// boundary resolve to the lower tier.
func OverdraftTiers() []FeeTier {
	return []FeeTier{
		{UpTo: 10_000, Fee: 2_500},  // up to $100.00 overdrawn: $25.00
		{UpTo: 50_000, Fee: 3_500},  // up to $500.00: $35.00
		{UpTo: 100_000, Fee: 5_000}, // up to $1,000.00: $50.00
		{UpTo: 0, Fee: 7_500},       // beyond $1,000.00: $75.00
	}
}

// ValidatePolicy checks the compiled-in policy constants: tier bounds must be
// positive and strictly increasing with only the last tier open-ended, fees
// must be non-negative and non-decreasing, and the default account limits
// must be coherent. Programs call this at startup and treat any error as
// fatal.
func ValidatePolicy() error {
	tiers := OverdraftTiers()
	if len(tiers) == 0 {
		return fmt.Errorf("overdraft schedule is empty")
	}
	for i, t := range tiers {
		last := i == len(tiers)-1
		if last {
			if t.UpTo != 0 {
				return fmt.Errorf("tier %d: final tier must be open-ended", i+1)
			}
		} else {
			if t.UpTo <= 0 {
				return fmt.Errorf("tier %d: bound must be positive", i+1)
			}
			if i > 0 && t.UpTo <= tiers[i-1].UpTo {
				return fmt.Errorf("tier %d: bound %d not above tier %d bound %d", i+1, t.UpTo, i, tiers[i-1].UpTo)
			}
		}
		if t.Fee < 0 {
			return fmt.Errorf("tier %d: negative fee %d", i+1, t.Fee)
		}
		if i > 0 && t.Fee < tiers[i-1].Fee {
			return fmt.Errorf("tier %d: fee %d below tier %d fee %d", i+1, t.Fee, i, tiers[i-1].Fee)
		}
	}

	if MinTransactionAmount < 1 {
		return fmt.Errorf("minimum transaction amount must be at least 1 cent")
	}
	if MaxOwnerNameLen < 1 {
		return fmt.Errorf("maximum owner name length must be positive")
	}
	return CheckAccountLimits(DefaultMaxBalance, DefaultMaxTransaction, DefaultOverdraftLimit)
}

// CheckAccountLimits validates a (maxBalance, maxTransaction, overdraftLimit)
// triple, whether it comes from the defaults above, from coffer.yaml, or from
// account-creation flags.
func CheckAccountLimits(maxBalance, maxTransaction, overdraftLimit int64) error {
	if maxBalance <= 0 {
		return fmt.Errorf("max balance must be positive, got %d", maxBalance)
	}
	if maxTransaction <= 0 {
		return fmt.Errorf("max transaction must be positive, got %d", maxTransaction)
	}
	if maxTransaction > maxBalance {
		return fmt.Errorf("max transaction %d exceeds max balance %d", maxTransaction, maxBalance)
	}
	if overdraftLimit < 0 {
		return fmt.Errorf("overdraft limit must not be negative, got %d", overdraftLimit)
	}
	return nil
}
