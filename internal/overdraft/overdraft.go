// Package overdraft maps overdraft magnitudes to the tiered fee schedule.
package overdraft

import (
	"fmt"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/model"
	"github.com/coffer-dev/coffer/internal/money"
)

// Assessment describes the fee charged for one overdraft event.
type Assessment struct {
	Tier        int
	Fee         int64
	Magnitude   int64
	Explanation string
}

// Assess resolves an overdraft magnitude (a positive number of cents below
// zero) against the fee schedule. A magnitude at a tier boundary resolves to
// the lower tier. Magnitudes of zero or less report ok=false: no fee is
// charged and no fee transaction is created.
func Assess(magnitude int64) (Assessment, bool) {
	if magnitude <= 0 {
		return Assessment{}, false
	}
	tiers := config.OverdraftTiers()
	for i, tier := range tiers {
		if tier.UpTo != 0 && magnitude > tier.UpTo {
			continue
		}
		a := Assessment{
			Tier:      i + 1,
			Fee:       tier.Fee,
			Magnitude: magnitude,
		}
		a.Explanation = fmt.Sprintf("overdraft of %s: tier %d fee %s",
			money.Format(magnitude), a.Tier, money.Format(a.Fee))
		return a, true
	}
	return Assessment{}, false
}

// FeeTransaction builds the fee entry linked to the transaction that caused
// the overdraft. The fee debits the balance the parent left behind and shares
// its timestamp.
func FeeTransaction(txID string, parent model.Transaction, a Assessment) model.Transaction {
	return model.Transaction{
		ID:            txID,
		AccountID:     parent.AccountID,
		Type:          model.TxFee,
		Amount:        -a.Fee,
		Description:   a.Explanation,
		Timestamp:     parent.Timestamp,
		BalanceBefore: parent.BalanceAfter,
		BalanceAfter:  parent.BalanceAfter - a.Fee,
		Status:        model.StatusCompleted,
		ParentTxID:    parent.ID,
		Fee: &model.FeeDetails{
			Category:    model.FeeOverdraft,
			Tiers:       []model.TierCharge{{Tier: a.Tier, Amount: a.Fee}},
			BaseAmount:  a.Fee,
			Explanation: a.Explanation,
		},
	}
}
