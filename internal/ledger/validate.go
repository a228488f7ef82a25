package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/id"
	"github.com/coffer-dev/coffer/internal/model"
	"github.com/coffer-dev/coffer/internal/money"
)

// ValidationError describes a single invariant violation found in a bank
// snapshot.
type ValidationError struct {
	Check       string
	AccountID   string
	TxID        string
	Description string
}

func (e ValidationError) Error() string {
	where := e.AccountID
	if e.TxID != "" {
		where += "/" + e.TxID
	}
	return fmt.Sprintf("%s [%s]: %s", e.Check, where, e.Description)
}

// ValidateBank checks every structural invariant a well-formed snapshot must
// satisfy: balances derivable from history, signs matching types, contiguous
// balance chains, monotonic timestamps, fee payloads present exactly on fee
// entries, ID counters ahead of every issued ID, and parent/child references
// that resolve and reciprocate. It returns all violations, not just the
// first.
func ValidateBank(b Bank) []ValidationError {
	var errs []ValidationError
	report := func(check, acctID, txID, format string, args ...any) {
		errs = append(errs, ValidationError{
			Check:       check,
			AccountID:   acctID,
			TxID:        txID,
			Description: fmt.Sprintf(format, args...),
		})
	}

	if b.NextTxID < 1 {
		report("counters", "", "", "next transaction counter %d below 1", b.NextTxID)
	}
	if b.NextAccountID < 1 {
		report("counters", "", "", "next account counter %d below 1", b.NextAccountID)
	}

	type located struct {
		tx     model.Transaction
		acctID string
	}
	txIndex := make(map[string]located)
	var bankFees int64

	for _, acctID := range b.AccountIDs() {
		acct := b.Accounts[acctID]

		if acct.ID != acctID {
			report("identity", acctID, "", "account stored under key %s carries ID %s", acctID, acct.ID)
		}
		if n, err := id.ParseAccountID(acctID); err != nil {
			report("identity", acctID, "", "malformed account ID: %v", err)
		} else if n >= b.NextAccountID {
			report("counters", acctID, "", "account counter %d not below next counter %d", n, b.NextAccountID)
		}
		if err := checkOwner(acct.Owner); err != nil {
			report("owner", acctID, "", "%v", err)
		}
		if err := checkLimits(acct.MaxBalance, acct.MaxTransaction, acct.OverdraftLimit); err != nil {
			report("limits", acctID, "", "%v", err)
		}
		if !acct.Status.Valid() {
			report("status", acctID, "", "unknown account status %q", acct.Status)
		}
		if acct.Status == model.AccountClosed && acct.Balance != 0 {
			report("status", acctID, "", "closed account holds %s", money.Format(acct.Balance))
		}
		if acct.Balance != acct.BalanceFromHistory() {
			report("balance", acctID, "", "balance %s does not match history %s",
				money.String(acct.Balance), money.String(acct.BalanceFromHistory()))
		}
		if acct.Balance < acct.Floor() {
			report("floor", acctID, "", "balance %s below floor %s", money.String(acct.Balance), money.String(acct.Floor()))
		}
		if acct.Balance > acct.MaxBalance {
			report("cap", acctID, "", "balance %s above max balance %s", money.String(acct.Balance), money.String(acct.MaxBalance))
		}

		var acctFees int64
		var prev model.Transaction
		for i, tx := range acct.History {
			if tx.AccountID != acctID {
				report("identity", acctID, tx.ID, "transaction belongs to %s", tx.AccountID)
			}
			if !tx.Type.Valid() {
				report("type", acctID, tx.ID, "unknown transaction type %q", tx.Type)
			}
			if !tx.Status.Valid() {
				report("status", acctID, tx.ID, "unknown transaction status %q", tx.Status)
			}
			if !tx.SignValid() {
				report("sign", acctID, tx.ID, "amount %s has the wrong sign for %s", money.String(tx.Amount), tx.Type)
			}
			if !tx.BalanceConsistent() {
				report("balance", acctID, tx.ID, "%s + %s != %s",
					money.String(tx.BalanceBefore), money.String(tx.Amount), money.String(tx.BalanceAfter))
			}

			if i == 0 {
				if tx.BalanceBefore != 0 {
					report("chain", acctID, tx.ID, "first entry starts at %s, not zero", money.String(tx.BalanceBefore))
				}
			} else {
				if tx.BalanceBefore != prev.BalanceAfter {
					report("chain", acctID, tx.ID, "starts at %s but previous entry ended at %s",
						money.String(tx.BalanceBefore), money.String(prev.BalanceAfter))
				}
				if tx.Timestamp.Before(prev.Timestamp) {
					report("timestamps", acctID, tx.ID, "timestamp %s before previous %s",
						tx.Timestamp.Format(time.RFC3339), prev.Timestamp.Format(time.RFC3339))
				}
			}
			prev = tx

			if tx.Type == model.TxFee {
				switch {
				case tx.Fee == nil:
					report("fee", acctID, tx.ID, "fee entry missing its breakdown")
				case !tx.Fee.Consistent():
					report("fee", acctID, tx.ID, "tier charges do not sum to base amount %s", money.String(tx.Fee.BaseAmount))
				case tx.Fee.BaseAmount != -tx.Amount:
					report("fee", acctID, tx.ID, "base amount %s does not match entry amount %s",
						money.String(tx.Fee.BaseAmount), money.String(tx.Amount))
				}
				if tx.ParentTxID == "" {
					report("linkage", acctID, tx.ID, "fee entry has no parent")
				}
				acctFees += -tx.Amount
			} else if tx.Fee != nil {
				report("fee", acctID, tx.ID, "non-fee entry carries a fee breakdown")
			}

			if n, err := id.ParseTransactionID(tx.ID); err != nil {
				report("tx-id", acctID, tx.ID, "malformed transaction ID: %v", err)
			} else if n >= b.NextTxID {
				report("counters", acctID, tx.ID, "transaction counter %d not below next counter %d", n, b.NextTxID)
			}
			if dup, seen := txIndex[tx.ID]; seen {
				report("tx-id", acctID, tx.ID, "duplicate of entry in %s", dup.acctID)
			} else {
				txIndex[tx.ID] = located{tx: tx, acctID: acctID}
			}
		}

		if acct.TotalFeesCollected != acctFees {
			report("fees", acctID, "", "recorded fees %s do not match history %s",
				money.String(acct.TotalFeesCollected), money.String(acctFees))
		}
		bankFees += acctFees
	}

	if b.TotalFees != bankFees {
		report("fees", "", "", "bank total %s does not match account histories %s",
			money.String(b.TotalFees), money.String(bankFees))
	}

	// Linkage: every reference resolves, reciprocates, and mutual links are
	// reserved for transfer pairs.
	for _, acctID := range b.AccountIDs() {
		for _, tx := range b.Accounts[acctID].History {
			if tx.ParentTxID != "" {
				if tx.ParentTxID == tx.ID {
					report("linkage", acctID, tx.ID, "entry is its own parent")
				} else if parent, ok := txIndex[tx.ParentTxID]; !ok {
					report("linkage", acctID, tx.ID, "parent %s not found", tx.ParentTxID)
				} else {
					if !parent.tx.HasChild(tx.ID) {
						report("linkage", acctID, tx.ID, "parent %s does not list it as a child", tx.ParentTxID)
					}
					if parent.tx.ParentTxID == tx.ID && !transferPair(tx, parent.tx) {
						report("linkage", acctID, tx.ID, "mutual link with %s outside a transfer pair", tx.ParentTxID)
					}
				}
			}
			for _, childID := range tx.ChildTxIDs {
				if childID == tx.ID {
					report("linkage", acctID, tx.ID, "entry is its own child")
					continue
				}
				child, ok := txIndex[childID]
				if !ok {
					report("linkage", acctID, tx.ID, "child %s not found", childID)
					continue
				}
				if child.tx.ParentTxID != tx.ID {
					report("linkage", acctID, tx.ID, "child %s names %s as parent", childID, child.tx.ParentTxID)
				}
			}
		}
	}

	return errs
}

// transferPair reports whether a and b are the two legs of one transfer.
func transferPair(a, b model.Transaction) bool {
	legs := []model.TxType{a.Type, b.Type}
	slices.Sort(legs)
	return legs[0] == model.TxTransferIn && legs[1] == model.TxTransferOut
}

// Operation preconditions. Each returns an error wrapping the matching
// sentinel so callers can classify failures with errors.Is.

func checkOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: owner name is empty", ErrInvalidOwner)
	}
	if len(owner) > config.MaxOwnerNameLen {
		return fmt.Errorf("%w: owner name exceeds %d characters", ErrInvalidOwner, config.MaxOwnerNameLen)
	}
	return nil
}

func checkLimits(maxBalance, maxTransaction, overdraftLimit int64) error {
	if err := config.CheckAccountLimits(maxBalance, maxTransaction, overdraftLimit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLimits, err)
	}
	return nil
}

func checkActive(acct model.Account) error {
	switch acct.Status {
	case model.AccountActive:
		return nil
	case model.AccountClosed:
		return fmt.Errorf("%w: %s", ErrAccountClosed, acct.ID)
	default:
		return fmt.Errorf("%w: %s is %s", ErrAccountNotActive, acct.ID, acct.Status)
	}
}

func checkCreditAmount(amount int64) error {
	if amount < config.MinTransactionAmount {
		return fmt.Errorf("%w: amount must be at least %s", ErrInvalidAmount, money.String(config.MinTransactionAmount))
	}
	return nil
}

func checkDebitAmount(acct model.Account, amount int64) error {
	if amount < config.MinTransactionAmount {
		return fmt.Errorf("%w: amount must be at least %s", ErrInvalidAmount, money.String(config.MinTransactionAmount))
	}
	if amount > acct.MaxTransaction {
		return fmt.Errorf("%w: %s above per-transaction limit %s for %s",
			ErrMaxTransactionExceeded, money.String(amount), money.String(acct.MaxTransaction), acct.ID)
	}
	return nil
}

func insufficient(acct model.Account, amount int64) error {
	return fmt.Errorf("%w: %s holds %s, requested %s, floor %s",
		ErrInsufficientFunds, acct.ID, money.String(acct.Balance), money.String(amount), money.String(acct.Floor()))
}

// sortAccountIDs orders IDs by their numeric counter, leaving malformed IDs
// at the end in lexical order.
func sortAccountIDs(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		na, errA := id.ParseAccountID(a)
		nb, errB := id.ParseAccountID(b)
		switch {
		case errA == nil && errB == nil:
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return 0
		}
	})
}
