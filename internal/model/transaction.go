package model

import (
	"slices"
	"time"
)

// TxType classifies a ledger entry. The type fixes the sign of Amount.
type TxType string

const (
	TxDeposit     TxType = "deposit"
	TxWithdrawal  TxType = "withdrawal"
	TxTransferIn  TxType = "transfer-in"
	TxTransferOut TxType = "transfer-out"
	TxFee         TxType = "fee"
	TxInterest    TxType = "interest"
	TxAdjustment  TxType = "adjustment"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxTransferIn, TxTransferOut, TxFee, TxInterest, TxAdjustment:
		return true
	}
	return false
}

// TxStatus represents the lifecycle state of a transaction.
type TxStatus string

const (
	StatusPending    TxStatus = "pending"
	StatusCompleted  TxStatus = "completed"
	StatusFailed     TxStatus = "failed"
	StatusRolledBack TxStatus = "rolled-back"
)

// Valid reports whether s is a known status.
func (s TxStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRolledBack:
		return true
	}
	return false
}

// FeeCategory names the rule that produced a fee.
type FeeCategory string

const FeeOverdraft FeeCategory = "overdraft"

// TierCharge records the portion of a fee attributed to one tier of the
// schedule.
type TierCharge struct {
	Tier   int   `json:"tier"`
	Amount int64 `json:"amount"`
}

// FeeDetails carries the breakdown attached to a fee transaction. It is
// present exactly when Type == TxFee.
type FeeDetails struct {
	Category    FeeCategory  `json:"category"`
	Tiers       []TierCharge `json:"tiers"`
	BaseAmount  int64        `json:"base_amount"`
	Explanation string       `json:"explanation"`
}

// Consistent reports whether the tier charges sum to the base amount.
func (f FeeDetails) Consistent() bool {
	var sum int64
	for _, tc := range f.Tiers {
		sum += tc.Amount
	}
	return sum == f.BaseAmount
}

// Transaction is one immutable entry in an account's history. Amount is
// signed cents: credits positive, debits negative.
type Transaction struct {
	ID            string      `json:"id"`
	AccountID     string      `json:"account_id"`
	Type          TxType      `json:"type"`
	Amount        int64       `json:"amount"`
	Description   string      `json:"description,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	BalanceBefore int64       `json:"balance_before"`
	BalanceAfter  int64       `json:"balance_after"`
	Status        TxStatus    `json:"status"`
	ParentTxID    string      `json:"parent_tx_id,omitempty"`
	ChildTxIDs    []string    `json:"child_tx_ids,omitempty"`
	Fee           *FeeDetails `json:"fee,omitempty"`
}

// BalanceConsistent reports whether the recorded balances agree with Amount.
func (t Transaction) BalanceConsistent() bool {
	return t.BalanceAfter == t.BalanceBefore+t.Amount
}

// SignValid reports whether Amount carries the sign its type requires.
func (t Transaction) SignValid() bool {
	switch t.Type {
	case TxDeposit, TxTransferIn, TxInterest:
		return t.Amount > 0
	case TxWithdrawal, TxTransferOut, TxFee:
		return t.Amount < 0
	case TxAdjustment:
		return t.Amount != 0
	}
	return false
}

// HasChild reports whether id appears in ChildTxIDs.
func (t Transaction) HasChild(id string) bool {
	return slices.Contains(t.ChildTxIDs, id)
}

// Clone returns a deep copy whose ChildTxIDs and Fee are detached from the
// original.
func (t Transaction) Clone() Transaction {
	out := t
	out.ChildTxIDs = slices.Clone(t.ChildTxIDs)
	if t.Fee != nil {
		fee := *t.Fee
		fee.Tiers = slices.Clone(t.Fee.Tiers)
		out.Fee = &fee
	}
	return out
}
