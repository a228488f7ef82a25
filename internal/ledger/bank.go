// Package ledger implements the bank aggregate: accounts, their transaction
// histories, and the operations that move money between them.
//
// Operations take a Bank by value and return the successor Bank. On any
// error the input Bank is returned unchanged, so a failed operation can
// never leave partial state behind.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/coffer-dev/coffer/internal/id"
	"github.com/coffer-dev/coffer/internal/model"
	"github.com/coffer-dev/coffer/internal/money"
	"github.com/coffer-dev/coffer/internal/overdraft"
)

// Bank is the aggregate root holding every account and the ID counters.
type Bank struct {
	Accounts      map[string]model.Account `json:"accounts"`
	NextTxID      int64                    `json:"next_tx_id"`
	NextAccountID int64                    `json:"next_account_id"`
	TotalFees     int64                    `json:"total_fees"`
}

// NewBank returns an empty bank ready for its first account.
func NewBank() Bank {
	return Bank{
		Accounts:      map[string]model.Account{},
		NextTxID:      1,
		NextAccountID: 1,
	}
}

// AddAccountParams holds parameters for creating an account.
type AddAccountParams struct {
	Owner            string
	InitialDeposit   int64
	OverdraftEnabled bool
	OverdraftLimit   int64
	MaxBalance       int64
	MaxTransaction   int64
}

// AddAccount creates an account and, when InitialDeposit is positive, records
// the opening deposit as its first transaction.
func (b Bank) AddAccount(p AddAccountParams, now time.Time) (Bank, model.Account, error) {
	owner := strings.TrimSpace(p.Owner)
	if err := checkOwner(owner); err != nil {
		return b, model.Account{}, err
	}
	if err := checkLimits(p.MaxBalance, p.MaxTransaction, p.OverdraftLimit); err != nil {
		return b, model.Account{}, err
	}
	if p.InitialDeposit < 0 {
		return b, model.Account{}, fmt.Errorf("%w: initial deposit %s is negative", ErrInvalidAmount, money.String(p.InitialDeposit))
	}
	if p.InitialDeposit > p.MaxBalance {
		return b, model.Account{}, fmt.Errorf("%w: initial deposit %s above max balance %s", ErrMaxBalanceExceeded, money.String(p.InitialDeposit), money.String(p.MaxBalance))
	}

	overdraftLimit := p.OverdraftLimit
	if !p.OverdraftEnabled {
		overdraftLimit = 0
	}

	acct := model.Account{
		ID:               id.FormatAccountID(b.NextAccountID),
		Owner:            owner,
		OverdraftEnabled: p.OverdraftEnabled,
		OverdraftLimit:   overdraftLimit,
		MaxBalance:       p.MaxBalance,
		MaxTransaction:   p.MaxTransaction,
		Status:           model.AccountActive,
		CreatedAt:        now.UTC(),
	}

	nb := b.clone()
	nb.NextAccountID++

	if p.InitialDeposit > 0 {
		tx := model.Transaction{
			ID:            id.FormatTransactionID(nb.NextTxID),
			AccountID:     acct.ID,
			Type:          model.TxDeposit,
			Amount:        p.InitialDeposit,
			Description:   "initial deposit",
			Timestamp:     acct.CreatedAt,
			BalanceBefore: 0,
			BalanceAfter:  p.InitialDeposit,
			Status:        model.StatusCompleted,
		}
		acct = record(acct, tx)
		nb.NextTxID++
	}

	nb.Accounts[acct.ID] = acct
	return nb, acct.Clone(), nil
}

// Deposit credits amount to an account.
func (b Bank) Deposit(accountID string, amount int64, description string, now time.Time) (Bank, model.Transaction, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return b, model.Transaction{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if err := checkActive(acct); err != nil {
		return b, model.Transaction{}, err
	}
	if err := checkCreditAmount(amount); err != nil {
		return b, model.Transaction{}, err
	}
	if acct.Balance+amount > acct.MaxBalance {
		return b, model.Transaction{}, fmt.Errorf("%w: %s + %s above limit %s",
			ErrMaxBalanceExceeded, money.String(acct.Balance), money.String(amount), money.String(acct.MaxBalance))
	}

	tx := model.Transaction{
		ID:            id.FormatTransactionID(b.NextTxID),
		AccountID:     accountID,
		Type:          model.TxDeposit,
		Amount:        amount,
		Description:   defaultDescription(description, "deposit"),
		Timestamp:     nextTimestamp(acct, now),
		BalanceBefore: acct.Balance,
		BalanceAfter:  acct.Balance + amount,
		Status:        model.StatusCompleted,
	}

	nb := b.clone()
	nb.Accounts[accountID] = record(acct, tx)
	nb.NextTxID++
	return nb, tx, nil
}

// WithdrawResult reports the withdrawal entry and the overdraft fee entry, if
// one was charged.
type WithdrawResult struct {
	Withdrawal model.Transaction
	Fee        *model.Transaction
}

// FeeCharged returns the fee amount in cents, zero when no fee applied.
func (r WithdrawResult) FeeCharged() int64 {
	if r.Fee == nil {
		return 0
	}
	return -r.Fee.Amount
}

// Withdraw debits amount from an account. A withdrawal that lands the
// balance below zero triggers a tiered overdraft fee, recorded as a linked
// child transaction. The withdrawal is feasible only if the balance after
// both the withdrawal and any fee stays at or above the account floor.
func (b Bank) Withdraw(accountID string, amount int64, description string, now time.Time) (Bank, WithdrawResult, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return b, WithdrawResult{}, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if err := checkActive(acct); err != nil {
		return b, WithdrawResult{}, err
	}
	if err := checkDebitAmount(acct, amount); err != nil {
		return b, WithdrawResult{}, err
	}

	newBalance := acct.Balance - amount
	if newBalance < acct.Floor() {
		return b, WithdrawResult{}, insufficient(acct, amount)
	}
	var assessment overdraft.Assessment
	var feeDue bool
	if newBalance < 0 {
		assessment, feeDue = overdraft.Assess(-newBalance)
		if feeDue && newBalance-assessment.Fee < acct.Floor() {
			return b, WithdrawResult{}, fmt.Errorf("%w: %s fee on overdraft of %s would breach the floor %s",
				ErrInsufficientFunds, money.String(assessment.Fee), money.String(-newBalance), money.String(acct.Floor()))
		}
	}

	wtx := model.Transaction{
		ID:            id.FormatTransactionID(b.NextTxID),
		AccountID:     accountID,
		Type:          model.TxWithdrawal,
		Amount:        -amount,
		Description:   defaultDescription(description, "withdrawal"),
		Timestamp:     nextTimestamp(acct, now),
		BalanceBefore: acct.Balance,
		BalanceAfter:  newBalance,
		Status:        model.StatusCompleted,
	}

	nb := b.clone()
	nb.NextTxID++
	result := WithdrawResult{Withdrawal: wtx}

	if feeDue {
		ftx := overdraft.FeeTransaction(id.FormatTransactionID(nb.NextTxID), wtx, assessment)
		nb.NextTxID++
		wtx.ChildTxIDs = []string{ftx.ID}
		result.Withdrawal = wtx
		result.Fee = &ftx

		acct = record(acct, wtx)
		acct = record(acct, ftx)
		acct.TotalFeesCollected += assessment.Fee
		nb.TotalFees += assessment.Fee
	} else {
		acct = record(acct, wtx)
	}

	nb.Accounts[accountID] = acct
	return nb, result, nil
}

// TransferResult reports the two legs of a transfer and the overdraft fee on
// the source, if one was charged.
type TransferResult struct {
	Out model.Transaction
	In  model.Transaction
	Fee *model.Transaction
}

// Transfer moves amount between two accounts atomically. The legs reference
// each other as parent and child and share one timestamp; fund conservation
// holds because the legs carry equal and opposite amounts. An overdraft on
// the source is charged to the source, and the fee transaction is linked as
// a child of the outgoing leg.
func (b Bank) Transfer(fromID, toID string, amount int64, description string, now time.Time) (Bank, TransferResult, error) {
	if fromID == toID {
		return b, TransferResult{}, fmt.Errorf("%w: %s", ErrSameAccount, fromID)
	}
	src, ok := b.Accounts[fromID]
	if !ok {
		return b, TransferResult{}, fmt.Errorf("%w: %s", ErrAccountNotFound, fromID)
	}
	dst, ok := b.Accounts[toID]
	if !ok {
		return b, TransferResult{}, fmt.Errorf("%w: %s", ErrAccountNotFound, toID)
	}
	if err := checkActive(src); err != nil {
		return b, TransferResult{}, err
	}
	if err := checkActive(dst); err != nil {
		return b, TransferResult{}, err
	}
	if err := checkDebitAmount(src, amount); err != nil {
		return b, TransferResult{}, err
	}
	if dst.Balance+amount > dst.MaxBalance {
		return b, TransferResult{}, fmt.Errorf("%w: %s + %s above limit %s for %s",
			ErrMaxBalanceExceeded, money.String(dst.Balance), money.String(amount), money.String(dst.MaxBalance), dst.ID)
	}

	newSrcBalance := src.Balance - amount
	if newSrcBalance < src.Floor() {
		return b, TransferResult{}, insufficient(src, amount)
	}
	var assessment overdraft.Assessment
	var feeDue bool
	if newSrcBalance < 0 {
		assessment, feeDue = overdraft.Assess(-newSrcBalance)
		if feeDue && newSrcBalance-assessment.Fee < src.Floor() {
			return b, TransferResult{}, fmt.Errorf("%w: %s fee on overdraft of %s would breach the floor %s",
				ErrInsufficientFunds, money.String(assessment.Fee), money.String(-newSrcBalance), money.String(src.Floor()))
		}
	}

	// Both histories receive the same timestamp, clamped against each.
	ts := nextTimestamp(src, now)
	if dts := nextTimestamp(dst, now); dts.After(ts) {
		ts = dts
	}

	outID := id.FormatTransactionID(b.NextTxID)
	inID := id.FormatTransactionID(b.NextTxID + 1)

	outDesc := description
	inDesc := description
	if strings.TrimSpace(description) == "" {
		outDesc = "transfer to " + toID
		inDesc = "transfer from " + fromID
	}

	out := model.Transaction{
		ID:            outID,
		AccountID:     fromID,
		Type:          model.TxTransferOut,
		Amount:        -amount,
		Description:   outDesc,
		Timestamp:     ts,
		BalanceBefore: src.Balance,
		BalanceAfter:  newSrcBalance,
		Status:        model.StatusCompleted,
		ParentTxID:    inID,
		ChildTxIDs:    []string{inID},
	}
	in := model.Transaction{
		ID:            inID,
		AccountID:     toID,
		Type:          model.TxTransferIn,
		Amount:        amount,
		Description:   inDesc,
		Timestamp:     ts,
		BalanceBefore: dst.Balance,
		BalanceAfter:  dst.Balance + amount,
		Status:        model.StatusCompleted,
		ParentTxID:    outID,
		ChildTxIDs:    []string{outID},
	}

	nb := b.clone()
	nb.NextTxID += 2
	result := TransferResult{Out: out, In: in}

	if feeDue {
		ftx := overdraft.FeeTransaction(id.FormatTransactionID(nb.NextTxID), out, assessment)
		nb.NextTxID++
		out.ChildTxIDs = append(out.ChildTxIDs, ftx.ID)
		result.Out = out
		result.Fee = &ftx

		src = record(src, out)
		src = record(src, ftx)
		src.TotalFeesCollected += assessment.Fee
		nb.TotalFees += assessment.Fee
	} else {
		src = record(src, out)
	}
	dst = record(dst, in)

	nb.Accounts[fromID] = src
	nb.Accounts[toID] = dst
	return nb, result, nil
}

// Suspend freezes an active account. Suspended accounts reject all money
// movement until reactivated.
func (b Bank) Suspend(accountID string) (Bank, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	switch acct.Status {
	case model.AccountClosed:
		return b, fmt.Errorf("%w: %s", ErrAccountClosed, accountID)
	case model.AccountSuspended:
		return b, fmt.Errorf("%w: %s is already suspended", ErrAccountNotActive, accountID)
	}

	acct.Status = model.AccountSuspended
	nb := b.clone()
	nb.Accounts[accountID] = acct
	return nb, nil
}

// Reactivate returns a suspended account to active.
func (b Bank) Reactivate(accountID string) (Bank, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	switch acct.Status {
	case model.AccountClosed:
		return b, fmt.Errorf("%w: %s", ErrAccountClosed, accountID)
	case model.AccountActive:
		return b, fmt.Errorf("%w: %s is already active", ErrAccountNotActive, accountID)
	}

	acct.Status = model.AccountActive
	nb := b.clone()
	nb.Accounts[accountID] = acct
	return nb, nil
}

// Close permanently closes an account. The balance must be exactly zero;
// closed accounts keep their history but accept no further operations.
func (b Bank) Close(accountID string) (Bank, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	if acct.Status == model.AccountClosed {
		return b, fmt.Errorf("%w: %s", ErrAccountClosed, accountID)
	}
	if acct.Balance != 0 {
		return b, fmt.Errorf("%w: %s holds %s", ErrAccountNotEmpty, accountID, money.Format(acct.Balance))
	}

	acct.Status = model.AccountClosed
	nb := b.clone()
	nb.Accounts[accountID] = acct
	return nb, nil
}

// Account returns a deep copy of an account.
func (b Bank) Account(accountID string) (model.Account, bool) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return model.Account{}, false
	}
	return acct.Clone(), true
}

// History returns a copy of an account's transaction history, oldest first.
func (b Bank) History(accountID string) ([]model.Transaction, error) {
	acct, ok := b.Accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return acct.Clone().History, nil
}

// Transaction looks a transaction up across all accounts. The second return
// is the owning account ID.
func (b Bank) Transaction(txID string) (model.Transaction, string, bool) {
	for _, acctID := range b.AccountIDs() {
		if tx, ok := b.Accounts[acctID].Transaction(txID); ok {
			return tx.Clone(), acctID, true
		}
	}
	return model.Transaction{}, "", false
}

// AccountIDs returns every account ID in creation order.
func (b Bank) AccountIDs() []string {
	ids := make([]string, 0, len(b.Accounts))
	for acctID := range b.Accounts {
		ids = append(ids, acctID)
	}
	sortAccountIDs(ids)
	return ids
}

// clone detaches the account map. Account values are replaced wholesale when
// touched, so copying the map is enough.
func (b Bank) clone() Bank {
	accounts := make(map[string]model.Account, len(b.Accounts))
	for acctID, acct := range b.Accounts {
		accounts[acctID] = acct
	}
	nb := b
	nb.Accounts = accounts
	return nb
}

// record appends a transaction to a fresh copy of the history and settles
// the balance. The stored entry is a deep clone, so transactions handed back
// to callers never alias bank state.
func record(acct model.Account, tx model.Transaction) model.Account {
	history := make([]model.Transaction, len(acct.History), len(acct.History)+1)
	copy(history, acct.History)
	acct.History = append(history, tx.Clone())
	acct.Balance = tx.BalanceAfter
	return acct
}

// nextTimestamp clamps the wall clock so history timestamps never go
// backwards.
func nextTimestamp(acct model.Account, now time.Time) time.Time {
	ts := now.UTC()
	if last := acct.LastTimestamp(); ts.Before(last) {
		return last
	}
	return ts
}

func defaultDescription(description, fallback string) string {
	if strings.TrimSpace(description) == "" {
		return fallback
	}
	return description
}
