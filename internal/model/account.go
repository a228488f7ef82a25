package model

import "time"

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountClosed    AccountStatus = "closed"
)

// Valid reports whether s is a known account status.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountClosed:
		return true
	}
	return false
}

// Account is a single customer account with its full transaction history.
// All amounts are integer cents.
type Account struct {
	ID                 string        `json:"id"`
	Owner              string        `json:"owner"`
	Balance            int64         `json:"balance"`
	History            []Transaction `json:"history"`
	OverdraftEnabled   bool          `json:"overdraft_enabled"`
	OverdraftLimit     int64         `json:"overdraft_limit"`
	MaxBalance         int64         `json:"max_balance"`
	MaxTransaction     int64         `json:"max_transaction"`
	TotalFeesCollected int64         `json:"total_fees_collected"`
	Status             AccountStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
}

// Floor returns the lowest balance the account may reach: zero, or the
// negated overdraft limit when overdraft is enabled.
func (a Account) Floor() int64 {
	if a.OverdraftEnabled {
		return -a.OverdraftLimit
	}
	return 0
}

// BalanceFromHistory derives the balance implied by the history alone.
func (a Account) BalanceFromHistory() int64 {
	if len(a.History) == 0 {
		return 0
	}
	return a.History[len(a.History)-1].BalanceAfter
}

// LastTimestamp returns the newest history timestamp, or the zero time for
// an empty history.
func (a Account) LastTimestamp() time.Time {
	if len(a.History) == 0 {
		return time.Time{}
	}
	return a.History[len(a.History)-1].Timestamp
}

// Clone returns a deep copy; mutating the copy leaves the original untouched.
func (a Account) Clone() Account {
	out := a
	out.History = make([]Transaction, len(a.History))
	for i, tx := range a.History {
		out.History[i] = tx.Clone()
	}
	return out
}

// Transaction finds an entry in the history by ID.
func (a Account) Transaction(txID string) (Transaction, bool) {
	for _, tx := range a.History {
		if tx.ID == txID {
			return tx, true
		}
	}
	return Transaction{}, false
}
