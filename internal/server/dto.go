package server

import (
	"time"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/model"
	"github.com/coffer-dev/coffer/internal/money"
)

// Request bodies. Amounts travel as decimal dollar strings ("125.50") and
// are parsed strictly; limits left empty fall back to the configured
// defaults.

type CreateAccountRequest struct {
	Owner            string `json:"owner" binding:"required"`
	InitialDeposit   string `json:"initial_deposit"`
	OverdraftEnabled bool   `json:"overdraft_enabled"`
	OverdraftLimit   string `json:"overdraft_limit"`
	MaxBalance       string `json:"max_balance"`
	MaxTransaction   string `json:"max_transaction"`
}

type AmountRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type TransferRequest struct {
	From        string `json:"from" binding:"required"`
	To          string `json:"to" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// Response bodies carry both formatted dollars and raw cents.

type ErrorResponse struct {
	Error string `json:"error"`
}

type AccountResponse struct {
	ID                 string    `json:"id"`
	Owner              string    `json:"owner"`
	Balance            string    `json:"balance"`
	BalanceCents       int64     `json:"balance_cents"`
	OverdraftEnabled   bool      `json:"overdraft_enabled"`
	OverdraftLimit     string    `json:"overdraft_limit"`
	MaxBalance         string    `json:"max_balance"`
	MaxTransaction     string    `json:"max_transaction"`
	TotalFeesCollected string    `json:"total_fees_collected"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	Transactions       int       `json:"transactions"`
}

type FeeBreakdownResponse struct {
	Category    string `json:"category"`
	Tier        int    `json:"tier"`
	Base        string `json:"base"`
	Explanation string `json:"explanation"`
}

type TransactionResponse struct {
	ID            string                `json:"id"`
	AccountID     string                `json:"account_id"`
	Type          string                `json:"type"`
	Amount        string                `json:"amount"`
	AmountCents   int64                 `json:"amount_cents"`
	Description   string                `json:"description,omitempty"`
	Timestamp     time.Time             `json:"timestamp"`
	BalanceBefore string                `json:"balance_before"`
	BalanceAfter  string                `json:"balance_after"`
	Status        string                `json:"status"`
	ParentTxID    string                `json:"parent_tx_id,omitempty"`
	ChildTxIDs    []string              `json:"child_tx_ids,omitempty"`
	Fee           *FeeBreakdownResponse `json:"fee,omitempty"`
}

type OperationResponse struct {
	Transaction TransactionResponse  `json:"transaction"`
	Fee         *TransactionResponse `json:"fee,omitempty"`
	FeeCharged  string               `json:"fee_charged,omitempty"`
}

type TransferResponse struct {
	Out        TransactionResponse  `json:"out"`
	In         TransactionResponse  `json:"in"`
	Fee        *TransactionResponse `json:"fee,omitempty"`
	FeeCharged string               `json:"fee_charged,omitempty"`
}

type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	TotalFees string            `json:"total_fees"`
}

type HistoryResponse struct {
	AccountID    string                `json:"account_id"`
	Transactions []TransactionResponse `json:"transactions"`
}

type TierResponse struct {
	Tier  int    `json:"tier"`
	UpTo  string `json:"up_to,omitempty"`
	Fee   string `json:"fee"`
	Range string `json:"range"`
}

type PolicyResponse struct {
	MinTransaction        string         `json:"min_transaction"`
	MaxOwnerNameLength    int            `json:"max_owner_name_length"`
	OverdraftTiers        []TierResponse `json:"overdraft_tiers"`
	DefaultMaxBalance     string         `json:"default_max_balance"`
	DefaultMaxTransaction string         `json:"default_max_transaction"`
	DefaultOverdraftLimit string         `json:"default_overdraft_limit"`
}

func toAccountResponse(acct model.Account) AccountResponse {
	return AccountResponse{
		ID:                 acct.ID,
		Owner:              acct.Owner,
		Balance:            money.Format(acct.Balance),
		BalanceCents:       acct.Balance,
		OverdraftEnabled:   acct.OverdraftEnabled,
		OverdraftLimit:     money.Format(acct.OverdraftLimit),
		MaxBalance:         money.Format(acct.MaxBalance),
		MaxTransaction:     money.Format(acct.MaxTransaction),
		TotalFeesCollected: money.Format(acct.TotalFeesCollected),
		Status:             string(acct.Status),
		CreatedAt:          acct.CreatedAt,
		Transactions:       len(acct.History),
	}
}

func toTransactionResponse(tx model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            tx.ID,
		AccountID:     tx.AccountID,
		Type:          string(tx.Type),
		Amount:        money.Format(tx.Amount),
		AmountCents:   tx.Amount,
		Description:   tx.Description,
		Timestamp:     tx.Timestamp,
		BalanceBefore: money.Format(tx.BalanceBefore),
		BalanceAfter:  money.Format(tx.BalanceAfter),
		Status:        string(tx.Status),
		ParentTxID:    tx.ParentTxID,
		ChildTxIDs:    tx.ChildTxIDs,
	}
	if tx.Fee != nil {
		fee := &FeeBreakdownResponse{
			Category:    string(tx.Fee.Category),
			Base:        money.Format(tx.Fee.BaseAmount),
			Explanation: tx.Fee.Explanation,
		}
		if len(tx.Fee.Tiers) > 0 {
			fee.Tier = tx.Fee.Tiers[0].Tier
		}
		resp.Fee = fee
	}
	return resp
}

func toWithdrawResponse(res ledger.WithdrawResult) OperationResponse {
	out := OperationResponse{Transaction: toTransactionResponse(res.Withdrawal)}
	if res.Fee != nil {
		fee := toTransactionResponse(*res.Fee)
		out.Fee = &fee
		out.FeeCharged = money.Format(res.FeeCharged())
	}
	return out
}

func toTransferResponse(res ledger.TransferResult) TransferResponse {
	out := TransferResponse{
		Out: toTransactionResponse(res.Out),
		In:  toTransactionResponse(res.In),
	}
	if res.Fee != nil {
		fee := toTransactionResponse(*res.Fee)
		out.Fee = &fee
		out.FeeCharged = money.Format(-res.Fee.Amount)
	}
	return out
}

func toPolicyResponse(cfg *config.Config) PolicyResponse {
	tiers := config.OverdraftTiers()
	resp := PolicyResponse{
		MinTransaction:        money.Format(config.MinTransactionAmount),
		MaxOwnerNameLength:    config.MaxOwnerNameLen,
		DefaultMaxBalance:     money.Format(cfg.Ledger.DefaultMaxBalance),
		DefaultMaxTransaction: money.Format(cfg.Ledger.DefaultMaxTransaction),
		DefaultOverdraftLimit: money.Format(cfg.Ledger.DefaultOverdraftLimit),
	}
	var lower int64 = 1
	for i, tier := range tiers {
		tr := TierResponse{Tier: i + 1, Fee: money.Format(tier.Fee)}
		if tier.UpTo > 0 {
			tr.UpTo = money.Format(tier.UpTo)
			tr.Range = money.Format(lower) + " to " + money.Format(tier.UpTo)
			lower = tier.UpTo + 1
		} else {
			tr.Range = money.Format(lower) + " and above"
		}
		resp.OverdraftTiers = append(resp.OverdraftTiers, tr)
	}
	return resp
}
