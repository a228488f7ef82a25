package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/buildinfo"
	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/money"
)

// statusFor maps ledger errors onto HTTP status codes. Malformed requests
// are 400, business-rule rejections 422, unknown accounts 404.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidOwner),
		errors.Is(err, ledger.ErrInvalidLimits),
		errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrMaxBalanceExceeded),
		errors.Is(err, ledger.ErrMaxTransactionExceeded),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrAccountNotActive),
		errors.Is(err, ledger.ErrAccountClosed),
		errors.Is(err, ledger.ErrAccountNotEmpty):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		GetLogger(c).Error("operation failed", "error", err)
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// parseOptional reads a dollar string, falling back when it is empty.
func parseOptional(s string, fallback int64) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return money.Parse(s)
}

func (s *Server) newEntry(c *gin.Context, op string) audit.Entry {
	e := audit.New(op)
	if id := RequestID(c); id != "" {
		e.RequestID = id
	}
	return e
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handlePolicy(c *gin.Context) {
	c.JSON(http.StatusOK, toPolicyResponse(s.cfg))
}

func (s *Server) handleCreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	params := ledger.AddAccountParams{
		Owner:            req.Owner,
		OverdraftEnabled: req.OverdraftEnabled,
	}
	var err error
	if params.InitialDeposit, err = parseOptional(req.InitialDeposit, 0); err != nil {
		badRequest(c, err)
		return
	}
	defaults := s.cfg.Ledger
	if params.OverdraftLimit, err = parseOptional(req.OverdraftLimit, defaults.DefaultOverdraftLimit); err != nil {
		badRequest(c, err)
		return
	}
	if params.MaxBalance, err = parseOptional(req.MaxBalance, defaults.DefaultMaxBalance); err != nil {
		badRequest(c, err)
		return
	}
	if params.MaxTransaction, err = parseOptional(req.MaxTransaction, defaults.DefaultMaxTransaction); err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.newEntry(c, "create-account")
	entry.Amount = params.InitialDeposit
	nb, acct, err := s.bank.AddAccount(params, s.now())
	if err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	entry.AccountID = acct.ID
	for _, tx := range acct.History {
		entry.TxIDs = append(entry.TxIDs, tx.ID)
	}
	if err := s.commit(nb); err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	s.record(entry)
	c.JSON(http.StatusCreated, toAccountResponse(acct))
}

func (s *Server) handleListAccounts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := ListAccountsResponse{
		Accounts:  []AccountResponse{},
		TotalFees: money.Format(s.bank.TotalFees),
	}
	for _, id := range s.bank.AccountIDs() {
		if acct, ok := s.bank.Account(id); ok {
			resp.Accounts = append(resp.Accounts, toAccountResponse(acct))
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetAccount(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	acct, ok := s.bank.Account(id)
	if !ok {
		s.writeError(c, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id))
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acct))
}

func (s *Server) handleHistory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	history, err := s.bank.History(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := HistoryResponse{AccountID: id, Transactions: []TransactionResponse{}}
	for _, tx := range history {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	entry := s.newEntry(c, "deposit")
	entry.AccountID = id
	entry.Amount = amount
	nb, tx, err := s.bank.Deposit(id, amount, req.Description, s.now())
	if err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	entry.TxIDs = []string{tx.ID}
	if err := s.commit(nb); err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	s.record(entry)
	c.JSON(http.StatusOK, OperationResponse{Transaction: toTransactionResponse(tx)})
}

func (s *Server) handleWithdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	entry := s.newEntry(c, "withdraw")
	entry.AccountID = id
	entry.Amount = amount
	nb, res, err := s.bank.Withdraw(id, amount, req.Description, s.now())
	if err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	entry.TxIDs = []string{res.Withdrawal.ID}
	if res.Fee != nil {
		entry.TxIDs = append(entry.TxIDs, res.Fee.ID)
	}
	if err := s.commit(nb); err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	s.record(entry)
	c.JSON(http.StatusOK, toWithdrawResponse(res))
}

func (s *Server) handleTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		badRequest(c, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.newEntry(c, "transfer")
	entry.AccountID = req.From
	entry.Counterparty = req.To
	entry.Amount = amount
	nb, res, err := s.bank.Transfer(req.From, req.To, amount, req.Description, s.now())
	if err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	entry.TxIDs = []string{res.Out.ID, res.In.ID}
	if res.Fee != nil {
		entry.TxIDs = append(entry.TxIDs, res.Fee.ID)
	}
	if err := s.commit(nb); err != nil {
		entry.Result = audit.Outcome(err)
		s.record(entry)
		s.writeError(c, err)
		return
	}
	s.record(entry)
	c.JSON(http.StatusOK, toTransferResponse(res))
}

// lifecycle builds a handler for the suspend, activate and close endpoints,
// which share everything but the bank operation.
func (s *Server) lifecycle(op string, apply func(ledger.Bank, string) (ledger.Bank, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		id := c.Param("id")
		entry := s.newEntry(c, op)
		entry.AccountID = id
		nb, err := apply(s.bank, id)
		if err != nil {
			entry.Result = audit.Outcome(err)
			s.record(entry)
			s.writeError(c, err)
			return
		}
		if err := s.commit(nb); err != nil {
			entry.Result = audit.Outcome(err)
			s.record(entry)
			s.writeError(c, err)
			return
		}
		s.record(entry)
		acct, _ := s.bank.Account(id)
		c.JSON(http.StatusOK, toAccountResponse(acct))
	}
}
