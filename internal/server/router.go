package server

import (
	"github.com/gin-gonic/gin"

	"github.com/coffer-dev/coffer/internal/ledger"
)

// NewRouter wires the HTTP routes. Gin runs without its default logger;
// RequestLogger emits one structured line per request instead.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger))

	r.GET("/health", s.handleHealth)
	r.GET("/policy", s.handlePolicy)

	r.POST("/accounts", s.handleCreateAccount)
	r.GET("/accounts", s.handleListAccounts)
	r.GET("/accounts/:id", s.handleGetAccount)
	r.GET("/accounts/:id/transactions", s.handleHistory)
	r.POST("/accounts/:id/deposit", s.handleDeposit)
	r.POST("/accounts/:id/withdraw", s.handleWithdraw)
	r.POST("/accounts/:id/suspend", s.lifecycle("suspend", ledger.Bank.Suspend))
	r.POST("/accounts/:id/activate", s.lifecycle("activate", ledger.Bank.Reactivate))
	r.POST("/accounts/:id/close", s.lifecycle("close", ledger.Bank.Close))

	r.POST("/transfers", s.handleTransfer)

	return r
}
