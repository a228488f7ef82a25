// Package server exposes the ledger over HTTP for local tooling. One Server
// owns the in-memory bank; every mutation is persisted before it becomes
// visible, so the snapshot on disk never lags a response.
package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/ledger"
)

// Saver persists bank snapshots. *store.Store satisfies it; the serve
// command wraps it with git auto-commit.
type Saver interface {
	Save(ledger.Bank) error
}

// Server serializes operations on one bank.
type Server struct {
	mu     sync.Mutex
	bank   ledger.Bank
	saver  Saver
	cfg    *config.Config
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Server around an already-loaded bank. dir is the ledger
// directory, used for the audit log.
func New(bank ledger.Bank, saver Saver, cfg *config.Config, dir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		bank:   bank,
		saver:  saver,
		cfg:    cfg,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// commit persists the successor bank and swaps it in. The in-memory bank
// only advances when the snapshot is safely on disk.
func (s *Server) commit(nb ledger.Bank) error {
	if err := s.saver.Save(nb); err != nil {
		return err
	}
	s.bank = nb
	return nil
}

// record appends an audit row, best effort.
func (s *Server) record(e audit.Entry) {
	if err := audit.Append(s.dir, []audit.Entry{e}); err != nil {
		s.logger.Warn("appending audit log", "op", e.Op, "error", err)
	}
}
