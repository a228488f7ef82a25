package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/gitops"
	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/money"
	"github.com/coffer-dev/coffer/internal/store"
)

// parseMoneyFlag reads a dollar flag value, falling back when the flag was
// not set.
func parseMoneyFlag(s string, fallback int64) (int64, error) {
	if s == "" {
		return fallback, nil
	}
	return money.Parse(s)
}

// workspace is an opened ledger directory: its policy config, the snapshot
// store and the bank loaded from disk.
type workspace struct {
	dir   string
	cfg   *config.Config
	store *store.Store
	bank  ledger.Bank
}

func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a coffer ledger, run \"coffer init\" first", absDir)
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}

	st := store.New(absDir, cfg.Backups.Retention, slog.Default())
	return &workspace{dir: absDir, cfg: cfg, store: st, bank: st.Load()}, nil
}

// commit persists the successor bank, records the audit row and auto-commits
// the snapshot when git integration is on. On save failure the workspace
// keeps its previous bank.
func (w *workspace) commit(nb ledger.Bank, entry audit.Entry, message string) error {
	if err := w.store.Save(nb); err != nil {
		entry.Result = audit.Outcome(err)
		w.record(entry)
		return err
	}
	w.bank = nb
	w.record(entry)
	w.autoCommit(message)
	return nil
}

func (w *workspace) record(entry audit.Entry) {
	if err := audit.Append(w.dir, []audit.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
	}
}

// reject records a failed operation and returns its error unchanged.
func (w *workspace) reject(entry audit.Entry, err error) error {
	entry.Result = audit.Outcome(err)
	w.record(entry)
	return err
}

func (w *workspace) autoCommit(message string) {
	if !w.cfg.Git.AutoCommit || !gitops.IsRepo(w.dir) {
		return
	}
	changed, err := gitops.HasChanges(w.dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: git status failed: %v\n", err)
		return
	}
	if !changed {
		return
	}
	if _, err := gitops.CommitAll(w.dir, message, w.cfg.Git.AuthorName, w.cfg.Git.AuthorEmail); err != nil {
		fmt.Fprintf(os.Stderr, "warning: git commit failed: %v\n", err)
	}
}
