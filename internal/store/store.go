// Package store persists bank snapshots as JSON inside a ledger directory,
// keeping timestamped backups of earlier snapshots and falling back to them
// when the primary file is missing or damaged.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/model"
)

const (
	snapshotVersion = 1
	backupPrefix    = "ledger-"
	backupTimeFmt   = "20060102-150405"
)

// snapshot is the on-disk envelope around a bank.
type snapshot struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"saved_at"`
	Bank    ledger.Bank `json:"bank"`
}

// Store reads and writes ledger.json for one ledger directory.
type Store struct {
	dir       string
	retention int
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Store rooted at dir that keeps retention backups. A zero
// retention disables backups entirely.
func New(dir string, retention int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, retention: retention, logger: logger, now: time.Now}
}

// Path returns the primary snapshot path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, config.LedgerFileName)
}

// BackupDir returns the backup directory path.
func (s *Store) BackupDir() string {
	return filepath.Join(s.dir, config.BackupDirName)
}

// Save writes the bank snapshot atomically. The previous snapshot is copied
// into the backup directory before the new one replaces it via rename, so a
// crash mid-save can never lose the last good state.
func (s *Store) Save(b ledger.Bank) error {
	if errs := ledger.ValidateBank(b); len(errs) > 0 {
		return fmt.Errorf("refusing to save inconsistent bank: %s (%d violations)", errs[0], len(errs))
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	if err := s.backupCurrent(); err != nil {
		return err
	}

	snap := snapshot{Version: snapshotVersion, SavedAt: s.now().UTC(), Bank: b}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	s.prune()
	return nil
}

// Load reads the newest usable snapshot. A missing file yields an empty
// bank; a damaged one falls back through the backups, newest first, before
// giving up and starting empty. Load never fails: every path ends in a
// usable bank.
func (s *Store) Load() ledger.Bank {
	data, err := os.ReadFile(s.Path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("no ledger snapshot found, starting empty", "path", s.Path())
		return ledger.NewBank()
	case err != nil:
		s.logger.Warn("reading ledger snapshot", "path", s.Path(), "error", err)
	default:
		b, derr := decode(data)
		if derr == nil {
			return b
		}
		s.logger.Warn("ledger snapshot unusable", "path", s.Path(), "error", derr)
	}

	for _, path := range s.backups() {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("reading backup", "path", path, "error", err)
			continue
		}
		b, derr := decode(data)
		if derr != nil {
			s.logger.Warn("backup unusable", "path", path, "error", derr)
			continue
		}
		s.logger.Warn("restored ledger from backup", "path", path)
		return b
	}

	s.logger.Error("no usable snapshot or backup, starting empty", "dir", s.dir)
	return ledger.NewBank()
}

func decode(data []byte) (ledger.Bank, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ledger.Bank{}, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return ledger.Bank{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	b := snap.Bank
	if b.Accounts == nil {
		b.Accounts = map[string]model.Account{}
	}
	if errs := ledger.ValidateBank(b); len(errs) > 0 {
		return ledger.Bank{}, fmt.Errorf("inconsistent snapshot: %s (%d violations)", errs[0], len(errs))
	}
	return b, nil
}

// backupCurrent copies the existing snapshot into the backup directory under
// a timestamped name.
func (s *Store) backupCurrent() error {
	if s.retention <= 0 {
		return nil
	}
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading current snapshot for backup: %w", err)
	}
	if err := os.MkdirAll(s.BackupDir(), 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	name := backupPrefix + s.now().UTC().Format(backupTimeFmt)
	path := filepath.Join(s.BackupDir(), name+".json")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			break
		}
		path = filepath.Join(s.BackupDir(), fmt.Sprintf("%s-%d.json", name, n))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// backups lists backup files newest first, by modification time.
func (s *Store) backups() []string {
	entries, err := os.ReadDir(s.BackupDir())
	if err != nil {
		return nil
	}
	type backup struct {
		path string
		mod  time.Time
	}
	var found []backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), backupPrefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, backup{path: filepath.Join(s.BackupDir(), e.Name()), mod: info.ModTime()})
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].mod.Equal(found[j].mod) {
			return found[i].mod.After(found[j].mod)
		}
		return found[i].path > found[j].path
	})
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths
}

// prune removes the oldest backups beyond the retention count. Zero
// retention leaves existing backups alone.
func (s *Store) prune() {
	if s.retention <= 0 {
		return
	}
	paths := s.backups()
	if len(paths) <= s.retention {
		return
	}
	for _, path := range paths[s.retention:] {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("pruning backup", "path", path, "error", err)
		}
	}
}
