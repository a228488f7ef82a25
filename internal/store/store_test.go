package store

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/ledger"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), config.DefaultBackupRetention, quiet())
}

// buildBank assembles a bank holding every transaction type the operations
// produce: opening deposits, a plain deposit, an overdraft with its fee, and
// a transfer pair.
func buildBank(t *testing.T) ledger.Bank {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b, alice, err := ledger.NewBank().AddAccount(ledger.AddAccountParams{
		Owner:            "Alice",
		InitialDeposit:   50_000,
		OverdraftEnabled: true,
		OverdraftLimit:   100_000,
		MaxBalance:       config.DefaultMaxBalance,
		MaxTransaction:   config.DefaultMaxTransaction,
	}, now)
	require.NoError(t, err)

	b, bob, err := b.AddAccount(ledger.AddAccountParams{
		Owner:          "Bob",
		InitialDeposit: 20_000,
		MaxBalance:     config.DefaultMaxBalance,
		MaxTransaction: config.DefaultMaxTransaction,
	}, now)
	require.NoError(t, err)

	// Carol has no history at all.
	b, _, err = b.AddAccount(ledger.AddAccountParams{
		Owner:          "Carol",
		MaxBalance:     config.DefaultMaxBalance,
		MaxTransaction: config.DefaultMaxTransaction,
	}, now)
	require.NoError(t, err)

	b, _, err = b.Deposit(alice.ID, 5_000, "paycheck", now.Add(time.Minute))
	require.NoError(t, err)
	b, _, err = b.Withdraw(alice.ID, 60_000, "rent", now.Add(2*time.Minute))
	require.NoError(t, err)
	b, _, err = b.Transfer(bob.ID, alice.ID, 10_000, "", now.Add(3*time.Minute))
	require.NoError(t, err)
	return b
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)

	require.NoError(t, s.Save(b))
	got := s.Load()

	assert.Equal(t, b, got)
	assert.Empty(t, ledger.ValidateBank(got))
}

func TestLoadMissingStartsEmpty(t *testing.T) {
	s := testStore(t)
	got := s.Load()
	assert.Equal(t, ledger.NewBank(), got)
}

func TestSaveBacksUpPreviousSnapshot(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)

	require.NoError(t, s.Save(b))
	// First save has nothing to back up.
	assert.Empty(t, s.backups())

	b2, _, err := b.Deposit("ACC-2", 1_000, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(b2))

	backups := s.backups()
	require.Len(t, backups, 1)

	// The backup is the previous snapshot, byte for byte decodable.
	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	prev, err := decode(data)
	require.NoError(t, err)
	assert.Equal(t, b, prev)
}

func TestLoadFallsBackToBackup(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)

	require.NoError(t, s.Save(b))
	b2, _, err := b.Deposit("ACC-2", 1_000, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(b2))

	// Scribble over the primary snapshot.
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	got := s.Load()
	assert.Equal(t, b, got, "should restore the backed-up snapshot")
}

func TestLoadSkipsDamagedBackups(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)

	require.NoError(t, s.Save(b))
	b2, _, err := b.Deposit("ACC-2", 1_000, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(b2))
	b3, _, err := b2.Deposit("ACC-2", 2_000, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(b3))

	backups := s.backups()
	require.Len(t, backups, 2)

	// Damage the primary and the newest backup; the older backup survives.
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(backups[0], []byte("also broken"), 0o644))

	got := s.Load()
	assert.Equal(t, b, got)
}

func TestLoadStartsEmptyWhenEverythingIsDamaged(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildBank(t)))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	got := s.Load()
	assert.Equal(t, ledger.NewBank(), got)
}

func TestLoadRejectsInconsistentSnapshot(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)
	require.NoError(t, s.Save(b))

	// Edit the snapshot so it parses but violates balance integrity.
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	bank := snap["bank"].(map[string]any)
	accounts := bank["accounts"].(map[string]any)
	acct := accounts["ACC-2"].(map[string]any)
	acct["balance"] = acct["balance"].(float64) + 100
	edited, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), edited, 0o644))

	got := s.Load()
	assert.Equal(t, ledger.NewBank(), got, "tampered snapshot with no backups starts empty")
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildBank(t)))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	snap["version"] = 99
	edited, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), edited, 0o644))

	got := s.Load()
	assert.Equal(t, ledger.NewBank(), got)
}

func TestPruneKeepsRetentionNewest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 2, quiet())

	b := buildBank(t)
	require.NoError(t, s.Save(b))
	for i := 0; i < 5; i++ {
		var err error
		b, _, err = b.Deposit("ACC-2", 100, "", time.Now())
		require.NoError(t, err)
		require.NoError(t, s.Save(b))
	}

	assert.Len(t, s.backups(), 2)
}

func TestZeroRetentionDisablesBackups(t *testing.T) {
	s := New(t.TempDir(), 0, quiet())
	b := buildBank(t)

	require.NoError(t, s.Save(b))
	b2, _, err := b.Deposit("ACC-2", 100, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Save(b2))

	assert.Empty(t, s.backups())
	_, err = os.Stat(s.BackupDir())
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRefusesInconsistentBank(t *testing.T) {
	s := testStore(t)
	b := buildBank(t)
	acct := b.Accounts["ACC-1"]
	acct.Balance += 1
	b.Accounts["ACC-1"] = acct

	err := s.Save(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildBank(t)))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestSnapshotShape(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.Save(buildBank(t)))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, float64(1), snap["version"])
	assert.Contains(t, snap, "saved_at")
	assert.Contains(t, snap, "bank")
}
