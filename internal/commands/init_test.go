package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "coffer-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "coffer")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/coffer")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runCoffer(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// initLedger creates a fresh ledger directory for a test.
func initLedger(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runCoffer(t, "init", dir)
	require.NoError(t, err, "init failed: %s", out)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runCoffer(t, "init", dir)
	require.NoError(t, err, "init failed: %s", out)

	for _, d := range []string{"logs", "exports", "backups"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	for _, f := range []string{"coffer.yaml", "ledger.json", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, "file %s should exist", f)
	}
}

func TestInit_Config(t *testing.T) {
	dir := initLedger(t)

	data, err := os.ReadFile(filepath.Join(dir, "coffer.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "default_max_balance: 100000000")
	assert.Contains(t, contents, "default_max_transaction: 10000000")
	assert.Contains(t, contents, "default_overdraft_limit: 100000")
	assert.Contains(t, contents, "auto_commit: true")
}

func TestInit_EmptyLedger(t *testing.T) {
	dir := initLedger(t)

	data, err := os.ReadFile(filepath.Join(dir, "ledger.json"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, `"version": 1`)
	assert.Contains(t, contents, `"next_tx_id": 1`)
	assert.Contains(t, contents, `"next_account_id": 1`)
}

func TestInit_GitRepo(t *testing.T) {
	dir := initLedger(t)

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Coffer <ledger@coffer.dev>")
}

func TestInit_NoGit(t *testing.T) {
	dir := t.TempDir()
	out, err := runCoffer(t, "init", dir, "--no-git")
	require.NoError(t, err, "init failed: %s", out)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), ".git should not exist")
}

func TestInit_Gitignore(t *testing.T) {
	dir := initLedger(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	contents := string(data)

	for _, pattern := range []string{"backups/", "exports/", ".env"} {
		assert.Contains(t, contents, pattern, ".gitignore should contain %s", pattern)
	}
}

func TestInit_RefusesExistingLedger(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already contains a ledger")
}
