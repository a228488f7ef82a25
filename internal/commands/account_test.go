package commands_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreate(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice", "--deposit", "150.00")
	require.NoError(t, err, "create failed: %s", out)
	assert.Contains(t, out, "Created ACC-1 for Alice")
	assert.Contains(t, out, "$150.00")

	out, err = runCoffer(t, "account", "show", "ACC-1", "--dir", dir)
	require.NoError(t, err, "show failed: %s", out)
	assert.Contains(t, out, "owner:           Alice")
	assert.Contains(t, out, "status:          active")
	assert.Contains(t, out, "balance:         $150.00")
	assert.Contains(t, out, "transactions:    1")
}

func TestAccountCreate_RequiresOwner(t *testing.T) {
	dir := initLedger(t)

	_, err := runCoffer(t, "account", "create", "--dir", dir)
	require.Error(t, err, "create without --owner should fail")
}

func TestAccountCreate_RejectsBadAmount(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice", "--deposit", "lots")
	require.Error(t, err)
	assert.Contains(t, out, "--deposit")
}

func TestAccountCreate_OverdraftFlags(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "account", "create", "--dir", dir,
		"--owner", "Alice", "--overdraft", "--overdraft-limit", "250.00")
	require.NoError(t, err, "create failed: %s", out)

	out, err = runCoffer(t, "account", "show", "ACC-1", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "overdraft:       enabled, limit $250.00")
}

func TestAccountList(t *testing.T) {
	dir := initLedger(t)

	_, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice", "--deposit", "100.00")
	require.NoError(t, err)
	_, err = runCoffer(t, "account", "create", "--dir", dir, "--owner", "Bob")
	require.NoError(t, err)

	out, err := runCoffer(t, "account", "list", "--dir", dir)
	require.NoError(t, err, "list failed: %s", out)
	assert.Contains(t, out, "ACC-1")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "ACC-2")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "Total fees collected: $0.00")
}

func TestAccountList_Empty(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "account", "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts yet")
}

func TestAccountShow_Unknown(t *testing.T) {
	dir := initLedger(t)

	out, err := runCoffer(t, "account", "show", "ACC-7", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "account not found")
}

func TestAccountLifecycle(t *testing.T) {
	dir := initLedger(t)

	_, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice")
	require.NoError(t, err)

	out, err := runCoffer(t, "account", "suspend", "ACC-1", "--dir", dir)
	require.NoError(t, err, "suspend failed: %s", out)
	assert.Contains(t, out, "Suspended ACC-1")

	out, err = runCoffer(t, "deposit", "ACC-1", "10.00", "--dir", dir)
	require.Error(t, err, "deposit on suspended account should fail")
	assert.Contains(t, out, "suspended")

	out, err = runCoffer(t, "account", "activate", "ACC-1", "--dir", dir)
	require.NoError(t, err, "activate failed: %s", out)
	assert.Contains(t, out, "Reactivated ACC-1")

	out, err = runCoffer(t, "account", "close", "ACC-1", "--dir", dir)
	require.NoError(t, err, "close failed: %s", out)
	assert.Contains(t, out, "Closed ACC-1")

	out, err = runCoffer(t, "account", "activate", "ACC-1", "--dir", dir)
	require.Error(t, err, "closed accounts stay closed")
	assert.Contains(t, out, "closed")
}

func TestAccountClose_NonZeroBalance(t *testing.T) {
	dir := initLedger(t)

	_, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice", "--deposit", "5.00")
	require.NoError(t, err)

	out, err := runCoffer(t, "account", "close", "ACC-1", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "balance")
}

func TestMutationsAutoCommit(t *testing.T) {
	dir := initLedger(t)

	_, err := runCoffer(t, "account", "create", "--dir", dir, "--owner", "Alice", "--deposit", "20.00")
	require.NoError(t, err)
	_, err = runCoffer(t, "deposit", "ACC-1", "5.00", "--dir", dir)
	require.NoError(t, err)

	log := exec.Command("git", "log", "--format=%s", "-5")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "account: create ACC-1 for Alice")
	assert.Contains(t, string(out), "deposit: $5.00 to ACC-1")
}
