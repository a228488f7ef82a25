package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffer-dev/coffer/internal/model"
)

func statementAccount() model.Account {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return model.Account{
		ID:      "ACC-1",
		Owner:   "Alice",
		Balance: -7500,
		History: []model.Transaction{
			{
				ID: "TX-1", AccountID: "ACC-1", Type: model.TxDeposit, Amount: 5000,
				Description: "initial deposit", Timestamp: ts,
				BalanceBefore: 0, BalanceAfter: 5000, Status: model.StatusCompleted,
			},
			{
				ID: "TX-2", AccountID: "ACC-1", Type: model.TxWithdrawal, Amount: -10_000,
				Description: "rent, first half", Timestamp: ts.Add(time.Minute),
				BalanceBefore: 5000, BalanceAfter: -5000, Status: model.StatusCompleted,
				ChildTxIDs: []string{"TX-3"},
			},
			{
				ID: "TX-3", AccountID: "ACC-1", Type: model.TxFee, Amount: -2500,
				Description: "overdraft of $50.00: tier 1 fee $25.00", Timestamp: ts.Add(time.Minute),
				BalanceBefore: -5000, BalanceAfter: -7500, Status: model.StatusCompleted,
				ParentTxID: "TX-2",
				Fee: &model.FeeDetails{
					Category:    model.FeeOverdraft,
					Tiers:       []model.TierCharge{{Tier: 1, Amount: 2500}},
					BaseAmount:  2500,
					Explanation: "overdraft of $50.00: tier 1 fee $25.00",
				},
			},
		},
	}
}

func TestWriteStatement(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatement(&buf, statementAccount()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, strings.Split(Header, ","), records[0])

	deposit := records[1]
	assert.Equal(t, "TX-1", deposit[colTxID])
	assert.Equal(t, "2025-06-01T12:00:00Z", deposit[colTimestamp])
	assert.Equal(t, "deposit", deposit[colType])
	assert.Equal(t, "50.00", deposit[colAmount])
	assert.Equal(t, "0.00", deposit[colBalanceBefore])
	assert.Equal(t, "50.00", deposit[colBalanceAfter])
	assert.Equal(t, "completed", deposit[colStatus])
	assert.Empty(t, deposit[colFeeTier])

	withdrawal := records[2]
	assert.Equal(t, "-100.00", withdrawal[colAmount])
	assert.Equal(t, "rent, first half", withdrawal[colDescription])
	assert.Equal(t, "TX-3", withdrawal[colChildTxIDs])

	fee := records[3]
	assert.Equal(t, "fee", fee[colType])
	assert.Equal(t, "-25.00", fee[colAmount])
	assert.Equal(t, "TX-2", fee[colParentTxID])
	assert.Equal(t, "1", fee[colFeeTier])
	assert.Equal(t, "overdraft of $50.00: tier 1 fee $25.00", fee[colFeeExplanation])
}

func TestWriteStatement_EmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatement(&buf, model.Account{ID: "ACC-1"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestStatementPath(t *testing.T) {
	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	got := StatementPath("/ledger", model.Account{ID: "ACC-7"}, now)
	assert.Equal(t, filepath.Join("/ledger", "exports", "statement-ACC-7-20250601.csv"), got)
}

func TestWriteStatementFile(t *testing.T) {
	dir := t.TempDir()
	path := StatementPath(dir, statementAccount(), time.Now())

	require.NoError(t, WriteStatementFile(path, statementAccount()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TX-3")
	assert.Contains(t, string(data), "\"rent, first half\"")
}
