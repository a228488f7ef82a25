// Package export renders account statements as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/model"
	"github.com/coffer-dev/coffer/internal/money"
)

// Header is the CSV header for a statement file.
const Header = "tx_id,timestamp,type,amount,balance_before,balance_after,status,description,parent_tx_id,child_tx_ids,fee_tier,fee_explanation"

const (
	numFields         = 12
	colTxID           = 0
	colTimestamp      = 1
	colType           = 2
	colAmount         = 3
	colBalanceBefore  = 4
	colBalanceAfter   = 5
	colStatus         = 6
	colDescription    = 7
	colParentTxID     = 8
	colChildTxIDs     = 9
	colFeeTier        = 10
	colFeeExplanation = 11
)

// MarshalTransaction converts a transaction to a statement row. Amounts are
// plain decimal dollars; child ids are semicolon-separated.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colTxID] = tx.ID
	row[colTimestamp] = tx.Timestamp.Format(time.RFC3339)
	row[colType] = string(tx.Type)
	row[colAmount] = money.String(tx.Amount)
	row[colBalanceBefore] = money.String(tx.BalanceBefore)
	row[colBalanceAfter] = money.String(tx.BalanceAfter)
	row[colStatus] = string(tx.Status)
	row[colDescription] = tx.Description
	row[colParentTxID] = tx.ParentTxID
	row[colChildTxIDs] = strings.Join(tx.ChildTxIDs, ";")
	if tx.Fee != nil && len(tx.Fee.Tiers) > 0 {
		row[colFeeTier] = strconv.Itoa(tx.Fee.Tiers[0].Tier)
		row[colFeeExplanation] = tx.Fee.Explanation
	}
	return row
}

// WriteStatement writes an account's full history as CSV.
func WriteStatement(w io.Writer, acct model.Account) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, tx := range acct.History {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// StatementPath names the default statement file for an account.
func StatementPath(dir string, acct model.Account, now time.Time) string {
	name := fmt.Sprintf("statement-%s-%s.csv", acct.ID, now.UTC().Format("20060102"))
	return filepath.Join(dir, config.ExportDirName, name)
}

// WriteStatementFile writes the statement to path, creating parent
// directories as needed.
func WriteStatementFile(path string, acct model.Account) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}
	defer f.Close()

	return WriteStatement(f, acct)
}
