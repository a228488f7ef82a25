// Package audit appends one CSV row per ledger operation, successful or not,
// to logs/audit-log.csv inside the ledger directory.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp    time.Time
	RequestID    string
	Op           string
	AccountID    string
	Counterparty string
	Amount       int64
	TxIDs        []string
	Result       string
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,request_id,op,account_id,counterparty,amount,tx_ids,result"

const (
	numFields       = 8
	logDir          = "logs"
	logFile         = "logs/audit-log.csv"
	colTimestamp    = 0
	colRequestID    = 1
	colOp           = 2
	colAccountID    = 3
	colCounterparty = 4
	colAmount       = 5
	colTxIDs        = 6
	colResult       = 7
)

// New starts an entry for op, stamped with the current time and a fresh
// request id. The caller fills in the rest.
func New(op string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		RequestID: uuid.NewString(),
		Op:        op,
		Result:    "ok",
	}
}

// Outcome renders an operation error for the Result column.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}

// MarshalEntry converts an Entry to a CSV row. Amount is integer cents;
// transaction ids are semicolon-separated.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRequestID] = e.RequestID
	row[colOp] = e.Op
	row[colAccountID] = e.AccountID
	row[colCounterparty] = e.Counterparty
	row[colAmount] = strconv.FormatInt(e.Amount, 10)
	row[colTxIDs] = strings.Join(e.TxIDs, ";")
	row[colResult] = e.Result
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	amount, err := strconv.ParseInt(record[colAmount], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var txIDs []string
	if record[colTxIDs] != "" {
		txIDs = strings.Split(record[colTxIDs], ";")
	}

	return Entry{
		Timestamp:    ts,
		RequestID:    record[colRequestID],
		Op:           record[colOp],
		AccountID:    record[colAccountID],
		Counterparty: record[colCounterparty],
		Amount:       amount,
		TxIDs:        txIDs,
		Result:       record[colResult],
	}, nil
}

// Append writes entries to <dir>/logs/audit-log.csv, creating the file and
// header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dir>/logs/audit-log.csv. A missing file
// reads as empty.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
