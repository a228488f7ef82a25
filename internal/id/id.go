package id

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	txPrefix      = "TX-"
	accountPrefix = "ACC-"
)

// FormatTransactionID returns a transaction ID like "TX-42".
func FormatTransactionID(counter int64) string {
	return fmt.Sprintf("%s%d", txPrefix, counter)
}

// FormatAccountID returns an account ID like "ACC-7".
func FormatAccountID(counter int64) string {
	return fmt.Sprintf("%s%d", accountPrefix, counter)
}

// ParseTransactionID extracts the counter from "TX-42".
func ParseTransactionID(id string) (int64, error) {
	return parse(id, txPrefix, "transaction")
}

// ParseAccountID extracts the counter from "ACC-7".
func ParseAccountID(id string) (int64, error) {
	return parse(id, accountPrefix, "account")
}

func parse(id, prefix, kind string) (int64, error) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0, fmt.Errorf("invalid %s ID format: %q", kind, id)
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid counter in %s ID %q: %w", kind, id, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("counter in %s ID %q must be positive", kind, id)
	}
	return n, nil
}
