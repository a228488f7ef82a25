package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/export"
	"github.com/coffer-dev/coffer/internal/ledger"
)

func newExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <account-id>",
		Short: "Export an account statement as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			acct, ok := w.bank.Account(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, args[0])
			}

			path := out
			if path == "" {
				path = export.StatementPath(w.dir, acct, time.Now())
			}
			if err := export.WriteStatementFile(path, acct); err != nil {
				return fmt.Errorf("writing statement: %w", err)
			}

			fmt.Printf("Exported %s statement to %s\n", acct.ID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default exports/statement-<id>-<date>.csv)")

	return cmd
}
