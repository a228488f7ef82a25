package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/money"
)

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show an account's transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			history, err := w.bank.History(args[0])
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Printf("No transactions on %s\n", args[0])
				return nil
			}

			fmt.Printf("%-8s  %-20s  %-13s  %14s  %14s  %s\n",
				"TX", "TIMESTAMP", "TYPE", "AMOUNT", "BALANCE", "DESCRIPTION")
			for _, tx := range history {
				fmt.Printf("%-8s  %-20s  %-13s  %14s  %14s  %s\n",
					tx.ID,
					tx.Timestamp.Format(time.RFC3339),
					tx.Type,
					money.Format(tx.Amount),
					money.Format(tx.BalanceAfter),
					tx.Description,
				)
			}
			return nil
		},
	}
}
