package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/money"
)

func newDepositCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "deposit <account-id> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}
			return runDeposit(w, args[0], amount, description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "transaction description")

	return cmd
}

func runDeposit(w *workspace, accountID string, amount int64, description string) error {
	entry := audit.New("deposit")
	entry.AccountID = accountID
	entry.Amount = amount

	nb, tx, err := w.bank.Deposit(accountID, amount, description, time.Now())
	if err != nil {
		return w.reject(entry, err)
	}
	entry.TxIDs = []string{tx.ID}

	message := fmt.Sprintf("deposit: %s to %s", money.Format(amount), accountID)
	if err := w.commit(nb, entry, message); err != nil {
		return err
	}

	fmt.Printf("Deposited %s to %s (%s), balance %s\n",
		money.Format(tx.Amount), accountID, tx.ID, money.Format(tx.BalanceAfter))
	return nil
}
