package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/money"
)

func newWithdrawCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "withdraw <account-id> <amount>",
		Short: "Withdraw money from an account",
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
			return runWithdraw(w, args[0], amount, description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "transaction description")

	return cmd
}

func runWithdraw(w *workspace, accountID string, amount int64, description string) error {
	entry := audit.New("withdraw")
	entry.AccountID = accountID
	entry.Amount = amount

	nb, res, err := w.bank.Withdraw(accountID, amount, description, time.Now())
	if err != nil {
		return w.reject(entry, err)
	}
	entry.TxIDs = []string{res.Withdrawal.ID}
	if res.Fee != nil {
		entry.TxIDs = append(entry.TxIDs, res.Fee.ID)
	}

	message := fmt.Sprintf("withdraw: %s from %s", money.Format(amount), accountID)
	if err := w.commit(nb, entry, message); err != nil {
		return err
	}

	wtx := res.Withdrawal
	fmt.Printf("Withdrew %s from %s (%s), balance %s\n",
		money.Format(-wtx.Amount), accountID, wtx.ID, money.Format(wtx.BalanceAfter))
	if res.Fee != nil {
		fmt.Printf("Overdraft fee charged: %s (%s), balance %s\n",
			money.Format(res.FeeCharged()), res.Fee.ID, money.Format(res.Fee.BalanceAfter))
	}
	return nil
}
