package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/money"
)

func newTransferCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "transfer <from-account-id> <to-account-id> <amount>",
		Short: "Transfer money between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			amount, err := money.Parse(args[2])
			if err != nil {
				return err
			}
			return runTransfer(w, args[0], args[1], amount, description)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "transaction description")

	return cmd
}

func runTransfer(w *workspace, fromID, toID string, amount int64, description string) error {
	entry := audit.New("transfer")
	entry.AccountID = fromID
	entry.Counterparty = toID
	entry.Amount = amount

	nb, res, err := w.bank.Transfer(fromID, toID, amount, description, time.Now())
	if err != nil {
		return w.reject(entry, err)
	}
	entry.TxIDs = []string{res.Out.ID, res.In.ID}
	if res.Fee != nil {
		entry.TxIDs = append(entry.TxIDs, res.Fee.ID)
	}

	message := fmt.Sprintf("transfer: %s from %s to %s", money.Format(amount), fromID, toID)
	if err := w.commit(nb, entry, message); err != nil {
		return err
	}

	fmt.Printf("Transferred %s from %s to %s (%s/%s)\n",
		money.Format(amount), fromID, toID, res.Out.ID, res.In.ID)
	fmt.Printf("%s balance %s, %s balance %s\n",
		fromID, money.Format(res.Out.BalanceAfter), toID, money.Format(res.In.BalanceAfter))
	if res.Fee != nil {
		fmt.Printf("Overdraft fee charged: %s (%s), balance %s\n",
			money.Format(-res.Fee.Amount), res.Fee.ID, money.Format(res.Fee.BalanceAfter))
	}
	return nil
}
