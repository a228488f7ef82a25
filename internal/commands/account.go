package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/audit"
	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/money"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(
		newAccountCreateCommand(),
		newAccountListCommand(),
		newAccountShowCommand(),
		newAccountSuspendCommand(),
		newAccountActivateCommand(),
		newAccountCloseCommand(),
	)
	return accountCmd
}

func newAccountCreateCommand() *cobra.Command {
	var owner string
	var deposit, overdraftLimit, maxBalance, maxTransaction string
	var overdraft bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			params := ledger.AddAccountParams{
				Owner:            owner,
				OverdraftEnabled: overdraft,
			}
			defaults := w.cfg.Ledger
			if params.InitialDeposit, err = parseMoneyFlag(deposit, 0); err != nil {
				return fmt.Errorf("--deposit: %w", err)
			}
			if params.OverdraftLimit, err = parseMoneyFlag(overdraftLimit, defaults.DefaultOverdraftLimit); err != nil {
				return fmt.Errorf("--overdraft-limit: %w", err)
			}
			if params.MaxBalance, err = parseMoneyFlag(maxBalance, defaults.DefaultMaxBalance); err != nil {
				return fmt.Errorf("--max-balance: %w", err)
			}
			if params.MaxTransaction, err = parseMoneyFlag(maxTransaction, defaults.DefaultMaxTransaction); err != nil {
				return fmt.Errorf("--max-tx: %w", err)
			}

			return runAccountCreate(w, params)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "account owner name (required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().StringVar(&deposit, "deposit", "", "opening deposit, e.g. 100.00")
	cmd.Flags().BoolVar(&overdraft, "overdraft", false, "enable overdraft protection")
	cmd.Flags().StringVar(&overdraftLimit, "overdraft-limit", "", "overdraft limit (default from coffer.yaml)")
	cmd.Flags().StringVar(&maxBalance, "max-balance", "", "maximum balance (default from coffer.yaml)")
	cmd.Flags().StringVar(&maxTransaction, "max-tx", "", "maximum single transaction (default from coffer.yaml)")

	return cmd
}

func runAccountCreate(w *workspace, params ledger.AddAccountParams) error {
	entry := audit.New("create-account")
	entry.Amount = params.InitialDeposit

	nb, acct, err := w.bank.AddAccount(params, time.Now())
	if err != nil {
		return w.reject(entry, err)
	}
	entry.AccountID = acct.ID
	for _, tx := range acct.History {
		entry.TxIDs = append(entry.TxIDs, tx.ID)
	}

	if err := w.commit(nb, entry, fmt.Sprintf("account: create %s for %s", acct.ID, acct.Owner)); err != nil {
		return err
	}

	fmt.Printf("Created %s for %s (balance %s)\n", acct.ID, acct.Owner, money.Format(acct.Balance))
	return nil
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			ids := w.bank.AccountIDs()
			if len(ids) == 0 {
				fmt.Println("No accounts yet, run \"coffer account create\" first")
				return nil
			}

			fmt.Printf("%-8s  %-24s  %-10s  %14s\n", "ID", "OWNER", "STATUS", "BALANCE")
			for _, id := range ids {
				acct, ok := w.bank.Account(id)
				if !ok {
					continue
				}
				fmt.Printf("%-8s  %-24s  %-10s  %14s\n", acct.ID, acct.Owner, acct.Status, money.Format(acct.Balance))
			}
			fmt.Printf("\nTotal fees collected: %s\n", money.Format(w.bank.TotalFees))
			return nil
		},
	}
}

func newAccountShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show account details",
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

			overdraft := "disabled"
			if acct.OverdraftEnabled {
				overdraft = fmt.Sprintf("enabled, limit %s", money.Format(acct.OverdraftLimit))
			}

			fmt.Printf("%s\n", acct.ID)
			fmt.Printf("  owner:           %s\n", acct.Owner)
			fmt.Printf("  status:          %s\n", acct.Status)
			fmt.Printf("  balance:         %s\n", money.Format(acct.Balance))
			fmt.Printf("  overdraft:       %s\n", overdraft)
			fmt.Printf("  max balance:     %s\n", money.Format(acct.MaxBalance))
			fmt.Printf("  max transaction: %s\n", money.Format(acct.MaxTransaction))
			fmt.Printf("  fees collected:  %s\n", money.Format(acct.TotalFeesCollected))
			fmt.Printf("  transactions:    %d\n", len(acct.History))
			fmt.Printf("  created:         %s\n", acct.CreatedAt.Format(time.RFC3339))
			return nil
		},
	}
}

func newAccountSuspendCommand() *cobra.Command {
	return newLifecycleCommand("suspend", "Suspend an account", "Suspended", ledger.Bank.Suspend)
}

func newAccountActivateCommand() *cobra.Command {
	return newLifecycleCommand("activate", "Reactivate a suspended account", "Reactivated", ledger.Bank.Reactivate)
}

func newAccountCloseCommand() *cobra.Command {
	return newLifecycleCommand("close", "Close an account with zero balance", "Closed", ledger.Bank.Close)
}

func newLifecycleCommand(verb, short, done string, apply func(ledger.Bank, string) (ledger.Bank, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <account-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			id := args[0]
			entry := audit.New(verb)
			entry.AccountID = id

			nb, err := apply(w.bank, id)
			if err != nil {
				return w.reject(entry, err)
			}
			if err := w.commit(nb, entry, fmt.Sprintf("account: %s %s", verb, id)); err != nil {
				return err
			}

			fmt.Printf("%s %s\n", done, id)
			return nil
		},
	}
}
