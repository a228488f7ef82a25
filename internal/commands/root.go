package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/buildinfo"
	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/settings"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	env := settings.Load()
	slog.SetDefault(env.NewLogger())

	rootCmd := &cobra.Command{
		Use:     "coffer",
		Short:   "Single-user ledger with tiered overdraft fees",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ValidatePolicy()
		},
	}

	rootCmd.PersistentFlags().String("dir", env.LedgerDir, "ledger directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(),
		newDepositCommand(),
		newWithdrawCommand(),
		newTransferCommand(),
		newHistoryCommand(),
		newExportCommand(),
		newTiersCommand(),
		newServeCommand(env),
	)

	return rootCmd
}
