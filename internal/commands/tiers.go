package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/config"
	"github.com/coffer-dev/coffer/internal/money"
)

func newTiersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Show the overdraft fee schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-6s  %-28s  %s\n", "TIER", "OVERDRAFT", "FEE")
			var lower int64 = config.MinTransactionAmount
			for i, tier := range config.OverdraftTiers() {
				span := fmt.Sprintf("%s and above", money.Format(lower))
				if tier.UpTo > 0 {
					span = fmt.Sprintf("%s to %s", money.Format(lower), money.Format(tier.UpTo))
					lower = tier.UpTo + 1
				}
				fmt.Printf("%-6d  %-28s  %s\n", i+1, span, money.Format(tier.Fee))
			}
			return nil
		},
	}
}
