package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pairs",
	Short: "A pairs-trading strategy backtester",
	Long: `Pairs replays a historical daily price series for two instruments and
reconstructs the trades a systematic spread-trading rule would have made,
along with the resulting P&L.

It provides tools for:
  - Simulating the return-spread entry/exit/flip rule with stop-loss
  - Reproducible P&L accounting with a proportional trading cost
  - Writing the trade ledger to CSV or a SQLite journal
  - Managing simulation configuration files`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
