package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/pairs/backtest"
	"github.com/rustyeddy/pairs/config"
	"github.com/rustyeddy/pairs/journal"
	"github.com/rustyeddy/pairs/market"
	"github.com/rustyeddy/pairs/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a pairs-trading simulation over a price series",
	Long: `Run replays a daily two-instrument price CSV through the spread rule and
prints a summary of the resulting trade ledger.

The CSV needs date, <FIRST>_adj_close, <SECOND>_adj_close and N_t columns.
Files compressed with gzip or xz are read transparently.

Example:
  pairs run --data prices.csv -g 0.05 -j 0.01 -m 30 --stop 0.1 --csv trade_log.csv`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDataPath   string
	runFirst      string
	runSecond     string
	runEntry      float64
	runExit       float64
	runStop       float64
	runLookback   int
	runCost       float64
	runStart      string
	runCSVPath    string
	runDBPath     string
	runVerbose    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "config file (flags override its values)")
	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "path to price series CSV")
	runCmd.Flags().StringVar(&runFirst, "first", "KXI", "first instrument name")
	runCmd.Flags().StringVar(&runSecond, "second", "XLP", "second instrument name")

	runCmd.Flags().Float64VarP(&runEntry, "entry", "g", 0.05, "entry threshold on the return spread")
	runCmd.Flags().Float64VarP(&runExit, "exit", "j", 0.01, "exit threshold on the return spread")
	runCmd.Flags().Float64VarP(&runStop, "stop", "s", 0, "stop-loss fraction of gross entry cash (0 disables)")
	runCmd.Flags().IntVarP(&runLookback, "lookback", "m", 30, "trailing return window in rows")
	runCmd.Flags().Float64Var(&runCost, "cost", 0.00001, "proportional trading cost (zeta)")
	runCmd.Flags().StringVar(&runStart, "start", "2022-01-01", "activation date, no trades before it")

	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "write the trade ledger to this CSV file")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "record the run in this SQLite journal")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "per-day diagnostic output")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Data.Path == "" {
		return fmt.Errorf("a price series is required (--data or data.path in the config file)")
	}

	start, err := cfg.StartDate()
	if err != nil {
		return err
	}

	pair := cfg.Data.Pair()
	series, err := market.LoadCSV(cfg.Data.Path, pair)
	if err != nil {
		return err
	}

	var logger *zap.SugaredLogger
	if runVerbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer zl.Sync()
		logger = zl.Sugar()
	}

	runner := backtest.Runner{
		Series: series,
		Params: sim.Params{
			Entry:    cfg.Strategy.Entry,
			Exit:     cfg.Strategy.Exit,
			Stop:     cfg.Strategy.StopLoss,
			Lookback: cfg.Strategy.Lookback,
			Cost:     cfg.Strategy.Cost,
			Start:    start,
		},
		Logger: logger,
	}

	if cfg.Journal.DBPath != "" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal db: %w", err)
		}
		defer j.Close()
		runner.Journal = j
	}

	ledger, res, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	if cfg.Journal.CSVFile != "" {
		if err := journal.WriteCSV(cfg.Journal.CSVFile, ledger.Rows()); err != nil {
			return fmt.Errorf("write ledger csv: %w", err)
		}
	}

	fmt.Printf("Simulation complete: %s\n", res.RunID)
	fmt.Printf("  Pair:        %s\n", pair)
	fmt.Printf("  Period:      %s .. %s\n", res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Printf("  Ledger rows: %d\n", res.Rows)
	fmt.Printf("  Trades:      %d (wins %d, losses %d, stop-losses %d)\n",
		res.Trades, res.Wins, res.Losses, res.StopLosses)
	fmt.Printf("  Total P&L:   %.2f\n", res.TotalPNL)
	if cfg.Journal.CSVFile != "" {
		fmt.Printf("  Ledger CSV:  %s\n", cfg.Journal.CSVFile)
	}
	if cfg.Journal.DBPath != "" {
		fmt.Printf("  Journal DB:  %s\n", cfg.Journal.DBPath)
	}
	return nil
}

// resolveConfig starts from the config file (or defaults) and lets any
// explicitly set flag win.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.Data.Path = ""
		cfg.Journal = config.JournalConfig{}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = runDataPath
	}
	if flags.Changed("first") {
		cfg.Data.First = runFirst
	}
	if flags.Changed("second") {
		cfg.Data.Second = runSecond
	}
	if flags.Changed("entry") {
		cfg.Strategy.Entry = runEntry
	}
	if flags.Changed("exit") {
		cfg.Strategy.Exit = runExit
	}
	if flags.Changed("stop") {
		if runStop > 0 {
			s := runStop
			cfg.Strategy.StopLoss = &s
		} else {
			cfg.Strategy.StopLoss = nil
		}
	}
	if flags.Changed("lookback") {
		cfg.Strategy.Lookback = runLookback
	}
	if flags.Changed("cost") {
		cfg.Strategy.Cost = runCost
	}
	if flags.Changed("start") {
		cfg.Strategy.Start = runStart
	}
	if flags.Changed("csv") {
		cfg.Journal.CSVFile = runCSVPath
	}
	if flags.Changed("db") {
		cfg.Journal.DBPath = runDBPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
