package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MHMJerry/BackTest-ZZ800/config"
	"github.com/MHMJerry/BackTest-ZZ800/dataset"
	"github.com/MHMJerry/BackTest-ZZ800/journal"
	"github.com/MHMJerry/BackTest-ZZ800/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest from a config file",
	Long: `Run a long-short backtest using settings from a configuration file.

The config file locates the input tables (prices, rates, target weights,
futures contracts), sets the capital, fee and hedge parameters, and selects
where results are recorded.

Example:
  zz800 run -f configs/zz800.yaml --hedge 0.25`,
	RunE: runRun,
}

var (
	runConfigPath string
	runHedgeRatio float64
	runDBPath     string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().Float64Var(&runHedgeRatio, "hedge", -1, "override backtest.hedge_ratio")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "record to this SQLite DB instead of the configured journal")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runHedgeRatio >= 0 {
		cfg.Backtest.HedgeRatio = runHedgeRatio
	}
	if runDBPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}

	log := newLogger()

	fmt.Printf("Running backtest with config: %s\n", runConfigPath)
	fmt.Printf("  Period: %s -> %s (capital %.0f, hedge %.2f)\n",
		cfg.Backtest.Start, cfg.Backtest.End, cfg.Backtest.Capital, cfg.Backtest.HedgeRatio)
	fmt.Printf("  Data: %s\n\n", cfg.Data.Dir)

	store, err := dataset.Load(cfg.Data.Dir, dataset.LoadOptions{
		ForwardFillMaxStale: cfg.Data.ForwardFillMaxStale,
	})
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	weights, err := dataset.ReadWeightSchedule(cfg.Data.WeightsFile)
	if err != nil {
		return fmt.Errorf("load weights: %w", err)
	}

	contracts, err := dataset.ReadContractSchedule(cfg.Data.ContractsFile)
	if err != nil {
		return fmt.Errorf("load contracts: %w", err)
	}

	var j journal.Journal
	if cfg.Journal.Type == "csv" {
		j, err = journal.NewCSV(cfg.Journal.AssetFile, cfg.Journal.LotsFile)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	timeline := store.Timeline(cfg.Backtest.Start, cfg.Backtest.End)

	engine := sim.NewEngine(sim.Params{
		Capital:        cfg.Backtest.Capital,
		HedgeRatio:     cfg.Backtest.HedgeRatio,
		BuyFee:         cfg.Fees.Buy,
		SellFee:        cfg.Fees.Sell,
		DailyManageFee: cfg.Fees.DailyManage(),
		PriorDate:      cfg.Backtest.PriorDate,
	}, store, weights, contracts, timeline, j, log)

	if err := engine.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	st := engine.State()
	fmt.Printf("\nBacktest Complete!\n")
	fmt.Printf("  Days: %d\n", len(timeline))
	fmt.Printf("  Final Asset: %.2f\n", st.Asset)
	fmt.Printf("  Final Cash: %.2f\n", st.Cash)
	fmt.Printf("  Return: %.2f%%\n", (st.Asset/cfg.Backtest.Capital-1)*100)
	if cfg.Journal.Type == "csv" {
		fmt.Printf("\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.AssetFile, cfg.Journal.LotsFile)
	} else {
		fmt.Printf("\nResults saved to: %s\n", cfg.Journal.DBPath)
	}

	return nil
}
