package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zz800",
	Short: "A long-short backtester for A-share baskets hedged with index futures",
	Long: `zz800 replays a monthly-rebalanced long equity basket hedged with short
stock-index futures against historical data, day by day.

It provides tools for:
  - Running a full backtest from CSV price/rate/weight tables
  - Recording the daily asset ledger and per-lot trade records (CSV or SQLite)
  - Serving recorded results over a read-only HTTP API`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
