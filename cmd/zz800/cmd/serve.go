package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MHMJerry/BackTest-ZZ800/api"
	"github.com/MHMJerry/BackTest-ZZ800/journal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recorded results over HTTP",
	Long: `Serve the runs, daily ledger and lot records in a SQLite journal as a
read-only JSON API.

Example:
  zz800 serve --db ./backtest.sqlite --addr :8080`,
	RunE: runServe,
}

var (
	serveDBPath string
	serveAddr   string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveDBPath, "db", "./backtest.sqlite", "path to SQLite journal DB")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(serveDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	log := newLogger()
	srv := api.NewServer(j, log)

	log.WithField("addr", serveAddr).Info("serving backtest results")
	return srv.Router().Run(serveAddr)
}
