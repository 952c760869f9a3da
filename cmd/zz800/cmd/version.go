package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the zz800 CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zz800 version %s\n", version)
		fmt.Println("A long-short backtester for A-share baskets hedged with index futures")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
