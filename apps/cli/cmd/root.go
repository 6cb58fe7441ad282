package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "harnesskit",
	Short: "Authenticated JSON HTTP calls for test harnesses.",
	Long: `harnesskit provisions a shared, authenticated HTTP transport and runs
requests through the same execution pipeline a test harness uses: typed
failures, buffered bodies, and optional response artifacts.`,
	SilenceUsage: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(versionCmd)
}
