// Package cli defines the Cobra command tree for the cuml CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zhylkaaa/cuml/internal/config"
	"github.com/Zhylkaaa/cuml/pkg/log"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cuml",
	Short: "Inspect and self-test the cuml runtime",
	Long: `cuml is the companion tool of the cuml library. It reports which
native backends are registered, lists the device inventory, and runs a
runtime self-test so deployment problems surface before the first model
does.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log.SetupLogger(cfg.LogLevel)
		return nil
	},
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newDevicesCmd(),
		newCheckCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cuml %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
