// Package cmd provides the CLI commands for vmcatalog.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vmcatalog/internal/config"
	"vmcatalog/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vmcatalog",
	Short: "Collect cloud VM pricing and capability catalogs",
	Long: `vmcatalog acquires VM pricing and capability records from public
cloud data sources, normalizes them into uniform record collections,
and exports them as a multi-sheet spreadsheet.

Examples:
  vmcatalog collect
  vmcatalog collect --limit 500 --output vms.xlsx
  vmcatalog collect --config ./vmcatalog.json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	cfg.ApplyEnvOverrides()

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vmcatalog version 0.1.0")
	},
}
