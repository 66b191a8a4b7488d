package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/tabinsight-cli/internal/config"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tabinsight",
	Short: "tabinsight: statistics and insights for tabular data",
	Long: `tabinsight reads CSV, TSV, XLSX, JSON, Markdown or Word tables, infers column types,
computes descriptive statistics, outliers, correlations and trends, and turns them
into a short list of plain-language insights.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabinsight/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	}
	cfg = c

	lc := logging.Config{Level: "warn"}
	if cfg != nil {
		lc.Level, lc.Format = cfg.LogLevel, cfg.LogFormat
	}
	if debug {
		lc.Level = "debug"
	}
	if err := logging.Init(lc); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		_ = logging.Init(logging.Config{Level: "warn"})
	}
}
