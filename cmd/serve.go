package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/tabinsight-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	srvFlags     analysisFlags
	srvAddr      string
	srvMaxBodyMB int
	srvAccessLog bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /healthz      liveness probe
  POST /v1/analyze   analyze a JSON array of rows, CSV/TSV text or a multipart
                     upload (field "file"); ?format=json|markdown|html|table
  GET  /v1/cache     cache hit/miss counters`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := srvFlags.options(cmd.Flags(), nil)
		if err != nil {
			return err
		}
		addr := srvAddr
		entries := defaultCacheEntries
		if cfg != nil {
			if addr == "" {
				addr = cfg.ServerAddr
			}
			entries = cfg.CacheEntries
		}
		if addr == "" {
			addr = "127.0.0.1:8080"
		}
		if srvMaxBodyMB < 0 {
			return fmt.Errorf("--max-body-mb must be non-negative")
		}

		s := server.New(server.Config{
			Addr:         addr,
			Options:      opt,
			CacheEntries: entries,
			MaxBodyBytes: int64(srvMaxBodyMB) << 20,
			AccessLog:    srvAccessLog,
		})
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Listening on http://%s\n", addr)
		return s.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	fs := serveCmd.Flags()
	fs.StringVar(&srvAddr, "addr", "", "listen address (default from config server_addr)")
	fs.IntVar(&srvMaxBodyMB, "max-body-mb", 32, "maximum request body size in MiB")
	fs.BoolVar(&srvAccessLog, "access-log", false, "log every request")
	fs.IntVar(&srvFlags.top, "top", 0, "number of category values to list (default from config)")
	fs.IntVar(&srvFlags.maxRows, "max-rows", 0, "maximum valid rows to analyze (default from config, 0 = unlimited)")
	fs.IntVar(&srvFlags.trend, "trend-window", 0, "values of the primary column used for the headline trend (default from config)")
}
