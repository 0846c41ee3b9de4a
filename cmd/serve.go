package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MarketScope HTTP API",
	Long: `Serve the screening pipeline over HTTP until interrupted.

Routes:
  POST /api/v1/analyze   run an analysis for a JSON subject
  POST /api/v1/queries   plan queries for a JSON subject
  GET  /api/v1/hscodes   suggest HS codes for ?q=<text>
  GET  /api/v1/weights   show the effective scoring weights
  GET  /healthz          liveness probe

Examples:
  marketscope serve --addr :9090
  curl -s localhost:9090/api/v1/analyze -d '{"target_name":"Turkey","products":["crumb rubber"]}'`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		rootCtx = core.WithSuppressHeader(rootCtx)
		return sharedSetupWrapper(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, cfg, cacheManager, version)
	},
}
