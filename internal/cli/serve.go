package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/refmark/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server exposing the refmark entry builder.

Endpoints:
  GET  /health        Health check
  POST /api/build     Build an entry from a commit detection document
  POST /api/display   Labels and clamped ranges for an entry
  POST /api/check     Consistency report for an entry
  GET  /api/ws        WebSocket history fold sessions

Address and port default to server.addr and server.port from the config.`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}
	cmd.Flags().StringP("addr", "a", "", "address to listen on")
	cmd.Flags().IntP("port", "p", 0, "port to listen on")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	srvCfg := a.cfg.Server
	if cmd.Flags().Changed("addr") {
		srvCfg.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("port") {
		srvCfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if srvCfg.Port <= 0 || srvCfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", srvCfg.Port)
	}

	srv := api.New(srvCfg.Listen(), api.WithLogger(a.logger), api.WithArrow(a.cfg.Display.Arrow))
	return srv.ListenAndServe()
}
