package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vango-dev/graft/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	var (
		addr string
		path string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live server",
		Long: `Start the live server.

Clients POST tree documents to /render for HTML, or open a websocket on the
live path and send documents as text messages to receive mutation frames.

Examples:
  graft serve
  graft serve --addr=:8080
  GRAFT_SERVER_ADDR=:8080 graft serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if path != "" {
				cfg.Server.Path = path
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), banner)
			fmt.Fprintln(cmd.OutOrStdout(), "  serve")
			fmt.Fprintln(cmd.OutOrStdout())
			info(cmd.OutOrStdout(), "listening on %s, live path %s", yellow(cfg.Server.Addr), yellow(cfg.Server.Path))

			srv := server.New(&server.ServerConfig{
				Address:   cfg.Server.Addr,
				LivePath:  cfg.Server.Path,
				Namespace: cfg.Metrics.Namespace,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from server.addr)")
	cmd.Flags().StringVar(&path, "path", "", "Websocket path (default from server.path)")

	return cmd
}
