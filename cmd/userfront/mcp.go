package main

import (
	"github.com/spf13/cobra"
	"github.com/userfront/userfront/internal/app"
	"github.com/userfront/userfront/internal/mcptools"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the user tools to an MCP host over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := app.OpenStore(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			c, err := app.NewClient(opts.cfg, store, mcptools.SessionExpired)
			if err != nil {
				return err
			}
			s, err := mcptools.NewServer(c, version)
			if err != nil {
				return err
			}
			return mcptools.ServeStdio(s)
		},
	}
}
