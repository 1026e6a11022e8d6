package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/userfront/userfront/client"
	"github.com/userfront/userfront/internal/app"
	"github.com/userfront/userfront/internal/config"
	"github.com/userfront/userfront/internal/logger"
)

var version = "dev"

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Stack().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// rootOptions carries the persistent flags and the configuration they
// override.
type rootOptions struct {
	apiURL  string
	debug   bool
	jsonOut bool
	cfg     *config.Config
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "userfront",
		Short:         "Browse and create user records held by the backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				cfg.APIBaseURL = opts.apiURL
			}
			if opts.debug {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}
			opts.cfg = cfg

			logger.InitConsole(logger.ParseLevel(cfg.LogLevel))
			log.Debug().Str("api_base_url", cfg.APIBaseURL).Msg("debug logging enabled")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Backend base URL (overrides USERFRONT_API_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newUsersCmd(opts))
	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newMCPCmd(opts))

	return rootCmd
}

// openClient builds a client over the configured token store. The caller
// must run the returned close function.
func openClient(ctx context.Context, cmd *cobra.Command, opts *rootOptions) (*client.Client, func() error, error) {
	store, closeStore, err := app.OpenStore(ctx, opts.cfg)
	if err != nil {
		return nil, closeStore, err
	}
	stderr := cmd.ErrOrStderr()
	onExpired := func(context.Context) {
		fmt.Fprintln(stderr, "Session expired: run `userfront login --token <token>` to log in again.")
	}
	c, err := app.NewClient(opts.cfg, store, onExpired)
	if err != nil {
		return nil, closeStore, err
	}
	return c, closeStore, nil
}

func dbg(v interface{}) {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}
