package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/userfront/userfront/internal/app"
	"github.com/userfront/userfront/internal/health"
	"github.com/userfront/userfront/internal/logger"
	"github.com/userfront/userfront/internal/web"
	"github.com/userfront/userfront/tokenstore"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			// the server logs JSON; CLI commands keep the console writer
			log.Logger = logger.New("userfront-web")
			if addr != "" {
				cfg.ListenAddr = addr
			}

			// the browser session holds the token, not the configured store
			c, err := app.NewClient(cfg, tokenstore.Context{}, web.SessionExpired)
			if err != nil {
				return err
			}
			if cfg.SessionKey == "" {
				log.Warn().Msg("USERFRONT_SESSION_KEY not set; sessions will not survive a restart")
			}
			srv, err := web.New(c, health.NewProbe(cfg.APIBaseURL, 3*time.Second), web.SessionKey(cfg.SessionKey))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, &http.Server{
				Addr:         cfg.ListenAddr,
				Handler:      srv.Handler(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides USERFRONT_LISTEN_ADDR)")
	return cmd
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- pkgerrors.Wrapf(err, "listen on %s", server.Addr)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return pkgerrors.Wrap(err, "server forced to shutdown")
	}
	log.Info().Msg("Server exited")
	return nil
}
