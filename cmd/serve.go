package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Karthik-beta/data-app/internal/auth"
	"github.com/Karthik-beta/data-app/internal/config"
	"github.com/Karthik-beta/data-app/internal/server"
	"github.com/Karthik-beta/data-app/internal/store"
)

var servePort int

// newAuthenticator builds the authenticator from config, including the
// configured token lifetime.
func newAuthenticator(c config.AuthConfig) (*auth.Authenticator, error) {
	return auth.New(c.Secret, c.Users,
		auth.WithTokenTTL(time.Duration(c.TokenTTLDays)*24*time.Hour))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		authenticator, err := newAuthenticator(cfg.Auth)
		if err != nil {
			return err
		}

		srv := server.New(st, authenticator, cfg.Server, cfg.Env == "production").
			WithCookieName(cfg.Auth.CookieName)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Routes(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("driver", cfg.Store.Driver))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
