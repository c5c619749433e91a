package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grocerly/grocery-admin/pkg/cli/config"
	httpctrl "github.com/grocerly/grocery-admin/pkg/controller/http"
	"github.com/grocerly/grocery-admin/pkg/service/preview"
	"github.com/grocerly/grocery-admin/pkg/service/worker"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var apiToken string
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var rt runtime
	var notifyCfg config.Notify
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("GROCERY_ADMIN_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token required on every API request (disabled when empty)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("GROCERY_ADMIN_API_TOKEN"),
			Destination: &apiToken,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which an open form session is discarded",
			Category:    "Form",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("GROCERY_ADMIN_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of the idle form session sweep",
			Category:    "Form",
			Value:       time.Minute,
			Sources:     cli.EnvVars("GROCERY_ADMIN_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}
	flags = append(flags, rt.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the admin API server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			notifier, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}

			previews := preview.New()
			ucOpts := []usecase.Option{usecase.WithPreviewIssuer(previews)}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
			}

			uc, closeBackend, err := rt.open(ctx, ucOpts...)
			if err != nil {
				return err
			}
			defer closeBackend()

			logging.Default().Info("Configuration loaded",
				"backend", rt.backend,
				"form", rt.form,
				"notify", notifyCfg,
				"sentry", sentryCfg,
				"resources", len(uc.Schemas().Resources()),
			)

			sessions := usecase.NewFormSessions()
			defer sessions.CloseAll()

			sweeper := worker.NewSessionSweeper(sessions, sweepInterval, sessionTTL)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithSessions(sessions),
				httpctrl.WithPreviews(previews),
			}
			if apiToken != "" {
				httpOpts = append(httpOpts, httpctrl.WithAPIToken(apiToken))
			} else {
				logging.Default().Warn("API token not configured, the API is open to anyone who can reach it")
			}

			httpHandler, err := httpctrl.New(uc, httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "auth", apiToken != "")
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			sweeper.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
