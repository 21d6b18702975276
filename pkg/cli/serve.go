package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diveops/watchkeeper/pkg/cli/config"
	server "github.com/diveops/watchkeeper/pkg/controller/http"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/usecase"
	"github.com/diveops/watchkeeper/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr         string
		interval     time.Duration
		noScheduler  bool
		sentryCfg    config.Sentry
		firestoreCfg config.Firestore
		policyCfg    config.Policy
		smtpCfg      config.SMTP
		slackCfg     config.Slack
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("WATCHKEEPER_ADDR"),
				Usage:       "Listen address (default: 127.0.0.1:8080)",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Aliases:     []string{"i"},
				Sources:     cli.EnvVars("WATCHKEEPER_INTERVAL"),
				Usage:       "Escalation cycle interval",
				Value:       time.Minute,
				Destination: &interval,
			},
			&cli.BoolFlag{
				Name:        "no-scheduler",
				Usage:       "Disable the in-process scheduler (rely on POST /api/escalate)",
				Sources:     cli.EnvVars("WATCHKEEPER_NO_SCHEDULER"),
				Destination: &noScheduler,
			},
		},
		sentryCfg.Flags(),
		firestoreCfg.Flags(),
		policyCfg.Flags(),
		smtpCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Run the escalation engine with an HTTP API and scheduler",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.Default().Info("starting watchkeeper",
				"addr", addr,
				"interval", interval,
				"no-scheduler", noScheduler,
				"sentry", sentryCfg,
				"firestore", firestoreCfg,
				"policy", policyCfg,
				"smtp", smtpCfg,
				"slack", slackCfg,
			)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			uc, cleanup, err := buildUseCases(ctx, &firestoreCfg, &policyCfg, &smtpCfg, &slackCfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
			defer stop()

			if !noScheduler {
				go runScheduler(ctx, uc, interval)
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.From(ctx).Info("http server listening", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				logging.From(ctx).Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}
}

// runScheduler invokes one escalation cycle per tick until the context is
// cancelled. A failed cycle is reported and the next tick retries wholesale.
func runScheduler(ctx context.Context, uc *usecase.UseCases, interval time.Duration) {
	logger := logging.From(ctx)
	logger.Info("scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if _, err := uc.RunOnce(ctx); err != nil {
				errs.Handle(ctx, err)
			}
		}
	}
}
