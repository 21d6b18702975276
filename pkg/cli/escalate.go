package cli

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/cli/config"
	"github.com/diveops/watchkeeper/pkg/service/notifier"
	"github.com/diveops/watchkeeper/pkg/usecase"
	"github.com/diveops/watchkeeper/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdEscalate() *cli.Command {
	var (
		dryRun       bool
		sentryCfg    config.Sentry
		firestoreCfg config.Firestore
		policyCfg    config.Policy
		smtpCfg      config.SMTP
		slackCfg     config.Slack
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Render email to the console instead of delivering it",
				Destination: &dryRun,
			},
		},
		sentryCfg.Flags(),
		firestoreCfg.Flags(),
		policyCfg.Flags(),
		smtpCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:    "escalate",
		Aliases: []string{"e"},
		Usage:   "Run a single escalation cycle and exit (for cron-style scheduling)",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			uc, cleanup, err := buildUseCases(ctx, &firestoreCfg, &policyCfg, &smtpCfg, &slackCfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if dryRun {
				uc = usecase.New(
					usecase.WithRepository(uc.Repository()),
					usecase.WithEmailClient(notifier.NewConsoleEmail()),
				)
			}

			summary, err := uc.RunOnce(ctx)
			if err != nil {
				return err
			}

			logging.From(ctx).Info("escalation cycle finished",
				"alerts_escalated", summary.AlertsEscalated,
				"notices_queued", summary.NoticesQueued,
			)
			return nil
		},
	}
}
