package config

import (
	"log/slog"

	"github.com/diveops/watchkeeper/pkg/adapter/slackhook"
	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	webhookURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL; empty disables the slack channel",
			Category:    "Slack",
			Sources:     cli.EnvVars("WATCHKEEPER_SLACK_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret_webhook_url", x.webhookURL),
	)
}

func (x *Slack) Configure() interfaces.SlackClient {
	if x.webhookURL == "" {
		return nil
	}
	return slackhook.New(x.webhookURL)
}
