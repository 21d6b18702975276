package config

import (
	"log/slog"

	"github.com/diveops/watchkeeper/pkg/adapter/mail"
	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/urfave/cli/v3"
)

type SMTP struct {
	addr     string
	from     string
	username string
	password string
}

func (x *SMTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "smtp-addr",
			Usage:       "SMTP server address (host:port); empty disables the email channel",
			Category:    "Email",
			Sources:     cli.EnvVars("WATCHKEEPER_SMTP_ADDR"),
			Destination: &x.addr,
		},
		&cli.StringFlag{
			Name:        "smtp-from",
			Usage:       "Sender address for escalation email",
			Category:    "Email",
			Sources:     cli.EnvVars("WATCHKEEPER_SMTP_FROM"),
			Value:       "watchkeeper@localhost",
			Destination: &x.from,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP auth username",
			Category:    "Email",
			Sources:     cli.EnvVars("WATCHKEEPER_SMTP_USERNAME"),
			Destination: &x.username,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP auth password",
			Category:    "Email",
			Sources:     cli.EnvVars("WATCHKEEPER_SMTP_PASSWORD"),
			Destination: &x.password,
		},
	}
}

func (x SMTP) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", x.addr),
		slog.String("from", x.from),
		slog.String("username", x.username),
		slog.String("secret_password", x.password),
	)
}

// Configure returns nil when no SMTP server is set; the dispatcher skips the
// email channel in that case.
func (x *SMTP) Configure() interfaces.EmailClient {
	if x.addr == "" {
		return nil
	}
	return mail.NewSMTPClient(x.addr, x.from, x.username, x.password)
}
