package cli

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/cli/config"
	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/repository/memory"
	"github.com/diveops/watchkeeper/pkg/usecase"
	"github.com/diveops/watchkeeper/pkg/utils/logging"
	"github.com/diveops/watchkeeper/pkg/utils/safe"
)

// buildUseCases wires the repository and notification sinks shared by the
// serve and escalate commands. Firestore is used when configured, otherwise
// an in-memory repository seeded from the policy file (standalone/dev mode).
func buildUseCases(ctx context.Context, firestoreCfg *config.Firestore, policyCfg *config.Policy, smtpCfg *config.SMTP, slackCfg *config.Slack) (*usecase.UseCases, func(), error) {
	cleanup := func() {}

	var repo interfaces.Repository
	if firestoreCfg.IsConfigured() {
		fs, err := firestoreCfg.Configure(ctx)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			safe.Close(ctx, fs)
		}
		repo = fs
	} else {
		logging.From(ctx).Warn("Firestore is not configured, using in-memory repository")
		repo = memory.New()
	}

	if err := policyCfg.Load(ctx, repo); err != nil {
		cleanup()
		return nil, func() {}, err
	}

	opts := []usecase.Option{
		usecase.WithRepository(repo),
	}
	if email := smtpCfg.Configure(); email != nil {
		opts = append(opts, usecase.WithEmailClient(email))
	}
	if slack := slackCfg.Configure(); slack != nil {
		opts = append(opts, usecase.WithSlackClient(slack))
	}

	return usecase.New(opts...), cleanup, nil
}
