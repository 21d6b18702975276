package config

import (
	"context"
	"log/slog"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Policy struct {
	path string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "Template escalation policy YAML file",
			Category:    "Policy",
			Sources:     cli.EnvVars("WATCHKEEPER_POLICY"),
			Destination: &x.path,
		},
	}
}

func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
	)
}

func (x *Policy) HasPolicies() bool {
	return x.path != ""
}

// Load reads template policies from the configured file and seeds them into
// the repository. No-op when the flag is not set.
func (x *Policy) Load(ctx context.Context, repo interfaces.Repository) error {
	if x.path == "" {
		return nil
	}

	policies, err := policy.LoadFile(x.path)
	if err != nil {
		return err
	}
	for _, p := range policies {
		if err := repo.PutPolicy(ctx, *p); err != nil {
			return goerr.Wrap(err, "failed to store template policy", goerr.V("policy_id", p.ID))
		}
	}
	return nil
}
