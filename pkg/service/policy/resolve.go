package policy

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/m-mizutani/goerr/v2"
)

// Service resolves the escalation policy for an alert. Precedence: a policy
// bound to the alert's originating rule, then a template policy matching the
// alert type, then none. Disabled policies are treated as absent by the
// repository queries.
type Service struct {
	repo interfaces.Repository
}

func New(repo interfaces.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns nil without error when no policy applies; escalation is
// opt-in per alert type and a missing policy is not a failure.
func (x *Service) Resolve(ctx context.Context, a *alert.Alert) (*policy.Policy, error) {
	bound, err := x.repo.GetPolicyByRule(ctx, a.RuleID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up rule-bound policy", goerr.V("rule_id", a.RuleID))
	}
	if bound != nil {
		return bound, nil
	}

	tmpl, err := x.repo.GetPolicyByType(ctx, a.Type)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up template policy", goerr.V("alert_type", a.Type))
	}
	return tmpl, nil
}
