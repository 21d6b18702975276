package memory

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/types"
)

func (r *Memory) PutPolicy(ctx context.Context, p policy.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := p.Validate(); err != nil {
		return err
	}

	copied := p
	r.policies[p.ID] = &copied
	return nil
}

func (r *Memory) GetPolicyByRule(ctx context.Context, ruleID types.RuleID) (*policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ruleID == types.EmptyRuleID {
		return nil, nil
	}

	for _, p := range r.policies {
		if p.Enabled && p.RuleID == ruleID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *Memory) GetPolicyByType(ctx context.Context, alertType types.AlertType) (*policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.policies {
		if p.Enabled && p.IsTemplate() && p.AlertType == alertType {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}
