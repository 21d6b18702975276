package policy

import (
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Level is one rung of an escalation policy. Levels are consumed strictly in
// sequence: levels[n] is the step fired while an alert is still at
// escalation level n.
type Level struct {
	AfterMinutes int               `json:"after_minutes" yaml:"after_minutes"`
	NotifyRoles  []types.RoleID    `json:"notify_roles" yaml:"notify_roles"`
	Channels     []types.ChannelID `json:"channels" yaml:"channels"`
}

// Due returns true if enough time has elapsed since the alert's reference
// timestamp for this level to fire. AfterMinutes of zero fires on the first
// invocation that observes the alert.
func (x *Level) Due(elapsed time.Duration) bool {
	return elapsed >= time.Duration(x.AfterMinutes)*time.Minute
}

func (x *Level) Validate() error {
	if x.AfterMinutes < 0 {
		return goerr.New("after_minutes must not be negative", goerr.V("after_minutes", x.AfterMinutes))
	}
	return nil
}

// Policy is the ordered escalation plan for an alert type or a specific rule.
// A policy with RuleID set is bound to that rule and takes precedence over a
// template policy matched by alert type.
type Policy struct {
	ID        types.PolicyID  `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	RuleID    types.RuleID    `json:"rule_id" yaml:"rule_id"`
	AlertType types.AlertType `json:"alert_type" yaml:"alert_type"`
	Enabled   bool            `json:"enabled" yaml:"enabled"`
	Levels    []Level         `json:"levels" yaml:"levels"`
}

type Policies []*Policy

func (x *Policy) Validate() error {
	if x.ID == types.EmptyPolicyID {
		return goerr.New("policy ID is empty")
	}
	if x.RuleID == types.EmptyRuleID && x.AlertType == "" {
		return goerr.New("policy must be bound to a rule or an alert type", goerr.V("policy_id", x.ID))
	}
	for i, lv := range x.Levels {
		if err := lv.Validate(); err != nil {
			return goerr.Wrap(err, "invalid escalation level", goerr.V("policy_id", x.ID), goerr.V("index", i))
		}
	}
	return nil
}

// NextLevel returns the level to fire for an alert currently at the given
// escalation level. ok is false when the policy has no levels configured or
// all levels are already exhausted.
func (x *Policy) NextLevel(current int) (*Level, bool) {
	if current < 0 || current >= len(x.Levels) {
		return nil, false
	}
	return &x.Levels[current], true
}

// IsTemplate returns true for policies matched by alert type rather than
// bound to a specific rule.
func (x *Policy) IsTemplate() bool {
	return x.RuleID == types.EmptyRuleID
}
