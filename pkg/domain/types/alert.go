package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

func (x AlertID) String() string {
	return string(x)
}

func NewAlertID() AlertID {
	return AlertID(uuid.New().String())
}

const (
	EmptyAlertID AlertID = ""
)

// AlertType is the category of an alert, e.g. "diver_missing". It is the key
// used to match a template escalation policy.
type AlertType string

func (x AlertType) String() string {
	return string(x)
}

// RuleID identifies the alert rule that generated an alert. A policy can be
// bound directly to a rule, which takes precedence over type matching.
type RuleID string

func (x RuleID) String() string {
	return string(x)
}

const (
	EmptyRuleID RuleID = ""
)

// AlertPriority is the severity of the alert. Only critical and emergency
// alerts participate in escalation.
type AlertPriority string

const (
	AlertPriorityInfo      AlertPriority = "info"
	AlertPriorityWarning   AlertPriority = "warning"
	AlertPriorityCritical  AlertPriority = "critical"
	AlertPriorityEmergency AlertPriority = "emergency"
)

var alertPriorityLabels = map[AlertPriority]string{
	AlertPriorityInfo:      "ℹ️ Info",
	AlertPriorityWarning:   "🟡 Warning",
	AlertPriorityCritical:  "🔴 Critical",
	AlertPriorityEmergency: "🚨 Emergency",
}

func (p AlertPriority) Label() string {
	return alertPriorityLabels[p]
}

func (p AlertPriority) Validate() error {
	switch p {
	case AlertPriorityInfo, AlertPriorityWarning, AlertPriorityCritical, AlertPriorityEmergency:
		return nil
	}
	return goerr.New("invalid alert priority", goerr.V("priority", p))
}

func (p AlertPriority) String() string {
	return string(p)
}

// Escalatable returns true if alerts of this priority are candidates for the
// escalation engine.
func (p AlertPriority) Escalatable() bool {
	return p == AlertPriorityCritical || p == AlertPriorityEmergency
}
