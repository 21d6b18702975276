package alert

import (
	"context"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/utils/clock"
)

const (
	DefaultAlertTitle = "(no title)"
)

// Alert represents one open safety event in a diving operation, e.g. a missed
// check-in or a depth excursion. Alerts are created by the rule evaluation
// side of the application; the escalation engine only advances
// EscalationLevel and LastEscalatedAt until the alert is acknowledged.
type Alert struct {
	ID       types.AlertID       `json:"id"`
	Type     types.AlertType     `json:"type"`
	RuleID   types.RuleID        `json:"rule_id"`
	Priority types.AlertPriority `json:"priority"`

	Title      string      `json:"title"`
	Attributes []Attribute `json:"attributes"`

	Acknowledged    bool       `json:"acknowledged"`
	EscalationLevel int        `json:"escalation_level"`
	CreatedAt       time.Time  `json:"created_at"`
	LastEscalatedAt *time.Time `json:"last_escalated_at"`
}

type Alerts []*Alert

// Attribute is opaque context carried into notifications, e.g. a dive
// operation code or a diver name. The engine does not interpret it.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Link  string `json:"link"`
}

func New(ctx context.Context, alertType types.AlertType, ruleID types.RuleID, priority types.AlertPriority, title string, attrs ...Attribute) Alert {
	newAlert := Alert{
		ID:         types.NewAlertID(),
		Type:       alertType,
		RuleID:     ruleID,
		Priority:   priority,
		Title:      title,
		Attributes: attrs,
		CreatedAt:  clock.Now(ctx),
	}

	if newAlert.Title == "" {
		newAlert.Title = DefaultAlertTitle
	}

	return newAlert
}

// Reference returns the timestamp escalation thresholds are measured from:
// the most recent escalation, or creation when none has occurred yet.
func (x *Alert) Reference() time.Time {
	if x.LastEscalatedAt != nil {
		return *x.LastEscalatedAt
	}
	return x.CreatedAt
}

// Escalatable returns true if the alert is a candidate for the escalation
// engine: unacknowledged and at critical priority or above.
func (x *Alert) Escalatable() bool {
	return !x.Acknowledged && x.Priority.Escalatable()
}

// EscalationUpdate is one staged state advance. PrevLevel is the level read
// when the alert was evaluated; the repository applies the update only if the
// stored level still equals PrevLevel.
type EscalationUpdate struct {
	ID          types.AlertID
	PrevLevel   int
	NewLevel    int
	EscalatedAt time.Time
}
