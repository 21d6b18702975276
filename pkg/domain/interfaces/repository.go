package interfaces

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
)

type Repository interface {
	// Alert state. ListOpenCritical returns the escalation candidate set:
	// unacknowledged alerts at critical priority or above.
	PutAlert(ctx context.Context, alert alert.Alert) error
	GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error)
	ListOpenCritical(ctx context.Context) (alert.Alerts, error)

	// CommitEscalations applies staged escalation advances as one batch.
	// Each update is a compare-and-set on the alert's previous escalation
	// level; updates whose precondition fails are dropped silently. Returns
	// the IDs of the alerts actually advanced.
	CommitEscalations(ctx context.Context, updates []alert.EscalationUpdate) ([]types.AlertID, error)

	// Escalation policies. Get* return nil without error when no enabled
	// policy matches.
	PutPolicy(ctx context.Context, policy policy.Policy) error
	GetPolicyByRule(ctx context.Context, ruleID types.RuleID) (*policy.Policy, error)
	GetPolicyByType(ctx context.Context, alertType types.AlertType) (*policy.Policy, error)

	// Crew roster, read-only from the engine's perspective.
	PutMember(ctx context.Context, member roster.Member) error
	ListRoleMembers(ctx context.Context, roles []types.RoleID) ([]*roster.Member, error)

	// In-app notices. BatchPutNotices is best-effort: records already
	// written are not rolled back when a later one fails.
	BatchPutNotices(ctx context.Context, notices notice.Notices) error
	ListUserNotices(ctx context.Context, userID types.UserID, limit int) (notice.Notices, error)
}
