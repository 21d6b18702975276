package notice

import (
	"context"
	"fmt"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/utils/clock"
	"github.com/dustin/go-humanize"
)

const KindEscalation = "escalation"

// Notice is an in-app notification row consumed by the dashboard UI. One
// notice is written per recipient per escalation.
type Notice struct {
	ID      types.NoticeID `json:"id"`
	UserID  types.UserID   `json:"user_id"`
	Kind    string         `json:"kind"`
	Title   string         `json:"title"`
	Message string         `json:"message"`

	AlertID         types.AlertID       `json:"alert_id"`
	AlertType       types.AlertType     `json:"alert_type"`
	Priority        types.AlertPriority `json:"priority"`
	EscalationLevel int                 `json:"escalation_level"`
	Attributes      []alert.Attribute   `json:"attributes"`

	CreatedAt time.Time `json:"created_at"`
}

type Notices []*Notice

// NewEscalation builds the notice written to a recipient when an alert
// advances one escalation level.
func NewEscalation(ctx context.Context, userID types.UserID, a *alert.Alert, newLevel int) *Notice {
	now := clock.Now(ctx)
	return &Notice{
		ID:      types.NewNoticeID(),
		UserID:  userID,
		Kind:    KindEscalation,
		Title:   fmt.Sprintf("%s %s", a.Priority.Label(), a.Title),
		Message: fmt.Sprintf("Alert %q escalated to level %d, unacknowledged since %s", a.Title, newLevel, humanize.Time(a.CreatedAt)),

		AlertID:         a.ID,
		AlertType:       a.Type,
		Priority:        a.Priority,
		EscalationLevel: newLevel,
		Attributes:      a.Attributes,

		CreatedAt: now,
	}
}
