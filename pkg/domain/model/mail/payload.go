package mail

import (
	"fmt"
	"strings"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/dustin/go-humanize"
)

// Payload is the content of the single outbound email sent per firing alert
// per cycle. The transport is an external collaborator; this type only
// renders subject and body.
type Payload struct {
	AlertID         types.AlertID       `json:"alert_id"`
	AlertType       types.AlertType     `json:"alert_type"`
	Priority        types.AlertPriority `json:"priority"`
	Title           string              `json:"title"`
	Attributes      []alert.Attribute   `json:"attributes"`
	EscalationLevel int                 `json:"escalation_level"`
	CreatedAt       time.Time           `json:"created_at"`
}

func NewPayload(a *alert.Alert, newLevel int) *Payload {
	return &Payload{
		AlertID:         a.ID,
		AlertType:       a.Type,
		Priority:        a.Priority,
		Title:           a.Title,
		Attributes:      a.Attributes,
		EscalationLevel: newLevel,
		CreatedAt:       a.CreatedAt,
	}
}

func (x *Payload) Subject() string {
	return fmt.Sprintf("[%s] %s (escalation level %d)", strings.ToUpper(x.Priority.String()), x.Title, x.EscalationLevel)
}

func (x *Payload) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alert %q has escalated to level %d.\n\n", x.Title, x.EscalationLevel)
	fmt.Fprintf(&b, "Type:     %s\n", x.AlertType)
	fmt.Fprintf(&b, "Priority: %s\n", x.Priority)
	fmt.Fprintf(&b, "Alert ID: %s\n", x.AlertID)
	fmt.Fprintf(&b, "Raised:   %s (%s)\n", x.CreatedAt.Format(time.RFC3339), humanize.Time(x.CreatedAt))
	if len(x.Attributes) > 0 {
		b.WriteString("\nDetails:\n")
		for _, attr := range x.Attributes {
			fmt.Fprintf(&b, "  %s: %s", attr.Key, attr.Value)
			if attr.Link != "" {
				fmt.Fprintf(&b, " (%s)", attr.Link)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\nThis alert remains unacknowledged. Please respond or acknowledge it in the dashboard.\n")
	return b.String()
}
