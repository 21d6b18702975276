package mail_test

import (
	"strings"
	"testing"
	"time"

	adapter "github.com/diveops/watchkeeper/pkg/adapter/mail"
	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestRender(t *testing.T) {
	payload := &mail.Payload{
		AlertID:         types.NewAlertID(),
		AlertType:       "diver_missing",
		Priority:        types.AlertPriorityEmergency,
		Title:           "diver missing at site B",
		EscalationLevel: 2,
		CreatedAt:       time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC),
		Attributes: []alert.Attribute{
			{Key: "operation", Value: "OP-1142", Link: "https://dashboard.example.com/ops/1142"},
		},
	}

	msg := adapter.Render("watchkeeper@example.com", []string{"sato@example.com", "kimura@example.com"}, payload)

	gt.S(t, msg).
		Contains("From: watchkeeper@example.com\r\n").
		Contains("To: sato@example.com, kimura@example.com\r\n").
		Contains("Subject: [EMERGENCY] diver missing at site B (escalation level 2)\r\n").
		Contains("Content-Type: text/plain; charset=utf-8\r\n").
		Contains("operation: OP-1142 (https://dashboard.example.com/ops/1142)")

	// Header and body separated by one blank line, CRLF throughout
	gt.True(t, strings.Contains(msg, "\r\n\r\n"))
	gt.False(t, strings.Contains(strings.ReplaceAll(msg, "\r\n", ""), "\n"))
}

func TestPayloadSubject(t *testing.T) {
	a := &alert.Alert{
		ID:       types.NewAlertID(),
		Type:     "gas_supply_low",
		Priority: types.AlertPriorityCritical,
		Title:    "gas supply low",
	}
	p := mail.NewPayload(a, 1)
	gt.Equal(t, p.Subject(), "[CRITICAL] gas supply low (escalation level 1)")
}
