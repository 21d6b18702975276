package slackhook

import (
	"context"
	"fmt"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Client posts escalations to a Slack incoming webhook.
type Client struct {
	webhookURL string
}

var _ interfaces.SlackClient = &Client{}

func New(webhookURL string) *Client {
	return &Client{webhookURL: webhookURL}
}

func (x *Client) Post(ctx context.Context, payload *mail.Payload) error {
	fields := make([]slack.AttachmentField, 0, len(payload.Attributes)+2)
	fields = append(fields,
		slack.AttachmentField{Title: "Type", Value: payload.AlertType.String(), Short: true},
		slack.AttachmentField{Title: "Level", Value: fmt.Sprintf("%d", payload.EscalationLevel), Short: true},
	)
	for _, attr := range payload.Attributes {
		fields = append(fields, slack.AttachmentField{
			Title: attr.Key,
			Value: attr.Value,
			Short: true,
		})
	}

	msg := &slack.WebhookMessage{
		Text: payload.Subject(),
		Attachments: []slack.Attachment{
			{
				Color:  colorFor(payload),
				Text:   fmt.Sprintf("%s %s", payload.Priority.Label(), payload.Title),
				Fields: fields,
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, x.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook", goerr.V("alert_id", payload.AlertID))
	}
	return nil
}

func colorFor(payload *mail.Payload) string {
	switch payload.Priority {
	case types.AlertPriorityEmergency:
		return "#a30200"
	case types.AlertPriorityCritical:
		return "#e01e5a"
	default:
		return "#daa038"
	}
}
