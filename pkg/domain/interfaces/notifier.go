package interfaces

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
)

// EmailClient is the outbound email sink. One call per firing alert per
// cycle, carrying all recipient addresses. Failure is reported, never
// retried within the same engine invocation.
type EmailClient interface {
	Send(ctx context.Context, addresses []string, payload *mail.Payload) error
}

// SlackClient posts an escalation to a Slack incoming webhook. Extension
// channel beyond push and email.
type SlackClient interface {
	Post(ctx context.Context, payload *mail.Payload) error
}
