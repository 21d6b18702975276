package notifier

import (
	"context"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Email and Slack deliveries get their own deadline so a slow provider
// cannot stall the rest of an engine invocation.
const dispatchTimeout = 15 * time.Second

// Dispatcher fans notifications out to the configured sinks. Each sink is an
// independent failure domain: an error in one channel never affects another.
type Dispatcher struct {
	repo  interfaces.Repository
	email interfaces.EmailClient
	slack interfaces.SlackClient
}

type Option func(*Dispatcher)

func WithEmail(client interfaces.EmailClient) Option {
	return func(d *Dispatcher) {
		d.email = client
	}
}

func WithSlack(client interfaces.SlackClient) Option {
	return func(d *Dispatcher) {
		d.slack = client
	}
}

func New(repo interfaces.Repository, opts ...Option) *Dispatcher {
	d := &Dispatcher{repo: repo}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WriteInApp persists one batch of notices. Best-effort: the repository does
// not roll back records already written when a later one fails.
func (x *Dispatcher) WriteInApp(ctx context.Context, notices notice.Notices) error {
	if len(notices) == 0 {
		return nil
	}
	if err := x.repo.BatchPutNotices(ctx, notices); err != nil {
		return goerr.Wrap(err, "failed to write in-app notices", goerr.TV(errs.CountKey, len(notices)))
	}
	return nil
}

// SendEmail performs the single outbound email call for one firing alert. A
// missing email client or empty address list is a silent no-op.
func (x *Dispatcher) SendEmail(ctx context.Context, addresses []string, payload *mail.Payload) error {
	if x.email == nil {
		logging.From(ctx).Debug("email sink not configured, skipping",
			"alert_id", payload.AlertID)
		return nil
	}
	if len(addresses) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if err := x.email.Send(ctx, addresses, payload); err != nil {
		return goerr.Wrap(err, "failed to send escalation email",
			goerr.TV(errs.AlertIDKey, payload.AlertID),
			goerr.TV(errs.ChannelKey, types.ChannelEmail),
			goerr.TV(errs.CountKey, len(addresses)),
			goerr.T(errs.TagExternal))
	}
	return nil
}

// PostSlack posts one webhook message for a firing alert.
func (x *Dispatcher) PostSlack(ctx context.Context, payload *mail.Payload) error {
	if x.slack == nil {
		logging.From(ctx).Debug("slack sink not configured, skipping",
			"alert_id", payload.AlertID)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if err := x.slack.Post(ctx, payload); err != nil {
		return goerr.Wrap(err, "failed to post escalation to slack",
			goerr.TV(errs.AlertIDKey, payload.AlertID),
			goerr.TV(errs.ChannelKey, types.ChannelSlack),
			goerr.T(errs.TagExternal))
	}
	return nil
}
