package usecase

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/utils/clock"
	"github.com/diveops/watchkeeper/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentDispatch = 8

// EscalationSummary is the result of one engine invocation, suitable for
// logging by the caller. Nothing consumes it synchronously.
type EscalationSummary struct {
	AlertsEscalated int `json:"alerts_escalated"`
	NoticesQueued   int `json:"notices_queued"`
}

// firing is one alert determined to be due, with everything needed for
// dispatch resolved up front.
type firing struct {
	alert      *alert.Alert
	target     *policy.Level
	newLevel   int
	recipients roster.Recipients
}

// RunOnce executes a single escalation cycle. Safe to invoke concurrently or
// redundantly: the commit is a per-alert compare-and-set on the escalation
// level read during evaluation, and dispatch only happens for alerts this
// invocation actually advanced. Errors returned here mean the cycle aborted
// before any state was committed; sink failures after the commit are
// reported and swallowed.
func (uc *UseCases) RunOnce(ctx context.Context) (*EscalationSummary, error) {
	logger := logging.From(ctx)
	now := clock.Now(ctx)

	alerts, err := uc.repository.ListOpenCritical(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load escalation candidates")
	}
	if len(alerts) == 0 {
		return &EscalationSummary{}, nil
	}

	var firings []*firing
	var updates []alert.EscalationUpdate

	for _, a := range alerts {
		pol, err := uc.policy.Resolve(ctx, a)
		if err != nil {
			return nil, err
		}
		if pol == nil {
			logger.Debug("no escalation policy for alert, skipping",
				"alert_id", a.ID, "alert_type", a.Type)
			continue
		}

		// levels[n] fires while the alert is still at level n; NextLevel
		// also covers the exhausted and no-levels-configured cases.
		target, ok := pol.NextLevel(a.EscalationLevel)
		if !ok {
			if len(pol.Levels) == 0 {
				logger.Debug("policy has no escalation levels, skipping",
					"alert_id", a.ID, "policy_id", pol.ID)
			}
			continue
		}
		if !target.Due(now.Sub(a.Reference())) {
			continue
		}

		recipients, err := uc.roster.Resolve(ctx, target.NotifyRoles)
		if err != nil {
			return nil, err
		}

		newLevel := a.EscalationLevel + 1
		updates = append(updates, alert.EscalationUpdate{
			ID:          a.ID,
			PrevLevel:   a.EscalationLevel,
			NewLevel:    newLevel,
			EscalatedAt: now,
		})
		firings = append(firings, &firing{
			alert:      a,
			target:     target,
			newLevel:   newLevel,
			recipients: recipients,
		})
	}

	if len(updates) == 0 {
		return &EscalationSummary{}, nil
	}

	// State advance first: the CAS result decides which alerts this
	// invocation owns, so an overlapping run cannot double-send.
	appliedIDs, err := uc.repository.CommitEscalations(ctx, updates)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit escalation updates")
	}
	applied := make(map[types.AlertID]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}

	var queued notice.Notices
	var eg errgroup.Group
	eg.SetLimit(maxConcurrentDispatch)

	for _, f := range firings {
		if !applied[f.alert.ID] {
			logger.Debug("alert already advanced by another invocation, skipping dispatch",
				"alert_id", f.alert.ID)
			continue
		}
		if len(f.recipients) == 0 {
			// State has advanced anyway so the alert does not retry the
			// same level forever.
			logger.Warn("no recipients resolved for escalation level",
				"alert_id", f.alert.ID,
				"new_level", f.newLevel,
				"roles", f.target.NotifyRoles)
			continue
		}

		payload := mail.NewPayload(f.alert, f.newLevel)

		for _, ch := range f.target.Channels {
			switch ch {
			case types.ChannelPush:
				for _, rcpt := range f.recipients {
					queued = append(queued, notice.NewEscalation(ctx, rcpt.UserID, f.alert, f.newLevel))
				}

			case types.ChannelEmail:
				addresses := f.recipients.Addresses()
				eg.Go(func() error {
					if err := uc.dispatcher.SendEmail(ctx, addresses, payload); err != nil {
						errs.Handle(ctx, err)
					}
					return nil
				})

			case types.ChannelSlack:
				eg.Go(func() error {
					if err := uc.dispatcher.PostSlack(ctx, payload); err != nil {
						errs.Handle(ctx, err)
					}
					return nil
				})

			default:
				logger.Debug("unknown notification channel, ignored",
					"channel", ch, "alert_id", f.alert.ID)
			}
		}

		logger.Info("alert escalated",
			"alert_id", f.alert.ID,
			"alert_type", f.alert.Type,
			"new_level", f.newLevel,
			"recipients", len(f.recipients),
			"channels", f.target.Channels)
	}

	// Dispatch closures handle their own failures and never return an error.
	_ = eg.Wait()

	if err := uc.dispatcher.WriteInApp(ctx, queued); err != nil {
		// In-app write is best-effort; state is already committed.
		errs.Handle(ctx, err)
	}

	summary := &EscalationSummary{
		AlertsEscalated: len(appliedIDs),
		NoticesQueued:   len(queued),
	}
	logger.Info("escalation cycle complete",
		"candidates", len(alerts),
		"escalated", summary.AlertsEscalated,
		"notices_queued", summary.NoticesQueued)
	return summary, nil
}
