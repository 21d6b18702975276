package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/mail"
	"github.com/diveops/watchkeeper/pkg/domain/model/policy"
	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/repository/memory"
	"github.com/diveops/watchkeeper/pkg/usecase"
	"github.com/diveops/watchkeeper/pkg/utils/clock"
	"github.com/m-mizutani/gt"
)

type emailCall struct {
	addresses []string
	alertID   types.AlertID
}

// mockEmail records outbound calls and can be told to fail for specific
// alerts, which lets tests check that one broken delivery does not affect
// the rest of a cycle.
type mockEmail struct {
	mu    sync.Mutex
	calls []emailCall
	fail  map[types.AlertID]bool
}

func (m *mockEmail) Send(ctx context.Context, addresses []string, payload *mail.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[payload.AlertID] {
		return errors.New("smtp connection refused")
	}
	m.calls = append(m.calls, emailCall{addresses: addresses, alertID: payload.AlertID})
	return nil
}

func (m *mockEmail) sent() []emailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]emailCall(nil), m.calls...)
}

func seedRoster(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()
	members := []roster.Member{
		{UserID: "sup-1", Name: "Sato", Email: "sato@example.com", Roles: []types.RoleID{"supervisor"}, Active: true},
		{UserID: "adm-1", Name: "Kimura", Email: "kimura@example.com", Roles: []types.RoleID{"admin"}, Active: true},
	}
	for _, m := range members {
		gt.NoError(t, repo.PutMember(ctx, m))
	}
}

func ctxAt(base time.Time, offset time.Duration) context.Context {
	at := base.Add(offset)
	return clock.With(context.Background(), func() time.Time { return at })
}

func TestRunOnceThreshold(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "depth_excursion",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 10, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{types.ChannelPush}},
		},
	}))
	a := alert.New(ctx0, "depth_excursion", types.EmptyRuleID, types.AlertPriorityCritical, "depth excursion")
	gt.NoError(t, repo.PutAlert(ctx0, a))

	uc := usecase.New(usecase.WithRepository(repo))

	t.Run("one minute early nothing fires", func(t *testing.T) {
		summary := gt.R1(uc.RunOnce(ctxAt(base, 9*time.Minute))).NoError(t)
		gt.Equal(t, summary.AlertsEscalated, 0)
		gt.Equal(t, summary.NoticesQueued, 0)
	})

	t.Run("fires exactly at the threshold", func(t *testing.T) {
		summary := gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)
		gt.Equal(t, summary.AlertsEscalated, 1)
		gt.Equal(t, summary.NoticesQueued, 1)

		got := gt.R1(repo.GetAlert(context.Background(), a.ID)).NoError(t)
		gt.Equal(t, got.EscalationLevel, 1)
		gt.NotNil(t, got.LastEscalatedAt)
		gt.Equal(t, *got.LastEscalatedAt, base.Add(10*time.Minute))
	})

	t.Run("same invocation later does not refire exhausted policy", func(t *testing.T) {
		summary := gt.R1(uc.RunOnce(ctxAt(base, 30*time.Minute))).NoError(t)
		gt.Equal(t, summary.AlertsEscalated, 0)
	})
}

func TestRunOnceScenario(t *testing.T) {
	base := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)
	email := &mockEmail{}

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		Name:      "diver missing",
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{types.ChannelPush}},
			{AfterMinutes: 15, NotifyRoles: []types.RoleID{"supervisor", "admin"}, Channels: []types.ChannelID{types.ChannelPush, types.ChannelEmail}},
		},
	}))
	a := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityEmergency, "diver missing at site B")
	gt.NoError(t, repo.PutAlert(ctx0, a))

	uc := usecase.New(usecase.WithRepository(repo), usecase.WithEmailClient(email))

	// T+5m: first level, push to supervisor only
	summary := gt.R1(uc.RunOnce(ctxAt(base, 5*time.Minute))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 1)
	gt.Equal(t, summary.NoticesQueued, 1)
	gt.Array(t, email.sent()).Length(0)

	supNotices := gt.R1(repo.ListUserNotices(context.Background(), "sup-1", 0)).NoError(t)
	gt.Array(t, supNotices).Length(1)
	gt.Equal(t, supNotices[0].EscalationLevel, 1)
	gt.Equal(t, supNotices[0].AlertID, a.ID)

	// T+10m: second level needs 15 minutes since the first escalation
	summary = gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 0)

	// T+20m: second level, push to both roles plus one email to all addresses
	summary = gt.R1(uc.RunOnce(ctxAt(base, 20*time.Minute))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 1)
	gt.Equal(t, summary.NoticesQueued, 2)

	calls := email.sent()
	gt.Array(t, calls).Length(1)
	gt.Equal(t, calls[0].alertID, a.ID)
	gt.Array(t, calls[0].addresses).Length(2)

	admNotices := gt.R1(repo.ListUserNotices(context.Background(), "adm-1", 0)).NoError(t)
	gt.Array(t, admNotices).Length(1)
	gt.Equal(t, admNotices[0].EscalationLevel, 2)

	supNotices = gt.R1(repo.ListUserNotices(context.Background(), "sup-1", 0)).NoError(t)
	gt.Array(t, supNotices).Length(2)

	// T+25m: all levels exhausted, engine goes quiet
	summary = gt.R1(uc.RunOnce(ctxAt(base, 25*time.Minute))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 0)
	gt.Array(t, email.sent()).Length(1)
}

func TestRunOnceSkipsNonCandidates(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{types.ChannelPush}},
		},
	}))

	acked := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityCritical, "acked")
	acked.Acknowledged = true
	warn := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityWarning, "warning only")
	unmatched := alert.New(ctx0, "gear_check_overdue", types.EmptyRuleID, types.AlertPriorityCritical, "no policy")
	for _, a := range []alert.Alert{acked, warn, unmatched} {
		gt.NoError(t, repo.PutAlert(ctx0, a))
	}

	uc := usecase.New(usecase.WithRepository(repo))
	summary := gt.R1(uc.RunOnce(ctxAt(base, time.Hour))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 0)
	gt.Equal(t, summary.NoticesQueued, 0)
}

func TestRunOnceZeroRecipients(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"night_watch"}, Channels: []types.ChannelID{types.ChannelPush}},
		},
	}))
	a := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityCritical, "nobody on duty")
	gt.NoError(t, repo.PutAlert(ctx0, a))

	uc := usecase.New(usecase.WithRepository(repo))
	summary := gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)

	// State still advances so the level is not retried forever
	gt.Equal(t, summary.AlertsEscalated, 1)
	gt.Equal(t, summary.NoticesQueued, 0)
	got := gt.R1(repo.GetAlert(context.Background(), a.ID)).NoError(t)
	gt.Equal(t, got.EscalationLevel, 1)
}

func TestRunOnceChannelIsolation(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{types.ChannelPush, types.ChannelEmail}},
		},
	}))
	broken := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityCritical, "broken delivery")
	healthy := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityCritical, "healthy delivery")
	gt.NoError(t, repo.PutAlert(ctx0, broken))
	gt.NoError(t, repo.PutAlert(ctx0, healthy))

	email := &mockEmail{fail: map[types.AlertID]bool{broken.ID: true}}
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithEmailClient(email))

	summary := gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)

	// The failed email neither fails the cycle nor blocks the other alert
	gt.Equal(t, summary.AlertsEscalated, 2)
	gt.Equal(t, summary.NoticesQueued, 2)

	calls := email.sent()
	gt.Array(t, calls).Length(1)
	gt.Equal(t, calls[0].alertID, healthy.ID)

	for _, id := range []types.AlertID{broken.ID, healthy.ID} {
		got := gt.R1(repo.GetAlert(context.Background(), id)).NoError(t)
		gt.Equal(t, got.EscalationLevel, 1)
	}
}

func TestRunOnceUnknownChannel(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{"pager", types.ChannelPush}},
		},
	}))
	a := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityCritical, "paging nobody")
	gt.NoError(t, repo.PutAlert(ctx0, a))

	uc := usecase.New(usecase.WithRepository(repo))
	summary := gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)
	gt.Equal(t, summary.AlertsEscalated, 1)
	gt.Equal(t, summary.NoticesQueued, 1)
}

func TestRunOnceConcurrent(t *testing.T) {
	base := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := memory.New()
	seedRoster(t, repo)

	ctx0 := ctxAt(base, 0)
	gt.NoError(t, repo.PutPolicy(ctx0, policy.Policy{
		ID:        types.NewPolicyID(),
		AlertType: "diver_missing",
		Enabled:   true,
		Levels: []policy.Level{
			{AfterMinutes: 5, NotifyRoles: []types.RoleID{"supervisor"}, Channels: []types.ChannelID{types.ChannelPush, types.ChannelEmail}},
		},
	}))
	a := alert.New(ctx0, "diver_missing", types.EmptyRuleID, types.AlertPriorityEmergency, "raced")
	gt.NoError(t, repo.PutAlert(ctx0, a))

	email := &mockEmail{}
	uc := usecase.New(usecase.WithRepository(repo), usecase.WithEmailClient(email))

	const runners = 4
	results := make([]*usecase.EscalationSummary, runners)
	var wg sync.WaitGroup
	for i := 0; i < runners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gt.R1(uc.RunOnce(ctxAt(base, 10*time.Minute))).NoError(t)
		}(i)
	}
	wg.Wait()

	// Compare-and-set lets exactly one invocation own the advance
	total := 0
	for _, s := range results {
		total += s.AlertsEscalated
	}
	gt.Equal(t, total, 1)
	gt.Array(t, email.sent()).Length(1)

	got := gt.R1(repo.GetAlert(context.Background(), a.ID)).NoError(t)
	gt.Equal(t, got.EscalationLevel, 1)
}
