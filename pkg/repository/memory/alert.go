package memory

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func (r *Memory) PutAlert(ctx context.Context, a alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := a
	r.alerts[a.ID] = &copied
	return nil
}

func (r *Memory) GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[alertID]
	if !ok {
		return nil, r.eb.New("alert not found", goerr.TV(errs.AlertIDKey, alertID), goerr.T(errs.TagNotFound))
	}

	copied := *a
	return &copied, nil
}

func (r *Memory) ListOpenCritical(ctx context.Context) (alert.Alerts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var alerts alert.Alerts
	for _, a := range r.alerts {
		if a.Escalatable() {
			copied := *a
			alerts = append(alerts, &copied)
		}
	}
	return alerts, nil
}

func (r *Memory) CommitEscalations(ctx context.Context, updates []alert.EscalationUpdate) ([]types.AlertID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var applied []types.AlertID
	for _, u := range updates {
		a, ok := r.alerts[u.ID]
		if !ok {
			continue
		}
		// CAS: only advance if nobody else did since the caller's read
		if a.Acknowledged || a.EscalationLevel != u.PrevLevel {
			continue
		}
		a.EscalationLevel = u.NewLevel
		escalatedAt := u.EscalatedAt
		a.LastEscalatedAt = &escalatedAt
		applied = append(applied, u.ID)
	}
	return applied, nil
}
