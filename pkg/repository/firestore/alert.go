package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/diveops/watchkeeper/pkg/domain/model/alert"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) PutAlert(ctx context.Context, a alert.Alert) error {
	doc := r.db.Collection(collectionAlerts).Doc(a.ID.String())
	if _, err := doc.Set(ctx, a); err != nil {
		return r.eb.Wrap(err, "failed to put alert", goerr.TV(errs.AlertIDKey, a.ID))
	}
	return nil
}

func (r *Firestore) GetAlert(ctx context.Context, alertID types.AlertID) (*alert.Alert, error) {
	doc, err := r.db.Collection(collectionAlerts).Doc(alertID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, r.eb.New("alert not found", goerr.TV(errs.AlertIDKey, alertID), goerr.T(errs.TagNotFound))
		}
		return nil, r.eb.Wrap(err, "failed to get alert", goerr.TV(errs.AlertIDKey, alertID))
	}

	var a alert.Alert
	if err := doc.DataTo(&a); err != nil {
		return nil, r.eb.Wrap(err, "failed to convert data to alert", goerr.TV(errs.AlertIDKey, alertID))
	}
	return &a, nil
}

func (r *Firestore) ListOpenCritical(ctx context.Context) (alert.Alerts, error) {
	iter := r.db.Collection(collectionAlerts).
		Where("Acknowledged", "==", false).
		Where("Priority", "in", []string{
			types.AlertPriorityCritical.String(),
			types.AlertPriorityEmergency.String(),
		}).
		Documents(ctx)

	var alerts alert.Alerts
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, r.eb.Wrap(err, "failed to get next alert")
		}

		var a alert.Alert
		if err := doc.DataTo(&a); err != nil {
			return nil, r.eb.Wrap(err, "failed to convert data to alert")
		}
		alerts = append(alerts, &a)
	}
	return alerts, nil
}

// CommitEscalations applies all staged advances in a single transaction.
// Each update checks the stored level against the level the caller read;
// alerts advanced or acknowledged in the meantime are left untouched.
func (r *Firestore) CommitEscalations(ctx context.Context, updates []alert.EscalationUpdate) ([]types.AlertID, error) {
	if len(updates) == 0 {
		return nil, nil
	}

	var applied []types.AlertID
	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = applied[:0] // transaction may retry

		type staged struct {
			ref    *firestore.DocumentRef
			update alert.EscalationUpdate
		}
		var pass []staged

		// All reads must happen before any write in a Firestore transaction
		for _, u := range updates {
			ref := r.db.Collection(collectionAlerts).Doc(u.ID.String())
			snap, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					continue
				}
				return goerr.Wrap(err, "failed to get alert in transaction", goerr.TV(errs.AlertIDKey, u.ID))
			}

			var a alert.Alert
			if err := snap.DataTo(&a); err != nil {
				return goerr.Wrap(err, "failed to convert data to alert", goerr.TV(errs.AlertIDKey, u.ID))
			}
			if a.Acknowledged || a.EscalationLevel != u.PrevLevel {
				continue
			}
			pass = append(pass, staged{ref: ref, update: u})
		}

		for _, s := range pass {
			err := tx.Update(s.ref, []firestore.Update{
				{Path: "EscalationLevel", Value: s.update.NewLevel},
				{Path: "LastEscalatedAt", Value: s.update.EscalatedAt},
			})
			if err != nil {
				return goerr.Wrap(err, "failed to update alert in transaction", goerr.TV(errs.AlertIDKey, s.update.ID))
			}
			applied = append(applied, s.update.ID)
		}
		return nil
	})
	if err != nil {
		return nil, r.eb.Wrap(err, "escalation commit transaction failed", goerr.T(errs.TagDatabase))
	}

	return applied, nil
}
