package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	db *firestore.Client
	eb *goerr.Builder
}

var _ interfaces.Repository = &Firestore{}

func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	db, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	return &Firestore{
		db: db,
		eb: goerr.NewBuilder(
			goerr.TV(errs.RepositoryKey, "firestore"),
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		),
	}, nil
}

func (r *Firestore) Close() error {
	return r.db.Close()
}

const (
	collectionAlerts   = "alerts"
	collectionPolicies = "escalation_policies"
	collectionMembers  = "crew_members"
	collectionNotices  = "notices"
)
