package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// BatchPutNotices writes notices through a BulkWriter. Best-effort: records
// already flushed stay written when a later one fails.
func (r *Firestore) BatchPutNotices(ctx context.Context, notices notice.Notices) error {
	if len(notices) == 0 {
		return nil
	}

	bw := r.db.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob

	for _, n := range notices {
		doc := r.db.Collection(collectionNotices).Doc(n.ID.String())
		job, err := bw.Set(doc, n)
		if err != nil {
			return r.eb.Wrap(err, "failed to enqueue notice", goerr.TV(errs.NoticeIDKey, n.ID))
		}
		jobs = append(jobs, job)
	}

	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return r.eb.Wrap(err, "failed to write notice batch", goerr.TV(errs.CountKey, len(notices)))
		}
	}
	return nil
}

func (r *Firestore) ListUserNotices(ctx context.Context, userID types.UserID, limit int) (notice.Notices, error) {
	if userID == types.EmptyUserID {
		return nil, r.eb.New("user ID is empty")
	}

	q := r.db.Collection(collectionNotices).
		Where("UserID", "==", userID.String()).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	var notices notice.Notices
	for {
		doc, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, r.eb.Wrap(err, "failed to get next notice", goerr.TV(errs.UserIDKey, userID))
		}

		var n notice.Notice
		if err := doc.DataTo(&n); err != nil {
			return nil, r.eb.Wrap(err, "failed to convert data to notice")
		}
		notices = append(notices, &n)
	}
	return notices, nil
}
