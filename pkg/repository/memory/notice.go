package memory

import (
	"context"
	"sort"

	"github.com/diveops/watchkeeper/pkg/domain/model/errs"
	"github.com/diveops/watchkeeper/pkg/domain/model/notice"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func (r *Memory) BatchPutNotices(ctx context.Context, notices notice.Notices) error {
	r.noticeMu.Lock()
	defer r.noticeMu.Unlock()

	for _, n := range notices {
		if n.ID == types.EmptyNoticeID {
			return r.eb.New("notice ID is empty")
		}
		copied := *n
		r.notices[n.ID] = &copied
	}
	return nil
}

func (r *Memory) ListUserNotices(ctx context.Context, userID types.UserID, limit int) (notice.Notices, error) {
	r.noticeMu.RLock()
	defer r.noticeMu.RUnlock()

	if userID == types.EmptyUserID {
		return nil, r.eb.New("user ID is empty", goerr.TV(errs.UserIDKey, userID))
	}

	var notices notice.Notices
	for _, n := range r.notices {
		if n.UserID == userID {
			copied := *n
			notices = append(notices, &copied)
		}
	}

	sort.Slice(notices, func(i, j int) bool {
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})
	if limit > 0 && len(notices) > limit {
		notices = notices[:limit]
	}
	return notices, nil
}
