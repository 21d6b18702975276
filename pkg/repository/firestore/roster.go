package firestore

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// Firestore array-contains-any accepts at most this many values per query.
const maxRolesPerQuery = 10

func (r *Firestore) PutMember(ctx context.Context, m roster.Member) error {
	doc := r.db.Collection(collectionMembers).Doc(m.UserID.String())
	if _, err := doc.Set(ctx, m); err != nil {
		return r.eb.Wrap(err, "failed to put member", goerr.V("user_id", m.UserID))
	}
	return nil
}

func (r *Firestore) ListRoleMembers(ctx context.Context, roles []types.RoleID) ([]*roster.Member, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	seen := map[types.UserID]bool{}
	var members []*roster.Member

	for start := 0; start < len(roles); start += maxRolesPerQuery {
		end := min(start+maxRolesPerQuery, len(roles))

		chunk := make([]string, 0, end-start)
		for _, role := range roles[start:end] {
			chunk = append(chunk, role.String())
		}

		iter := r.db.Collection(collectionMembers).
			Where("Active", "==", true).
			Where("Roles", "array-contains-any", chunk).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err != nil {
				if err == iterator.Done {
					break
				}
				return nil, r.eb.Wrap(err, "failed to get next member", goerr.V("roles", roles))
			}

			var m roster.Member
			if err := doc.DataTo(&m); err != nil {
				return nil, r.eb.Wrap(err, "failed to convert data to member")
			}
			if seen[m.UserID] {
				continue
			}
			seen[m.UserID] = true
			members = append(members, &m)
		}
	}

	return members, nil
}
