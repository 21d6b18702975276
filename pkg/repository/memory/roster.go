package memory

import (
	"context"
	"sort"

	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
)

func (r *Memory) PutMember(ctx context.Context, m roster.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := m
	r.members[m.UserID] = &copied
	return nil
}

func (r *Memory) ListRoleMembers(ctx context.Context, roles []types.RoleID) ([]*roster.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*roster.Member
	for _, m := range r.members {
		if !m.Active {
			continue
		}
		for _, role := range roles {
			if m.HasRole(role) {
				copied := *m
				members = append(members, &copied)
				break
			}
		}
	}

	// Map iteration order is random; keep results stable for callers
	sort.Slice(members, func(i, j int) bool {
		return members[i].UserID < members[j].UserID
	})
	return members, nil
}
