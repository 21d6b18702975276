package roster

import (
	"context"

	"github.com/diveops/watchkeeper/pkg/domain/interfaces"
	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Service resolves notification audiences from the crew roster.
type Service struct {
	repo interfaces.Repository
}

func New(repo interfaces.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the union of active holders of the requested roles,
// de-duplicated by user ID. A member holding several of the requested roles
// appears once. Members without an email address are still included; the
// email channel filters them at dispatch time.
func (x *Service) Resolve(ctx context.Context, roles []types.RoleID) (roster.Recipients, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	members, err := x.repo.ListRoleMembers(ctx, roles)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list role members", goerr.V("roles", roles))
	}

	seen := map[types.UserID]bool{}
	recipients := make(roster.Recipients, 0, len(members))
	for _, m := range members {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		recipients = append(recipients, &roster.Recipient{
			UserID: m.UserID,
			Name:   m.Name,
			Email:  m.Email,
		})
	}
	return recipients, nil
}
