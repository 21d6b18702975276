package roster

import (
	"github.com/diveops/watchkeeper/pkg/domain/types"
)

// Member is a crew roster row in the shared store: one person and the roles
// they hold. Owned by the excluded CRUD application; the engine only reads
// the fields below.
type Member struct {
	UserID types.UserID   `json:"user_id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Roles  []types.RoleID `json:"roles"`
	Active bool           `json:"active"`
}

func (x *Member) HasRole(role types.RoleID) bool {
	for _, r := range x.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Recipient is a resolved notification target. Ephemeral: computed fresh on
// every engine invocation, never persisted. Email may be empty; channel
// specific filtering happens at dispatch time.
type Recipient struct {
	UserID types.UserID
	Name   string
	Email  string
}

type Recipients []*Recipient

// Addresses returns the usable email addresses of the recipients, skipping
// those without one.
func (x Recipients) Addresses() []string {
	var addrs []string
	for _, r := range x {
		if r.Email != "" {
			addrs = append(addrs, r.Email)
		}
	}
	return addrs
}
