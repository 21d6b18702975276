package roster_test

import (
	"context"
	"testing"

	"github.com/diveops/watchkeeper/pkg/domain/model/roster"
	"github.com/diveops/watchkeeper/pkg/domain/types"
	"github.com/diveops/watchkeeper/pkg/repository/memory"
	svc "github.com/diveops/watchkeeper/pkg/service/roster"
	"github.com/m-mizutani/gt"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	members := []roster.Member{
		{UserID: "u1", Name: "Aoi", Email: "aoi@example.com", Roles: []types.RoleID{"supervisor"}, Active: true},
		{UserID: "u2", Name: "Ben", Email: "ben@example.com", Roles: []types.RoleID{"supervisor", "admin"}, Active: true},
		{UserID: "u3", Name: "Caro", Email: "", Roles: []types.RoleID{"admin"}, Active: true},
		{UserID: "u4", Name: "Dana", Email: "dana@example.com", Roles: []types.RoleID{"admin"}, Active: false},
	}
	for _, m := range members {
		gt.NoError(t, repo.PutMember(ctx, m))
	}

	s := svc.New(repo)

	t.Run("union dedupes by user ID", func(t *testing.T) {
		got := gt.R1(s.Resolve(ctx, []types.RoleID{"supervisor", "admin"})).NoError(t)
		gt.Array(t, got).Length(3)

		seen := map[types.UserID]int{}
		for _, r := range got {
			seen[r.UserID]++
		}
		gt.Equal(t, seen["u2"], 1)
	})

	t.Run("inactive members excluded", func(t *testing.T) {
		got := gt.R1(s.Resolve(ctx, []types.RoleID{"admin"})).NoError(t)
		for _, r := range got {
			gt.NotEqual(t, r.UserID, types.UserID("u4"))
		}
	})

	t.Run("members without email kept", func(t *testing.T) {
		got := gt.R1(s.Resolve(ctx, []types.RoleID{"admin"})).NoError(t)
		found := false
		for _, r := range got {
			if r.UserID == "u3" {
				found = true
				gt.Equal(t, r.Email, "")
			}
		}
		gt.True(t, found)
		gt.Array(t, got.Addresses()).Length(1)
	})

	t.Run("no roles requested", func(t *testing.T) {
		got := gt.R1(s.Resolve(ctx, nil)).NoError(t)
		gt.Array(t, got).Length(0)
	})
}
