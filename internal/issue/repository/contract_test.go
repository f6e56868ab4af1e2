package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gogotex/issuetracker/internal/issue"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newIssue(title, by string) *issue.Issue {
	now := issue.Now()
	return &issue.Issue{IssueTitle: title, IssueText: "text " + title, CreatedBy: by, Open: true, CreatedOn: now, UpdatedOn: now}
}

// testRepositoryBehaviour exercises the behaviour every backend shares.
func testRepositoryBehaviour(t *testing.T, r Repository) {
	ctx := context.Background()

	a := newIssue("a", "alice")
	a.AssignedTo = "team"
	require.NoError(t, r.Create(ctx, "apitest", a))
	require.False(t, a.ID.IsZero())

	b := newIssue("b", "bob")
	b.Open = false
	require.NoError(t, r.Create(ctx, "apitest", b))
	require.NoError(t, r.Create(ctx, "other", newIssue("c", "alice")))

	all, err := r.Find(ctx, "apitest", Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a.ID, all[0].ID)
	require.Equal(t, "team", all[0].AssignedTo)
	require.Equal(t, "", all[1].StatusText)
	require.True(t, all[0].CreatedOn.Equal(a.CreatedOn))

	byAlice, err := r.Find(ctx, "apitest", Filter{issue.FieldCreatedBy: "alice"})
	require.NoError(t, err)
	require.Len(t, byAlice, 1)

	closed, err := r.Find(ctx, "apitest", Filter{issue.FieldOpen: false, issue.FieldCreatedBy: "bob"})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.Equal(t, b.ID, closed[0].ID)

	unassigned, err := r.Find(ctx, "apitest", Filter{issue.FieldAssignedTo: ""})
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	require.Equal(t, b.ID, unassigned[0].ID)

	byID, err := r.Find(ctx, "apitest", Filter{issue.FieldID: a.ID})
	require.NoError(t, err)
	require.Len(t, byID, 1)

	byCreated, err := r.Find(ctx, "apitest", Filter{issue.FieldCreatedOn: a.CreatedOn})
	require.NoError(t, err)
	require.NotEmpty(t, byCreated)

	unknown, err := r.Find(ctx, "apitest", Filter{"priority": "high"})
	require.NoError(t, err)
	require.Empty(t, unknown)

	empty, err := r.Find(ctx, "nobody", Filter{})
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	later := a.UpdatedOn.Add(time.Second)
	require.NoError(t, r.Update(ctx, "apitest", a.ID.Hex(), Fields{issue.FieldTitle: "a2", issue.FieldOpen: false, issue.FieldUpdatedOn: later}))
	got, err := r.Find(ctx, "apitest", Filter{issue.FieldID: a.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a2", got[0].IssueTitle)
	require.False(t, got[0].Open)
	require.True(t, got[0].UpdatedOn.Equal(later))
	require.True(t, got[0].CreatedOn.Equal(a.CreatedOn))

	require.ErrorIs(t, r.Update(ctx, "apitest", primitive.NewObjectID().Hex(), Fields{issue.FieldTitle: "x"}), ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, "apitest", "607f94ae19f5231fc830c29", Fields{issue.FieldTitle: "x"}), ErrInvalidID)
	require.ErrorIs(t, r.Update(ctx, "other", a.ID.Hex(), Fields{issue.FieldTitle: "x"}), ErrNotFound)

	require.NoError(t, r.Delete(ctx, "apitest", a.ID.Hex()))
	require.ErrorIs(t, r.Delete(ctx, "apitest", a.ID.Hex()), ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "apitest", "not-an-id"), ErrInvalidID)

	left, err := r.Find(ctx, "apitest", Filter{})
	require.NoError(t, err)
	require.Len(t, left, 1)

	require.NoError(t, r.Ping(ctx))
}
