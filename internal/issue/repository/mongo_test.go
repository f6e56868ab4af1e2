package repository

import (
	"context"
	"testing"

	"github.com/gogotex/issuetracker/internal/issue"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		is := newIssue("a", "alice")
		require.NoError(mt, r.Create(ctx, "apitest", is))
		require.False(mt, is.ID.IsZero())
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		require.Error(mt, r.Create(ctx, "apitest", newIssue("a", "alice")))
	})

	mt.Run("find decodes documents", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		id := primitive.NewObjectID()
		now := issue.Now()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".apitest", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "issue_title", Value: "a"},
			{Key: "issue_text", Value: "text"},
			{Key: "created_by", Value: "alice"},
			{Key: "open", Value: true},
			{Key: "created_on", Value: now},
			{Key: "updated_on", Value: now},
		}))
		list, err := r.Find(ctx, "apitest", Filter{issue.FieldCreatedBy: "alice", issue.FieldOpen: true})
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		require.Equal(mt, id, list[0].ID)
		require.Equal(mt, "", list[0].AssignedTo)
		require.True(mt, list[0].Open)
	})

	mt.Run("find surfaces command errors", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad query"}))
		_, err := r.Find(ctx, "apitest", Filter{})
		require.Error(mt, err)
	})

	mt.Run("update matched", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		require.NoError(mt, r.Update(ctx, "apitest", primitive.NewObjectID().Hex(), Fields{issue.FieldTitle: "b"}))
	})

	mt.Run("update not matched", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		err := r.Update(ctx, "apitest", primitive.NewObjectID().Hex(), Fields{issue.FieldTitle: "b"})
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("update rejects malformed id before calling the server", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		err := r.Update(ctx, "apitest", "607f94ae19f5231fc830c29", Fields{issue.FieldTitle: "b"})
		require.ErrorIs(mt, err, ErrInvalidID)
	})

	mt.Run("delete", func(mt *mtest.T) {
		r := NewMongoRepo(mt.Client, mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		id := primitive.NewObjectID().Hex()
		require.NoError(mt, r.Delete(ctx, "apitest", id))
		require.ErrorIs(mt, r.Delete(ctx, "apitest", id), ErrNotFound)
		require.ErrorIs(mt, r.Delete(ctx, "apitest", "zzz"), ErrInvalidID)
	})
}

func TestMongoFilter_EmptyOptionalMatchesMissing(t *testing.T) {
	q := mongoFilter(Filter{issue.FieldAssignedTo: "", issue.FieldCreatedBy: "", issue.FieldOpen: true})
	require.Equal(t, bson.M{"$in": bson.A{"", nil}}, q[issue.FieldAssignedTo])
	require.Equal(t, "", q[issue.FieldCreatedBy])
	require.Equal(t, true, q[issue.FieldOpen])
}
