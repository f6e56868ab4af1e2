package repository

import (
	"context"

	"github.com/gogotex/issuetracker/internal/issue"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores each project's issues in a collection named after the project.
// Collection handles are derived per call and never cached.
type MongoRepo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepo(client *mongo.Client, db *mongo.Database) *MongoRepo {
	return &MongoRepo{client: client, db: db}
}

func (m *MongoRepo) collection(project string) *mongo.Collection {
	return m.db.Collection(project)
}

func (m *MongoRepo) Create(ctx context.Context, project string, is *issue.Issue) error {
	if is.ID.IsZero() {
		is.ID = primitive.NewObjectID()
	}
	_, err := m.collection(project).InsertOne(ctx, is)
	return err
}

func (m *MongoRepo) Find(ctx context.Context, project string, filter Filter) ([]*issue.Issue, error) {
	opts := options.Find().SetSort(bson.D{{Key: issue.FieldID, Value: 1}})
	cur, err := m.collection(project).Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*issue.Issue{}
	for cur.Next(ctx) {
		var is issue.Issue
		if err := cur.Decode(&is); err != nil {
			return nil, err
		}
		out = append(out, &is)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Update(ctx context.Context, project, id string, fields Fields) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := m.collection(project).UpdateOne(ctx, bson.M{issue.FieldID: oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, project, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	res, err := m.collection(project).DeleteOne(ctx, bson.M{issue.FieldID: oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// mongoFilter turns a Filter into a query document. Empty optional text
// fields are not stored, so "" also has to match a missing field.
func mongoFilter(filter Filter) bson.M {
	q := bson.M{}
	for k, v := range filter {
		if s, ok := v.(string); ok && s == "" && (k == issue.FieldAssignedTo || k == issue.FieldStatusText) {
			q[k] = bson.M{"$in": bson.A{"", nil}}
			continue
		}
		q[k] = v
	}
	return q
}
