package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gogotex/issuetracker/internal/issue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("issue not found")
	ErrInvalidID = errors.New("invalid issue id")
)

// Filter is a conjunction of field equality constraints. Values are already
// coerced to the stored type (string, bool, primitive.ObjectID or time.Time).
type Filter map[string]interface{}

// Fields is the set of stored fields an update overwrites.
type Fields map[string]interface{}

// Repository is the document store behind the issue service. A project name
// selects the collection; projects come into existence on first Create.
type Repository interface {
	Create(ctx context.Context, project string, is *issue.Issue) error
	Find(ctx context.Context, project string, filter Filter) ([]*issue.Issue, error)
	Update(ctx context.Context, project, id string, fields Fields) error
	Delete(ctx context.Context, project, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID converts the hex form of an issue id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// matches evaluates filter against an already loaded issue. Unknown keys never match.
func matches(is *issue.Issue, filter Filter) bool {
	for k, want := range filter {
		var got interface{}
		switch k {
		case issue.FieldID:
			got = is.ID
		case issue.FieldTitle:
			got = is.IssueTitle
		case issue.FieldText:
			got = is.IssueText
		case issue.FieldCreatedBy:
			got = is.CreatedBy
		case issue.FieldAssignedTo:
			got = is.AssignedTo
		case issue.FieldStatusText:
			got = is.StatusText
		case issue.FieldOpen:
			got = is.Open
		case issue.FieldCreatedOn:
			got = is.CreatedOn
		case issue.FieldUpdatedOn:
			got = is.UpdatedOn
		default:
			return false
		}
		if t, ok := want.(time.Time); ok {
			gt, _ := got.(time.Time)
			if !gt.Equal(t) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// apply copies update fields onto an issue.
func apply(is *issue.Issue, fields Fields) {
	for k, v := range fields {
		switch k {
		case issue.FieldTitle:
			is.IssueTitle, _ = v.(string)
		case issue.FieldText:
			is.IssueText, _ = v.(string)
		case issue.FieldCreatedBy:
			is.CreatedBy, _ = v.(string)
		case issue.FieldAssignedTo:
			is.AssignedTo, _ = v.(string)
		case issue.FieldStatusText:
			is.StatusText, _ = v.(string)
		case issue.FieldOpen:
			is.Open, _ = v.(bool)
		case issue.FieldUpdatedOn:
			is.UpdatedOn, _ = v.(time.Time)
		}
	}
}
