package issue

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names as stored in every backend and used on the wire.
const (
	FieldID         = "_id"
	FieldTitle      = "issue_title"
	FieldText       = "issue_text"
	FieldCreatedBy  = "created_by"
	FieldAssignedTo = "assigned_to"
	FieldStatusText = "status_text"
	FieldOpen       = "open"
	FieldCreatedOn  = "created_on"
	FieldUpdatedOn  = "updated_on"
)

// Issue is one tracked item inside a project. Optional text fields are not
// stored when empty and read back as "".
type Issue struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	IssueTitle string             `json:"issue_title" bson:"issue_title"`
	IssueText  string             `json:"issue_text" bson:"issue_text"`
	CreatedBy  string             `json:"created_by" bson:"created_by"`
	AssignedTo string             `json:"assigned_to" bson:"assigned_to,omitempty"`
	StatusText string             `json:"status_text" bson:"status_text,omitempty"`
	Open       bool               `json:"open" bson:"open"`
	CreatedOn  time.Time          `json:"created_on" bson:"created_on"`
	UpdatedOn  time.Time          `json:"updated_on" bson:"updated_on"`
}

// IsField reports whether name is a stored Issue field.
func IsField(name string) bool {
	switch name {
	case FieldID, FieldTitle, FieldText, FieldCreatedBy, FieldAssignedTo,
		FieldStatusText, FieldOpen, FieldCreatedOn, FieldUpdatedOn:
		return true
	}
	return false
}

// Now returns the current time in the precision every store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
