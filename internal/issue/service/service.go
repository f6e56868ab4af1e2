package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gogotex/issuetracker/internal/issue"
	"github.com/gogotex/issuetracker/internal/issue/repository"
	"github.com/gogotex/issuetracker/pkg/logger"
)

// Errors returned by the service. Their text is part of the HTTP contract.
var (
	ErrRequiredFieldsMissing = errors.New("required field(s) missing")
	ErrMissingID             = errors.New("missing _id")
	ErrNoUpdateFields        = errors.New("no update field(s) sent")
	ErrCouldNotCreate        = errors.New("could not create issue")
	ErrCouldNotUpdate        = errors.New("could not update")
	ErrCouldNotDelete        = errors.New("could not delete")
	ErrCouldNotFetch         = errors.New("could not fetch issues")

	errUnknownField = errors.New("not an issue field")
)

// CreateInput carries the fields a client may supply on create.
type CreateInput struct {
	IssueTitle string
	IssueText  string
	CreatedBy  string
	AssignedTo string
	StatusText string
	Open       *bool
}

// UpdateInput carries an id and the fields to change. Nil or empty strings are left untouched.
type UpdateInput struct {
	ID         string
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
}

// Service implements the issue operations on top of a Repository.
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo, now: issue.Now}
}

// Create validates required fields and stores a new open issue.
func (s *Service) Create(ctx context.Context, project string, in CreateInput) (*issue.Issue, error) {
	if in.IssueTitle == "" || in.IssueText == "" || in.CreatedBy == "" {
		return nil, ErrRequiredFieldsMissing
	}
	now := s.now()
	is := &issue.Issue{
		IssueTitle: in.IssueTitle,
		IssueText:  in.IssueText,
		CreatedBy:  in.CreatedBy,
		AssignedTo: in.AssignedTo,
		StatusText: in.StatusText,
		Open:       true,
		CreatedOn:  now,
		UpdatedOn:  now,
	}
	if in.Open != nil {
		is.Open = *in.Open
	}
	if err := s.repo.Create(ctx, project, is); err != nil {
		logger.Errorf("create issue in %q: %v", project, err)
		return nil, fmt.Errorf("%w: %v", ErrCouldNotCreate, err)
	}
	return is, nil
}

// Update applies the non-empty fields of in to the issue with in.ID.
func (s *Service) Update(ctx context.Context, project string, in UpdateInput) error {
	if in.ID == "" {
		return ErrMissingID
	}
	fields := repository.Fields{}
	for name, v := range map[string]*string{
		issue.FieldTitle:      in.IssueTitle,
		issue.FieldText:       in.IssueText,
		issue.FieldCreatedBy:  in.CreatedBy,
		issue.FieldAssignedTo: in.AssignedTo,
		issue.FieldStatusText: in.StatusText,
	} {
		if v != nil && *v != "" {
			fields[name] = *v
		}
	}
	if in.Open != nil {
		fields[issue.FieldOpen] = *in.Open
	}
	if len(fields) == 0 {
		return ErrNoUpdateFields
	}
	fields[issue.FieldUpdatedOn] = s.now()

	if err := s.repo.Update(ctx, project, in.ID, fields); err != nil {
		logger.Debugf("update issue %s in %q: %v", in.ID, project, err)
		return fmt.Errorf("%w: %v", ErrCouldNotUpdate, err)
	}
	return nil
}

// Delete hard-removes the issue with id.
func (s *Service) Delete(ctx context.Context, project, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := s.repo.Delete(ctx, project, id); err != nil {
		logger.Debugf("delete issue %s in %q: %v", id, project, err)
		return fmt.Errorf("%w: %v", ErrCouldNotDelete, err)
	}
	return nil
}

// List returns the project's issues matching every query parameter.
func (s *Service) List(ctx context.Context, project string, query map[string][]string) ([]*issue.Issue, error) {
	filter, err := ParseFilter(query)
	if errors.Is(err, errUnknownField) {
		// no stored issue carries the field
		return []*issue.Issue{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotFetch, err)
	}
	list, err := s.repo.Find(ctx, project, filter)
	if err != nil {
		logger.Errorf("list issues in %q: %v", project, err)
		return nil, fmt.Errorf("%w: %v", ErrCouldNotFetch, err)
	}
	return list, nil
}

// ParseFilter coerces query parameters into typed equality constraints. The
// first value of a repeated key wins. Keys that are not issue fields are
// rejected, which also keeps query operators out of the store.
func ParseFilter(query map[string][]string) (repository.Filter, error) {
	for k := range query {
		if !issue.IsField(k) {
			return nil, fmt.Errorf("%q: %w", k, errUnknownField)
		}
	}
	filter := repository.Filter{}
	for k, vals := range query {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		switch k {
		case issue.FieldOpen:
			switch strings.ToLower(v) {
			case "true":
				filter[k] = true
			case "false":
				filter[k] = false
			default:
				return nil, fmt.Errorf("open: cannot use %q as boolean", v)
			}
		case issue.FieldID:
			oid, err := repository.ParseID(v)
			if err != nil {
				return nil, fmt.Errorf("_id %q: %w", v, err)
			}
			filter[k] = oid
		case issue.FieldCreatedOn, issue.FieldUpdatedOn:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			filter[k] = t.UTC()
		default:
			filter[k] = v
		}
	}
	return filter, nil
}
