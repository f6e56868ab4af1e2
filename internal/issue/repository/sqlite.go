package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gogotex/issuetracker/internal/issue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS issues (
	id          TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	issue_title TEXT NOT NULL,
	issue_text  TEXT NOT NULL,
	created_by  TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	status_text TEXT NOT NULL DEFAULT '',
	open        INTEGER NOT NULL DEFAULT 1,
	created_on  TEXT NOT NULL,
	updated_on  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project);`

const sqliteColumns = "id, issue_title, issue_text, created_by, assigned_to, status_text, open, created_on, updated_on"

// SQLiteRepo keeps all projects in one table; the project column selects the collection.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLiteRepo ensures the issues table exists on db.
func NewSQLiteRepo(ctx context.Context, db *sql.DB) (*SQLiteRepo, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create issues table: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteRepo) Create(ctx context.Context, project string, is *issue.Issue) error {
	if is.ID.IsZero() {
		is.ID = primitive.NewObjectID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO issues (project, `+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project, is.ID.Hex(), is.IssueTitle, is.IssueText, is.CreatedBy, is.AssignedTo, is.StatusText,
		boolToInt(is.Open), formatTime(is.CreatedOn), formatTime(is.UpdatedOn),
	)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

func (s *SQLiteRepo) Find(ctx context.Context, project string, filter Filter) ([]*issue.Issue, error) {
	where := []string{"project = ?"}
	args := []interface{}{project}
	for k, v := range filter {
		if !issue.IsField(k) {
			return []*issue.Issue{}, nil
		}
		col := k
		if k == issue.FieldID {
			col = "id"
		}
		where = append(where, col+" = ?")
		args = append(args, sqliteValue(v))
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM issues WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	out := []*issue.Issue{}
	for rows.Next() {
		is, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

func (s *SQLiteRepo) Update(ctx context.Context, project, id string, fields Fields) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	var sets []string
	var args []interface{}
	for k, v := range fields {
		if !issue.IsField(k) || k == issue.FieldID || k == issue.FieldCreatedOn {
			continue
		}
		sets = append(sets, k+" = ?")
		args = append(args, sqliteValue(v))
	}
	if len(sets) == 0 {
		return fmt.Errorf("update issue: no columns")
	}
	args = append(args, oid.Hex(), project)
	res, err := s.db.ExecContext(ctx,
		`UPDATE issues SET `+strings.Join(sets, ", ")+` WHERE id = ? AND project = ?`, args...)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteRepo) Delete(ctx context.Context, project, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM issues WHERE id = ? AND project = ?`, oid.Hex(), project)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteRepo) Close(context.Context) error {
	return s.db.Close()
}

func sqliteValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bool:
		return boolToInt(t)
	case time.Time:
		return formatTime(t)
	case primitive.ObjectID:
		return t.Hex()
	}
	return v
}

func scanIssue(rows *sql.Rows) (*issue.Issue, error) {
	var (
		is                   issue.Issue
		id                   string
		open                 int
		createdOn, updatedOn string
	)
	if err := rows.Scan(&id, &is.IssueTitle, &is.IssueText, &is.CreatedBy, &is.AssignedTo,
		&is.StatusText, &open, &createdOn, &updatedOn); err != nil {
		return nil, fmt.Errorf("scan issue: %w", err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("scan issue id %q: %w", id, err)
	}
	is.ID = oid
	is.Open = open != 0
	if is.CreatedOn, err = time.Parse(time.RFC3339Nano, createdOn); err != nil {
		return nil, fmt.Errorf("scan created_on: %w", err)
	}
	if is.UpdatedOn, err = time.Parse(time.RFC3339Nano, updatedOn); err != nil {
		return nil, fmt.Errorf("scan updated_on: %w", err)
	}
	return &is, nil
}
