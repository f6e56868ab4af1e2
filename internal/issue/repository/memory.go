package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/gogotex/issuetracker/internal/issue"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps issues in process memory. It backs tests and runs the
// service when no database is configured.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]map[primitive.ObjectID]*issue.Issue
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]map[primitive.ObjectID]*issue.Issue)}
}

func (m *MemoryRepo) Create(_ context.Context, project string, is *issue.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if is.ID.IsZero() {
		is.ID = primitive.NewObjectID()
	}
	col, ok := m.projects[project]
	if !ok {
		col = make(map[primitive.ObjectID]*issue.Issue)
		m.projects[project] = col
	}
	cp := *is
	col[is.ID] = &cp
	return nil
}

// Find returns copies ordered by id, which is creation order.
func (m *MemoryRepo) Find(_ context.Context, project string, filter Filter) ([]*issue.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*issue.Issue{}
	for _, is := range m.projects[project] {
		if matches(is, filter) {
			cp := *is
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, project, id string, fields Fields) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	is, ok := m.projects[project][oid]
	if !ok {
		return ErrNotFound
	}
	apply(is, fields)
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, project, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.projects[project]
	if _, ok := col[oid]; !ok {
		return ErrNotFound
	}
	delete(col, oid)
	if len(col) == 0 {
		delete(m.projects, project)
	}
	return nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func (m *MemoryRepo) Close(context.Context) error { return nil }

// Projects returns the number of projects currently holding issues.
func (m *MemoryRepo) Projects() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.projects)
}
