package pullrequest

import (
	"context"
	"fmt"
)

// MockRepository serves entities from a map and records every Get call.
type MockRepository struct {
	Entities   map[EntityID]*Entity
	OpenValue  []*Entity
	ErrorValue error
	FailIDs    map[EntityID]error
	GetCalls   []EntityID
	ListCalls  int
}

func (m *MockRepository) Get(ctx context.Context, o *GetOptions) (*Entity, error) {
	m.GetCalls = append(m.GetCalls, o.ID)
	if err, ok := m.FailIDs[o.ID]; ok {
		return nil, err
	}
	if m.ErrorValue != nil {
		return nil, m.ErrorValue
	}

	pr, ok := m.Entities[o.ID]
	if !ok {
		return nil, fmt.Errorf("pull request %d not found", o.ID)
	}

	return pr, nil
}

func (m *MockRepository) ListOpen(ctx context.Context, o *ListOptions) ([]*Entity, error) {
	m.ListCalls++

	return m.OpenValue, m.ErrorValue
}
