package domain

import (
	"context"
	"fmt"
	"strings"

	"relbot/internal/domain/release"
)

// MockVCS records every call as a single git-like command line.
type MockVCS struct {
	RemoteURLValue string
	LogValue       string
	ErrorValue     error
	FailOn         string
	Calls          []string
}

func (m *MockVCS) call(name string, args ...string) error {
	m.Calls = append(m.Calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if m.FailOn == name {
		return m.ErrorValue
	}

	return nil
}

func (m *MockVCS) RemoteURL(ctx context.Context) (string, error) {
	return m.RemoteURLValue, m.call("remote")
}

func (m *MockVCS) FetchAll(ctx context.Context) error {
	return m.call("fetch", "--all")
}

func (m *MockVCS) Checkout(ctx context.Context, branch string) error {
	return m.call("checkout", branch)
}

func (m *MockVCS) Pull(ctx context.Context, remote, branch string) error {
	return m.call("pull", remote, branch)
}

func (m *MockVCS) CommitLog(ctx context.Context, base, head string) (string, error) {
	return m.LogValue, m.call("log", fmt.Sprintf("%s..%s", base, head))
}

func (m *MockVCS) Merge(ctx context.Context, branch string) error {
	return m.call("merge", branch)
}

func (m *MockVCS) Push(ctx context.Context, remote, ref string) error {
	return m.call("push", remote, ref)
}

func (m *MockVCS) Tag(ctx context.Context, name string) error {
	return m.call("tag", name)
}

type MockPresenter struct {
	Events []*Event
}

func (m *MockPresenter) Notify(e *Event) {
	m.Events = append(m.Events, e)
}

func (m *MockPresenter) OfType(t EventType) []*Event {
	var events []*Event
	for _, e := range m.Events {
		if e.Type == t {
			events = append(events, e)
		}
	}

	return events
}

type MockStorage struct {
	ErrorValue error
	Recorded   []*release.Context
}

func (m *MockStorage) Record(rc *release.Context) error {
	m.Recorded = append(m.Recorded, rc)

	return m.ErrorValue
}
