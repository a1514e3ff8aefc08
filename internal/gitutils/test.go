package gitutils

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type MockGoGitRepository struct {
	Err          error
	RemoteValue  *git.Remote
	HashValue    *plumbing.Hash
	CommitsValue object.CommitIter
}

func (r MockGoGitRepository) Remote(string) (*git.Remote, error) {
	return r.RemoteValue, r.Err
}

func (r MockGoGitRepository) ResolveRevision(plumbing.Revision) (*plumbing.Hash, error) {
	return r.HashValue, r.Err
}

func (r MockGoGitRepository) Log(*git.LogOptions) (object.CommitIter, error) {
	return r.CommitsValue, r.Err
}

func (r MockGoGitRepository) CommitObject(plumbing.Hash) (*object.Commit, error) {
	return nil, r.Err
}

type MockGitRepository struct {
	ErrorValue     error
	RemoteURLValue string
	LogValue       string
	LogCalls       [][2]string
}

func (r *MockGitRepository) GetRemoteURL(string) (string, error) {
	return r.RemoteURLValue, r.ErrorValue
}

func (r *MockGitRepository) CommitLog(base, head string) (string, error) {
	r.LogCalls = append(r.LogCalls, [2]string{base, head})

	return r.LogValue, r.ErrorValue
}

// MockCommandRunner records git invocations instead of running them.
type MockCommandRunner struct {
	ErrorValue error
	FailOn     string
	Calls      [][]string
}

func (m *MockCommandRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	m.Calls = append(m.Calls, args)
	if m.FailOn != "" && len(args) > 0 && args[0] == m.FailOn {
		return "", m.ErrorValue
	}

	return "", nil
}

// NewMockRepo builds a Repo backed by mocks.
func NewMockRepo(g *MockGitRepository, runner *MockCommandRunner) *Repo {
	return &Repo{
		Path: "/repo",
		git:  g,
		run:  runner.Run,
	}
}
