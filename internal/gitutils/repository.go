package gitutils

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

type goGitRepository interface {
	Remote(string) (*git.Remote, error)
	ResolveRevision(plumbing.Revision) (*plumbing.Hash, error)
	Log(*git.LogOptions) (object.CommitIter, error)
	CommitObject(plumbing.Hash) (*object.Commit, error)
}

type gitRepository interface {
	GetRemoteURL(string) (string, error)
	CommitLog(base, head string) (string, error)
}

type repository struct {
	r goGitRepository
}

var openRepo = func(path string) (*git.Repository, error) {
	return OpenRepoRecursevely(path)
}

func OpenRepoRecursevely(input string) (*git.Repository, error) {
	dir := input
	for dir != "/" && dir != "." {
		repo, err := git.PlainOpen(dir)
		if err == nil {
			return repo, nil
		}

		dir = path.Dir(dir)
	}

	return nil, fmt.Errorf("Could not recursivelly open a repo at %s", input)
}

func (r *repository) GetRemoteURL(name string) (string, error) {
	remote, err := r.r.Remote(name)
	if err != nil {
		return "", errors.Wrapf(err, "cannot read remote %s", name)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.Wrap(ErrRemoteHasNoURL, name)
	}

	return urls[0], nil
}

func (r *repository) resolveBranch(b string) (*plumbing.Hash, error) {
	h, err := r.r.ResolveRevision(plumbing.Revision(plumbing.NewBranchReferenceName(b)))
	if err != nil {
		return nil, &BranchNotFoundError{Branch: b}
	}

	return h, nil
}

// CommitLog lists the commits reachable from head but not from base, one
// "<short hash> <subject>" line per commit, newest first.
func (r *repository) CommitLog(base, head string) (string, error) {
	baseHash, err := r.resolveBranch(base)
	if err != nil {
		return "", err
	}

	headHash, err := r.resolveBranch(head)
	if err != nil {
		return "", err
	}

	baseIter, err := r.r.Log(&git.LogOptions{From: *baseHash})
	if err != nil {
		return "", err
	}

	reachable := make(map[plumbing.Hash]bool)
	err = baseIter.ForEach(func(c *object.Commit) error {
		reachable[c.Hash] = true
		return nil
	})
	if err != nil {
		return "", err
	}

	var lines []string
	stack := []plumbing.Hash{*headHash}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Commits known from base are not walked again.
		if reachable[h] {
			continue
		}
		reachable[h] = true

		c, err := r.r.CommitObject(h)
		if err != nil {
			return "", err
		}

		lines = append(lines, fmt.Sprintf("%s %s", c.Hash.String()[:7], subject(c.Message)))

		// First parent is popped first.
		for i := len(c.ParentHashes) - 1; i >= 0; i-- {
			stack = append(stack, c.ParentHashes[i])
		}
	}

	return strings.Join(lines, "\n"), nil
}

func subject(message string) string {
	return strings.TrimSpace(strings.SplitN(message, "\n", 2)[0])
}
