package gitutils

import (
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const DefaultRemote = "origin"

var (
	ErrCannotGetLocalRepository = errors.New("cannot get local repository")
	ErrRemoteHasNoURL           = errors.New("remote has no URL")
)

// GitError carries the output of a failed git process.
type GitError struct {
	Command string
	Output  string
}

func (e *GitError) Error() string {
	if e.Output == "" {
		return "git " + e.Command + " failed"
	}

	return "git " + e.Command + ": " + e.Output
}

type BranchNotFoundError struct {
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return "branch not found: " + e.Branch
}

type commandRunner func(ctx context.Context, dir string, args ...string) (string, error)

var runGitCommand commandRunner = func(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &GitError{
			Command: strings.Join(args, " "),
			Output:  strings.TrimSpace(string(out)),
		}
	}

	return string(out), nil
}

// Repo runs the version control operations of a release against one working
// copy. Reads go through go-git, anything touching the network or the
// working tree shells out to git so credentials and hooks behave as usual.
type Repo struct {
	Path string
	git  gitRepository
	run  commandRunner
}

func Open(path string) (*Repo, error) {
	r, err := openRepo(path)
	if err != nil {
		return nil, errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	return &Repo{
		Path: path,
		git:  &repository{r: r},
		run:  runGitCommand,
	}, nil
}

func (r *Repo) exec(ctx context.Context, args ...string) error {
	log.Debug().Strs("args", args).Str("dir", r.Path).Msg("running git")
	_, err := r.run(ctx, r.Path, args...)

	return err
}

func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	return r.git.GetRemoteURL(DefaultRemote)
}

func (r *Repo) FetchAll(ctx context.Context) error {
	return r.exec(ctx, "fetch", "--all")
}

func (r *Repo) Checkout(ctx context.Context, branch string) error {
	return r.exec(ctx, "checkout", branch)
}

func (r *Repo) Pull(ctx context.Context, remote, branch string) error {
	return r.exec(ctx, "pull", remote, branch)
}

// CommitLog returns the commits on head that are missing from base.
func (r *Repo) CommitLog(ctx context.Context, base, head string) (string, error) {
	return r.git.CommitLog(base, head)
}

func (r *Repo) Merge(ctx context.Context, branch string) error {
	return r.exec(ctx, "merge", branch)
}

func (r *Repo) Push(ctx context.Context, remote, ref string) error {
	return r.exec(ctx, "push", remote, ref)
}

func (r *Repo) Tag(ctx context.Context, name string) error {
	return r.exec(ctx, "tag", name)
}
