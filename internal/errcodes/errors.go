package errcodes

import "errors"

var (
	ErrMissingRepositoryPath  = errors.New("repository path is missing")
	ErrMissingGithubOwner     = errors.New("github owner is missing, set GITHUB_OWNER")
	ErrMissingGithubToken     = errors.New("github token is missing, set GITHUB_PERSONAL_TOKEN")
	ErrMissingSlackToken      = errors.New("slack token is missing, set SLACK_BOT_USER_OAUTH_ACCESS_TOKEN")
	ErrMissingSlackChannel    = errors.New("slack channel is missing, set SLACK_CHANNEL")
	ErrUnsupportedRepository  = errors.New("no release support for repository")
	ErrRepositoryPathIsNotDir = errors.New("repository path is not a directory")
	ErrReleaseAborted         = errors.New("release aborted")
	ErrMissingTag             = errors.New("tag name is missing")
)

// IsConfiguration reports whether err was caused by missing or invalid
// configuration rather than a failing collaborator.
func IsConfiguration(err error) bool {
	for _, e := range []error{
		ErrMissingRepositoryPath,
		ErrMissingGithubOwner,
		ErrMissingGithubToken,
		ErrMissingSlackToken,
		ErrMissingSlackChannel,
		ErrUnsupportedRepository,
		ErrRepositoryPathIsNotDir,
	} {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
