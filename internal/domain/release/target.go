package release

import (
	"fmt"
	"strings"

	"relbot/internal/domain/pullrequest"
	"relbot/internal/errcodes"

	"github.com/pkg/errors"
)

// Target describes how one supported repository is released.
type Target struct {
	Title             string
	RemoteURLs        []string
	Repository        pullrequest.GitRepository
	Source            string
	Destination       string
	DevelopmentBranch string
	Channel           string
	Endpoint          string
	ReleasesURL       string
}

// TagURL links to the release page of tag.
func (t *Target) TagURL(tag string) string {
	return fmt.Sprintf("%s/tag/%s", strings.TrimRight(t.ReleasesURL, "/"), tag)
}

func (t *Target) matches(remoteURL string) bool {
	for _, u := range t.RemoteURLs {
		if u == remoteURL {
			return true
		}
	}

	return false
}

// Table is the list of repositories relbot knows how to release.
type Table []*Target

func (t Table) Lookup(remoteURL string) (*Target, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	for _, target := range t {
		if target.matches(remoteURL) {
			return target, nil
		}
	}

	return nil, errors.Wrap(errcodes.ErrUnsupportedRepository, remoteURL)
}
