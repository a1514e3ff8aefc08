package pullrequest

import (
	"strconv"
	"time"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// EntityID is the pull request number as it appears in commit messages and
// web URLs.
type EntityID int

func (id EntityID) String() string {
	return strconv.Itoa(int(id))
}

type Entity struct {
	ID       EntityID
	HostID   int64
	Title    string
	URL      string
	Author   string
	State    State
	MergedAt time.Time
}

// GitRepository identifies a repository on the code host.
type GitRepository struct {
	Owner string
	Name  string
}

func (r GitRepository) FullName() string {
	return r.Owner + "/" + r.Name
}
