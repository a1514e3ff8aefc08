package release

import (
	"fmt"
	"time"

	"relbot/internal/domain/pullrequest"
)

// Context accumulates everything one pipeline run gathers and produces.
type Context struct {
	RunID        string
	Target       *Target
	RawLog       string
	IDs          []pullrequest.EntityID
	PullRequests map[pullrequest.EntityID]*pullrequest.Entity
	TagName      string
	Body         string
	Notification Notification
	Release      *Entity
	SnapshotPath string
}

func NewContext(runID string) *Context {
	return &Context{
		RunID:        runID,
		IDs:          []pullrequest.EntityID{},
		PullRequests: make(map[pullrequest.EntityID]*pullrequest.Entity),
	}
}

// NewTagName builds a tag that is unique per run: the UTC date followed by
// the epoch in milliseconds.
func NewTagName(now time.Time) string {
	return fmt.Sprintf("v%s-%d", now.UTC().Format("2006-01-02"), now.UnixMilli())
}
