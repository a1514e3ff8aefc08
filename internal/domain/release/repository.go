package release

import (
	"context"

	"relbot/internal/domain/pullrequest"
)

// Entity is a release object created on the code host.
type Entity struct {
	ID      int64
	TagName string
	Name    string
	URL     string
}

type Publisher interface {
	CreateRelease(context.Context, *CreateOptions) (*Entity, error)
}

type Notifier interface {
	Post(context.Context, *PostOptions) error
}

type CreateOptions struct {
	Repository pullrequest.GitRepository
	TagName    string
	Name       string
	Body       string
}

type PostOptions struct {
	Channel      string
	Text         string
	Notification Notification
}
