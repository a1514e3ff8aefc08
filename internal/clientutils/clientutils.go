package clientutils

import (
	"relbot/internal/config"
	"relbot/internal/pkg/github"
	"relbot/internal/pkg/slack"
)

// ClientFactory builds the remote collaborators of a run from its settings.
type ClientFactory struct {
	GithubBaseURL string
	SlackBaseURL  string
}

func (cf ClientFactory) Github(s *config.Settings) *github.GithubCloudClient {
	return github.New(&github.ClientOptions{
		Token:   s.GithubToken,
		BaseURL: cf.GithubBaseURL,
	})
}

func (cf ClientFactory) Slack(s *config.Settings) *slack.SlackClient {
	return slack.New(&slack.ClientOptions{
		Token:   s.SlackToken,
		BaseURL: cf.SlackBaseURL,
	})
}
