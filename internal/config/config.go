package config

import (
	"relbot/internal/configutils"
	"relbot/internal/domain/pullrequest"
	"relbot/internal/domain/release"
	"relbot/internal/errcodes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Settings holds the credentials and repository table of one run.
type Settings struct {
	Owner        string
	GithubToken  string
	SlackToken   string
	SlackChannel string
	Targets      release.Table
}

type targetConfig struct {
	Title             string   `mapstructure:"title"`
	Remotes           []string `mapstructure:"remotes"`
	Owner             string   `mapstructure:"owner"`
	Repository        string   `mapstructure:"repository"`
	Source            string   `mapstructure:"source"`
	Destination       string   `mapstructure:"destination"`
	DevelopmentBranch string   `mapstructure:"development_branch"`
	Channel           string   `mapstructure:"channel"`
	Endpoint          string   `mapstructure:"endpoint"`
	ReleasesURL       string   `mapstructure:"releases_url"`
}

func (tc *targetConfig) toTarget(owner string) *release.Target {
	if tc.Owner != "" {
		owner = tc.Owner
	}

	t := &release.Target{
		Title:             tc.Title,
		RemoteURLs:        tc.Remotes,
		Repository:        pullrequest.GitRepository{Owner: owner, Name: tc.Repository},
		Source:            tc.Source,
		Destination:       tc.Destination,
		DevelopmentBranch: tc.DevelopmentBranch,
		Channel:           tc.Channel,
		Endpoint:          tc.Endpoint,
		ReleasesURL:       tc.ReleasesURL,
	}
	if t.Source == "" {
		t.Source = "develop"
	}
	if t.Destination == "" {
		t.Destination = "main"
	}
	if t.DevelopmentBranch == "" {
		t.DevelopmentBranch = t.Source
	}

	return t
}

// DefaultTargets are the repositories relbot releases out of the box.
func DefaultTargets(owner string) release.Table {
	return release.Table{
		{
			Title: "Robo Backend Release",
			RemoteURLs: []string{
				"https://github.com/Jewel-DV/robo-services.git",
				"git@github.com:Jewel-DV/robo-services.git",
			},
			Repository:        pullrequest.GitRepository{Owner: owner, Name: "robo-services"},
			Source:            "develop",
			Destination:       "main",
			DevelopmentBranch: "develop",
			Endpoint:          "https://example.com/",
			ReleasesURL:       "https://github.com/Jewel-DV/robo-services/releases",
		},
	}
}

// LoadSettings reads and validates the settings. Every credential is
// required, dry runs included.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Owner:        v.GetString(configutils.KeyGithubOwner),
		GithubToken:  v.GetString(configutils.KeyGithubToken),
		SlackToken:   v.GetString(configutils.KeySlackToken),
		SlackChannel: v.GetString(configutils.KeySlackChannel),
	}

	switch {
	case s.Owner == "":
		return nil, errcodes.ErrMissingGithubOwner
	case s.GithubToken == "":
		return nil, errcodes.ErrMissingGithubToken
	case s.SlackToken == "":
		return nil, errcodes.ErrMissingSlackToken
	case s.SlackChannel == "":
		return nil, errcodes.ErrMissingSlackChannel
	}

	var extra []*targetConfig
	err := v.UnmarshalKey(configutils.KeyTargets, &extra)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read targets")
	}

	s.Targets = DefaultTargets(s.Owner)
	for _, tc := range extra {
		s.Targets = append(s.Targets, tc.toTarget(s.Owner))
	}

	s.logDebug()

	return s, nil
}

func (s *Settings) logDebug() {
	log.Debug().
		Str(configutils.EnvBindings[configutils.KeyGithubOwner], s.Owner).
		Str(configutils.EnvBindings[configutils.KeyGithubToken], Mask(s.GithubToken)).
		Str(configutils.EnvBindings[configutils.KeySlackToken], Mask(s.SlackToken)).
		Str(configutils.EnvBindings[configutils.KeySlackChannel], s.SlackChannel).
		Int("targets", len(s.Targets)).
		Msg("configuration loaded")
}

// Mask hides all but the first four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}

	return secret[:4] + "****"
}
