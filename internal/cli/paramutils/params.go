package paramutils

import (
	"path/filepath"

	"relbot/internal/clientutils"
	"relbot/internal/config"
	"relbot/internal/configutils"
	"relbot/internal/domain"
	"relbot/internal/domain/pullrequest"
	"relbot/internal/errcodes"
	"relbot/internal/gitutils"
	"relbot/internal/persistance"
	"relbot/internal/pkg/fs"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

type FlagRepo interface {
	GetStringOrDefault(flag, d string) string
	GetBoolOrDefault(flag string, d bool) bool
}

func NewFlagRepo(flags *pflag.FlagSet) FlagRepo {
	return &PFlagSetWrapper{Flags: flags}
}

type PFlagSetWrapper struct {
	Flags *pflag.FlagSet
}

func (fs *PFlagSetWrapper) GetStringOrDefault(flag, d string) string {
	return configutils.GetStringFlagOrDefault(fs.Flags, flag, d)
}

func (fs *PFlagSetWrapper) GetBoolOrDefault(flag string, d bool) bool {
	return configutils.GetBoolFlagOrDefault(fs.Flags, flag, d)
}

// GetRepoPath returns the absolute path of the working copy named by --repo.
func GetRepoPath(flags FlagRepo, filesystem fs.Filesystem) (string, error) {
	path := flags.GetStringOrDefault("repo", "")
	if path == "" {
		return "", errcodes.ErrMissingRepositoryPath
	}

	if !filepath.IsAbs(path) {
		wd, err := filesystem.Getwd()
		if err != nil {
			return "", err
		}
		path = filepath.Join(wd, path)
	}

	info, err := filesystem.Stat(path)
	if err != nil {
		return "", errors.Wrap(errcodes.ErrMissingRepositoryPath, err.Error())
	}
	if !info.IsDir() {
		return "", errors.Wrap(errcodes.ErrRepositoryPathIsNotDir, path)
	}

	return filepath.Clean(path), nil
}

var loadConfigForPath = configutils.LoadConfigForPath

// LoadSettings loads the configuration for path, including the file given
// with --config.
func LoadSettings(flags FlagRepo, path string) (*config.Settings, error) {
	v, err := loadConfigForPath(path)
	if err != nil {
		return nil, err
	}

	if cfg := flags.GetStringOrDefault("config", ""); cfg != "" {
		err = configutils.MergeConfigFile(v, cfg)
		if err != nil {
			return nil, err
		}
	}

	return config.LoadSettings(v)
}

var openVCS = func(path string) (domain.VCS, error) {
	return gitutils.Open(path)
}

// GetPipeline wires a release pipeline for the working copy named by --repo.
func GetPipeline(flags FlagRepo, filesystem fs.Filesystem) (*domain.Pipeline, *config.Settings, error) {
	path, err := GetRepoPath(flags, filesystem)
	if err != nil {
		return nil, nil, err
	}

	settings, err := LoadSettings(flags, path)
	if err != nil {
		return nil, nil, err
	}

	vcs, err := openVCS(path)
	if err != nil {
		return nil, nil, err
	}

	cf := clientutils.ClientFactory{}
	gh := cf.Github(settings)

	return &domain.Pipeline{
		VCS:            vcs,
		Resolver:       pullrequest.NewResolver(gh),
		Publisher:      gh,
		Notifier:       cf.Slack(settings),
		Targets:        settings.Targets,
		DefaultChannel: settings.SlackChannel,
		Storage:        persistance.GetRepo(),
		Filesystem:     filesystem,
	}, settings, nil
}
