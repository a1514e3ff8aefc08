package configutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"relbot/internal/pkg/fs"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ConfigDir       = "~/.config/relbot"
	LocalConfigFile = ".relbotcfg"
	DotEnvFile      = ".env"
)

const (
	KeyGithubOwner  = "github.owner"
	KeyGithubToken  = "github.token"
	KeySlackToken   = "slack.token"
	KeySlackChannel = "slack.channel"
	KeyTargets      = "targets"
)

const (
	DefaultGithubOwner  = "Jewel-DV"
	DefaultSlackChannel = "dev"
)

// EnvBindings maps configuration keys to the environment variables that
// override them.
var EnvBindings = map[string]string{
	KeyGithubOwner:  "GITHUB_OWNER",
	KeyGithubToken:  "GITHUB_PERSONAL_TOKEN",
	KeySlackToken:   "SLACK_BOT_USER_OAUTH_ACCESS_TOKEN",
	KeySlackChannel: "SLACK_CHANNEL",
}

var filetypes = []string{"yaml", "json", "toml"}

type FlagSet interface {
	GetString(string) (string, error)
	GetBool(string) (bool, error)
}

type configMerger interface {
	MergeConfig(io.Reader) error
}

var (
	ErrHomeDirNotFound = errors.New("unable to determine the home directory")
	ErrConfigFileIsDir = errors.New("configuration file is a directory")
	ErrConfigNotFound  = errors.New("no configuration file found")
)

var mergeConfig = func(in io.Reader, cm configMerger) error {
	err := cm.MergeConfig(in)
	if err != nil {
		return err
	}

	return nil
}

var fileExists = func(filename string, fs fs.Filesystem) error {
	info, err := fs.Stat(filename)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return ErrConfigFileIsDir
	}

	return nil
}

var loadFile = func(filename string, fs fs.Filesystem) (io.Reader, error) {
	err := fileExists(filename, fs)
	if err != nil {
		return nil, err
	}

	f, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}

	return f, nil
}

var loadConfig = func(filename string, v *viper.Viper) error {
	f, err := loadFile(filename, fs.OS{})
	if err != nil {
		return err
	}
	if c, ok := f.(io.Closer); ok {
		defer c.Close()
	}

	return mergeConfig(f, v)
}

var getGlobalConfigDir = func() (string, error) {
	return homedir.Expand(ConfigDir)
}

var loadDotEnv = func(filename string) error {
	return godotenv.Load(filename)
}

// LoadDotEnv exports the variables of a .env file in dir. A missing file is
// not an error and variables already set in the environment win.
func LoadDotEnv(dir string) error {
	err := loadDotEnv(filepath.Join(dir, DotEnvFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// MergeLocalConfig merges the repository-local .relbotcfg, whichever format
// it is written in.
func MergeLocalConfig(v *viper.Viper, path string) error {
	f := filepath.Join(path, LocalConfigFile)
	if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	var err error
	for _, ft := range filetypes {
		v.SetConfigType(ft)
		err = loadConfig(f, v)
		if err == nil {
			return nil
		}
	}

	return errors.Wrapf(err, "cannot load %s", f)
}

// MergeConfigFile merges an explicitly given config file, its format taken
// from the extension.
func MergeConfigFile(v *viper.Viper, filename string) error {
	filename, err := homedir.Expand(filename)
	if err != nil {
		return ErrHomeDirNotFound
	}

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	v.SetConfigType(ext)

	return errors.Wrapf(loadConfig(filename, v), "cannot load %s", filename)
}

// BindEnv registers the environment overrides and defaults on v.
func BindEnv(v *viper.Viper) error {
	for key, env := range EnvBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	v.SetDefault(KeyGithubOwner, DefaultGithubOwner)
	v.SetDefault(KeySlackChannel, DefaultSlackChannel)

	return nil
}

// LoadConfigForPath builds the configuration for a run in path: .env, the
// global config, the local .relbotcfg, then the environment.
func LoadConfigForPath(path string) (*viper.Viper, error) {
	err := LoadDotEnv(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load .env")
	}

	v, err := DefaultConfig()
	if errors.Is(err, ErrConfigNotFound) {
		log.Debug().Err(err).Msg("continuing without global configuration")
		v, err = viper.New(), nil
	}
	if err != nil {
		return nil, err
	}

	err = MergeLocalConfig(v, path)
	if err != nil {
		return nil, err
	}

	err = BindEnv(v)
	if err != nil {
		return nil, err
	}

	return v, nil
}

func DefaultConfig() (*viper.Viper, error) {
	cfgDir, err := getGlobalConfigDir()
	if err != nil {
		return nil, ErrHomeDirNotFound
	}

	v := viper.New()
	for _, ft := range filetypes {
		f := filepath.Join(cfgDir, fmt.Sprintf("config.%s", ft))
		v.SetConfigType(ft)
		err = loadConfig(f, v)
		if err == nil {
			return v, nil
		}
		log.Debug().
			Msgf("config loading failed for type %s, skipping to next filetype", ft)
	}

	return nil, errors.Wrap(ErrConfigNotFound, cfgDir)
}

func GetBoolFlagOrDefault(fs FlagSet, flag string, d bool) bool {
	v, err := fs.GetBool(flag)
	if err != nil {
		return d
	}

	return v
}

func GetStringFlagOrDefault(fs FlagSet, flag, d string) string {
	s, err := fs.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}
