package persistance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"relbot/internal/domain/release"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

const defaultStateDir = "~/.config/relbot"

type ReleaseRecord struct {
	Repository   string    `json:"repository"`
	Tag          string    `json:"tag"`
	PullRequests []int     `json:"pullRequests"`
	URL          string    `json:"url,omitempty"`
	Published    time.Time `json:"published"`
	RunID        string    `json:"runId"`
}

type state struct {
	Releases []*ReleaseRecord `json:"releases,omitempty"`
}

type PersistanceRepo interface {
	Record(rc *release.Context) error
	GetReleases() ([]*ReleaseRecord, error)
}

// XDGPersistanceRepo keeps the release history as JSON in the user's config
// directory.
type XDGPersistanceRepo struct {
	dir string
	s   *state
	now func() time.Time
}

func NewXDGPersistanceRepo(dir string) *XDGPersistanceRepo {
	return &XDGPersistanceRepo{
		dir: dir,
		s:   &state{},
		now: time.Now,
	}
}

func (repo *XDGPersistanceRepo) statePath() (string, error) {
	dir, err := homedir.Expand(repo.dir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "state"), nil
}

func (repo *XDGPersistanceRepo) createConfigDirIfNotExist() error {
	dirPath, err := homedir.Expand(repo.dir)
	if err != nil {
		return err
	}

	_, err = os.Stat(dirPath)
	if os.IsNotExist(err) {
		return os.MkdirAll(dirPath, 0700)
	}

	return nil
}

func (repo *XDGPersistanceRepo) load() error {
	path, err := repo.statePath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		repo.s = &state{}
		return nil
	}
	if err != nil {
		return err
	}

	s := &state{}
	err = json.Unmarshal(data, s)
	if err != nil {
		return errors.Wrap(err, "cannot load state file")
	}
	repo.s = s

	return nil
}

func (repo *XDGPersistanceRepo) save() error {
	err := repo.createConfigDirIfNotExist()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(repo.s, "", "  ")
	if err != nil {
		return err
	}

	path, err := repo.statePath()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (repo *XDGPersistanceRepo) GetReleases() ([]*ReleaseRecord, error) {
	err := repo.load()
	if err != nil {
		return nil, err
	}

	return repo.s.Releases, nil
}

// Record stores the published release of rc. A tag recorded before for the
// same repository is replaced.
func (repo *XDGPersistanceRepo) Record(rc *release.Context) error {
	if rc.TagName == "" || rc.Target == nil {
		return errors.New("nothing to record")
	}

	err := repo.load()
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(rc.IDs))
	for _, id := range rc.IDs {
		ids = append(ids, int(id))
	}

	rec := &ReleaseRecord{
		Repository:   rc.Target.Repository.FullName(),
		Tag:          rc.TagName,
		PullRequests: ids,
		Published:    repo.now(),
		RunID:        rc.RunID,
	}
	if rc.Release != nil {
		rec.URL = rc.Release.URL
	}

	index := slices.IndexFunc(
		repo.s.Releases,
		func(r *ReleaseRecord) bool {
			return r.Repository == rec.Repository && r.Tag == rec.Tag
		},
	)

	if index != -1 {
		repo.s.Releases = slices.Replace(repo.s.Releases, index, index+1, rec)
	} else {
		repo.s.Releases = append(repo.s.Releases, rec)
	}

	log.Debug().Str("tag", rec.Tag).Int("releases", len(repo.s.Releases)).Msg("recording release")

	return repo.save()
}

var persistanceRepo PersistanceRepo = NewXDGPersistanceRepo(defaultStateDir)

func GetRepo() PersistanceRepo {
	return persistanceRepo
}
