package domain

import (
	"context"
	"strings"
	"testing"
	"time"

	"relbot/internal/domain/pullrequest"
	"relbot/internal/domain/release"
	"relbot/internal/errcodes"
	"relbot/internal/pkg/fs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const (
	remoteURL = "git@github.com:Jewel-DV/robo-services.git"
	tagName   = "v2021-03-05-1614918600000"
	commitLog = "abc1234 Merge pull request #42 from Jewel-DV/feature-x\ndef5678 Fix typo (#17)"
)

var targets = release.Table{
	{
		Title:             "Robo Backend Release",
		RemoteURLs:        []string{remoteURL},
		Repository:        pullrequest.GitRepository{Owner: "Jewel-DV", Name: "robo-services"},
		Source:            "develop",
		Destination:       "main",
		DevelopmentBranch: "develop",
		Endpoint:          "https://example.com/",
		ReleasesURL:       "https://github.com/Jewel-DV/robo-services/releases",
	},
}

type fixture struct {
	vcs       *MockVCS
	host      *pullrequest.MockRepository
	publisher *release.MockPublisher
	notifier  *release.MockNotifier
	presenter *MockPresenter
	storage   *MockStorage
	fs        *fs.MockFS
	pipeline  *Pipeline
}

func newFixture(o Options) *fixture {
	f := &fixture{
		vcs: &MockVCS{RemoteURLValue: remoteURL, LogValue: commitLog},
		host: &pullrequest.MockRepository{
			Entities: map[pullrequest.EntityID]*pullrequest.Entity{
				17: {ID: 17, Title: "Fix typo", URL: "https://github.com/Jewel-DV/robo-services/pull/17", Author: "ana"},
				42: {ID: 42, Title: "Feature X", URL: "https://github.com/Jewel-DV/robo-services/pull/42", Author: "bo"},
			},
		},
		publisher: &release.MockPublisher{},
		notifier:  &release.MockNotifier{},
		presenter: &MockPresenter{},
		storage:   &MockStorage{},
		fs:        &fs.MockFS{TempDirValue: "/tmp"},
	}

	f.pipeline = &Pipeline{
		VCS:            f.vcs,
		Resolver:       pullrequest.NewResolver(f.host),
		Publisher:      f.publisher,
		Notifier:       f.notifier,
		Targets:        targets,
		DefaultChannel: "dev",
		Presenter:      f.presenter,
		Storage:        f.storage,
		Filesystem:     f.fs,
		Options:        o,
	}

	return f
}

func withSeams(t *testing.T) {
	oldNow, oldNewRunID := now, newRunID
	t.Cleanup(func() {
		now = oldNow
		newRunID = oldNewRunID
	})

	now = func() time.Time { return time.Date(2021, 3, 5, 4, 30, 0, 0, time.UTC) }
	newRunID = func() string { return "run-1" }
}

func TestPipeline_Run(t *testing.T) {
	withSeams(t)
	ctx := context.Background()

	t.Run("releases merged pull requests in ascending order", func(t *testing.T) {
		f := newFixture(Options{})

		rc, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)

		assert.Equal(t, []string{
			"remote",
			"fetch --all",
			"checkout develop",
			"pull origin develop",
			"checkout main",
			"pull origin main",
			"log main..develop",
			"merge develop",
			"push origin main",
			"tag " + tagName,
			"push origin " + tagName,
			"checkout develop",
		}, f.vcs.Calls)

		assert.Equal(t, []pullrequest.EntityID{17, 42}, rc.IDs)
		assert.Equal(t, 2, strings.Count(rc.Body, "<li>"))
		assert.Less(t, strings.Index(rc.Body, "#17"), strings.Index(rc.Body, "#42"))

		blocks := rc.Notification.ContextBlocks()
		assert.Equal(t, 2, len(blocks))
		assert.Contains(t, blocks[0].Elements[0].Text, "#17>")
		assert.Contains(t, blocks[1].Elements[0].Text, "#42>")

		assert.Equal(t, 1, len(f.publisher.Calls))
		assert.Equal(t, tagName, f.publisher.Calls[0].TagName)
		assert.Equal(t, rc.Body, f.publisher.Calls[0].Body)

		assert.Equal(t, 1, len(f.notifier.Calls))
		assert.Equal(t, "dev", f.notifier.Calls[0].Channel)
		assert.Equal(t, "Robo Backend Release: Merged develop to main", f.notifier.Calls[0].Text)

		assert.Equal(t, []*release.Context{rc}, f.storage.Recorded)
		assert.Equal(t, 2, len(f.presenter.OfType(EVENT_PULL_REQUEST_RESOLVED)))
		assert.Empty(t, f.presenter.OfType(EVENT_STAGE_SKIPPED))
		assert.Empty(t, f.fs.Written)
	})

	t.Run("skips mutating stages in dry run", func(t *testing.T) {
		live := newFixture(Options{})
		liveRC, err := live.pipeline.Run(ctx)
		assert.NoError(t, err)

		f := newFixture(Options{DryRun: true})
		rc, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)

		assert.Equal(t, []string{
			"remote",
			"fetch --all",
			"checkout develop",
			"pull origin develop",
			"checkout main",
			"pull origin main",
			"log main..develop",
			"checkout develop",
		}, f.vcs.Calls)
		assert.Empty(t, f.publisher.Calls)
		assert.Empty(t, f.notifier.Calls)
		assert.Empty(t, f.storage.Recorded)
		assert.Equal(t, 6, len(f.presenter.OfType(EVENT_STAGE_SKIPPED)))

		assert.Equal(t, liveRC.IDs, rc.IDs)
		assert.Equal(t, liveRC.PullRequests, rc.PullRequests)
		assert.Equal(t, liveRC.Body, rc.Body)
		assert.Equal(t, tagName, rc.TagName)
	})

	t.Run("fails when repository is unsupported", func(t *testing.T) {
		f := newFixture(Options{})
		f.vcs.RemoteURLValue = "git@github.com:someone/else.git"

		_, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, errcodes.ErrUnsupportedRepository)
		assert.True(t, errcodes.IsConfiguration(err))
		assert.Equal(t, []string{"remote"}, f.vcs.Calls)
		assert.Equal(t, 1, len(f.presenter.OfType(EVENT_STAGE_FAILED)))
	})

	t.Run("fails when a pull request cannot be resolved", func(t *testing.T) {
		vErr := errors.New("rate limited")
		f := newFixture(Options{})
		f.host.FailIDs = map[pullrequest.EntityID]error{42: vErr}

		rc, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, vErr)
		assert.Empty(t, rc.PullRequests)
		assert.NotContains(t, f.vcs.Calls, "merge develop")
		assert.Empty(t, f.publisher.Calls)
	})

	t.Run("aborts remaining stages on failure", func(t *testing.T) {
		vErr := errors.New("rejected")
		f := newFixture(Options{})
		f.vcs.FailOn = "push"
		f.vcs.ErrorValue = vErr

		_, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, vErr)
		assert.EqualError(t, err, "Pushing main: rejected")
		assert.Equal(t, "push origin main", f.vcs.Calls[len(f.vcs.Calls)-1])
		assert.Empty(t, f.publisher.Calls)
		assert.Empty(t, f.notifier.Calls)
	})

	t.Run("fails when release cannot be published", func(t *testing.T) {
		vErr := errors.New("forbidden")
		f := newFixture(Options{})
		f.publisher.ErrorValue = vErr

		_, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, vErr)
		assert.Empty(t, f.notifier.Calls)
		assert.Empty(t, f.storage.Recorded)
	})

	t.Run("succeeds when history cannot be recorded", func(t *testing.T) {
		f := newFixture(Options{})
		f.storage.ErrorValue = errors.New("read-only")

		_, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(f.notifier.Calls))
	})

	t.Run("aborts when release is not confirmed", func(t *testing.T) {
		var question string
		f := newFixture(Options{Confirm: func(q string) (bool, error) {
			question = q
			return false, nil
		}})

		_, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, errcodes.ErrReleaseAborted)
		assert.Equal(t, "Release 2 pull requests from develop to main as "+tagName+"?", question)
		assert.NotContains(t, f.vcs.Calls, "merge develop")
	})

	t.Run("fails when confirmation fails", func(t *testing.T) {
		vErr := errors.New("interrupt")
		f := newFixture(Options{Confirm: func(string) (bool, error) { return false, vErr }})

		_, err := f.pipeline.Run(ctx)
		assert.ErrorIs(t, err, vErr)
	})

	t.Run("asks once when confirmed", func(t *testing.T) {
		calls := 0
		f := newFixture(Options{Confirm: func(string) (bool, error) {
			calls++
			return true, nil
		}})

		_, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, len(f.publisher.Calls))
	})

	t.Run("never asks in dry run", func(t *testing.T) {
		f := newFixture(Options{DryRun: true, Confirm: func(string) (bool, error) {
			t.Fatal("unexpected confirmation")
			return false, nil
		}})

		_, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
	})

	t.Run("writes notification snapshot", func(t *testing.T) {
		f := newFixture(Options{DryRun: true, Snapshot: true})

		rc, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "/tmp/relbot-notification-run-1.json", rc.SnapshotPath)
		assert.Contains(t, string(f.fs.Written[rc.SnapshotPath]), `"type": "header"`)
		assert.Equal(t, 1, len(f.presenter.OfType(EVENT_SNAPSHOT_WRITTEN)))
	})

	t.Run("releases an empty range", func(t *testing.T) {
		f := newFixture(Options{})
		f.vcs.LogValue = ""

		rc, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
		assert.Empty(t, rc.IDs)
		assert.Contains(t, rc.Body, "<li>None</li>")
		assert.Empty(t, rc.Notification.ContextBlocks())
		assert.Empty(t, f.host.GetCalls)
	})

	t.Run("notifies the channel of the target", func(t *testing.T) {
		f := newFixture(Options{})
		custom := *targets[0]
		custom.Channel = "releases"
		f.pipeline.Targets = release.Table{&custom}

		_, err := f.pipeline.Run(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "releases", f.notifier.Calls[0].Channel)
	})
}

func TestPipeline_ListOpen(t *testing.T) {
	withSeams(t)
	ctx := context.Background()

	t.Run("fails when repository is unsupported", func(t *testing.T) {
		f := newFixture(Options{})
		f.vcs.RemoteURLValue = "https://example.com/repo.git"

		_, _, err := f.pipeline.ListOpen(ctx)
		assert.ErrorIs(t, err, errcodes.ErrUnsupportedRepository)
		assert.Equal(t, 0, f.host.ListCalls)
	})

	t.Run("succeeds otherwise", func(t *testing.T) {
		f := newFixture(Options{})
		f.host.OpenValue = []*pullrequest.Entity{{ID: 50, Title: "WIP"}}

		target, prs, err := f.pipeline.ListOpen(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "Robo Backend Release", target.Title)
		assert.Equal(t, f.host.OpenValue, prs)
		assert.Equal(t, 1, f.host.ListCalls)
	})
}
