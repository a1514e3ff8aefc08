package domain

import (
	"context"
	"fmt"
	"time"

	"relbot/internal/domain/pullrequest"
	"relbot/internal/domain/release"
	"relbot/internal/errcodes"
	"relbot/internal/pkg/fs"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const remote = "origin"

// VCS is the working copy a release runs against.
type VCS interface {
	RemoteURL(ctx context.Context) (string, error)
	FetchAll(ctx context.Context) error
	Checkout(ctx context.Context, branch string) error
	Pull(ctx context.Context, remote, branch string) error
	CommitLog(ctx context.Context, base, head string) (string, error)
	Merge(ctx context.Context, branch string) error
	Push(ctx context.Context, remote, ref string) error
	Tag(ctx context.Context, name string) error
}

type Presenter interface {
	Notify(*Event)
}

// Storage keeps a history of published releases.
type Storage interface {
	Record(*release.Context) error
}

type EventType string

var (
	EVENT_STAGE_STARTED         EventType = "domain/EVENT_STAGE_STARTED"
	EVENT_STAGE_COMPLETED       EventType = "domain/EVENT_STAGE_COMPLETED"
	EVENT_STAGE_SKIPPED         EventType = "domain/EVENT_STAGE_SKIPPED"
	EVENT_STAGE_FAILED          EventType = "domain/EVENT_STAGE_FAILED"
	EVENT_PULL_REQUEST_RESOLVED EventType = "domain/EVENT_PULL_REQUEST_RESOLVED"
	EVENT_RELEASE_PUBLISHED     EventType = "domain/EVENT_RELEASE_PUBLISHED"
	EVENT_SNAPSHOT_WRITTEN      EventType = "domain/EVENT_SNAPSHOT_WRITTEN"
)

type Event struct {
	Type        EventType
	Stage       string
	PullRequest *pullrequest.Entity
	Context     *release.Context
	Err         error
}

type Options struct {
	// DryRun skips every stage that changes a remote or the branches.
	DryRun   bool
	Snapshot bool
	// Confirm is asked once before the first mutating stage of a real run.
	Confirm func(question string) (bool, error)
}

type Pipeline struct {
	VCS            VCS
	Resolver       *pullrequest.Resolver
	Publisher      release.Publisher
	Notifier       release.Notifier
	Targets        release.Table
	DefaultChannel string
	Presenter      Presenter
	Storage        Storage
	Filesystem     fs.Filesystem
	Options        Options
}

var now = time.Now

var newRunID = func() string {
	return uuid.NewString()
}

type stage struct {
	title    func(*release.Context) string
	mutating bool
	run      func(context.Context, *release.Context) error
}

func title(s string) func(*release.Context) string {
	return func(*release.Context) string { return s }
}

func (p *Pipeline) notify(e *Event) {
	if p.Presenter != nil {
		p.Presenter.Notify(e)
	}
}

func (p *Pipeline) stages() []*stage {
	return []*stage{
		{
			title: title("Verifying repository"),
			run:   p.verify,
		},
		{
			title: title("Updating branches"),
			run:   p.updateBranches,
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Collecting commits %s..%s", rc.Target.Destination, rc.Target.Source)
			},
			run: p.collectLog,
		},
		{
			title: title("Extracting pull request IDs"),
			run:   p.extractIDs,
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Resolving %d pull requests", len(rc.IDs))
			},
			run: p.resolve,
		},
		{
			title: title("Assembling release"),
			run:   p.assemble,
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Merging %s into %s", rc.Target.Source, rc.Target.Destination)
			},
			mutating: true,
			run: func(ctx context.Context, rc *release.Context) error {
				return p.VCS.Merge(ctx, rc.Target.Source)
			},
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Pushing %s", rc.Target.Destination)
			},
			mutating: true,
			run: func(ctx context.Context, rc *release.Context) error {
				return p.VCS.Push(ctx, remote, rc.Target.Destination)
			},
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Creating tag %s", rc.TagName)
			},
			mutating: true,
			run: func(ctx context.Context, rc *release.Context) error {
				return p.VCS.Tag(ctx, rc.TagName)
			},
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Pushing tag %s", rc.TagName)
			},
			mutating: true,
			run: func(ctx context.Context, rc *release.Context) error {
				return p.VCS.Push(ctx, remote, rc.TagName)
			},
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Publishing release %s", rc.TagName)
			},
			mutating: true,
			run:      p.publish,
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Notifying #%s", p.channel(rc))
			},
			mutating: true,
			run:      p.sendNotification,
		},
		{
			title: func(rc *release.Context) string {
				return fmt.Sprintf("Checking out %s", rc.Target.DevelopmentBranch)
			},
			run: func(ctx context.Context, rc *release.Context) error {
				return p.VCS.Checkout(ctx, rc.Target.DevelopmentBranch)
			},
		},
	}
}

// Run executes one release. The returned context holds whatever was gathered
// up to the point of failure.
func (p *Pipeline) Run(ctx context.Context) (*release.Context, error) {
	rc := release.NewContext(newRunID())
	logger := log.With().Str("run", rc.RunID).Bool("dryRun", p.Options.DryRun).Logger()

	confirmed := p.Options.DryRun || p.Options.Confirm == nil
	for _, s := range p.stages() {
		t := s.title(rc)

		if s.mutating && p.Options.DryRun {
			logger.Debug().Str("stage", t).Msg("skipped")
			p.notify(&Event{Type: EVENT_STAGE_SKIPPED, Stage: t, Context: rc})
			continue
		}

		if s.mutating && !confirmed {
			ok, err := p.Options.Confirm(p.question(rc))
			if err != nil {
				return rc, err
			}
			if !ok {
				return rc, errcodes.ErrReleaseAborted
			}
			confirmed = true
		}

		logger.Debug().Str("stage", t).Msg("started")
		p.notify(&Event{Type: EVENT_STAGE_STARTED, Stage: t, Context: rc})

		err := s.run(ctx, rc)
		if err != nil {
			err = errors.Wrap(err, t)
			logger.Error().Err(err).Str("stage", t).Msg("failed")
			p.notify(&Event{Type: EVENT_STAGE_FAILED, Stage: t, Context: rc, Err: err})
			return rc, err
		}

		p.notify(&Event{Type: EVENT_STAGE_COMPLETED, Stage: t, Context: rc})
	}

	return rc, nil
}

// ListOpen returns the open pull requests of the repository in the working
// copy.
func (p *Pipeline) ListOpen(ctx context.Context) (*release.Target, []*pullrequest.Entity, error) {
	rc := release.NewContext(newRunID())
	err := p.verify(ctx, rc)
	if err != nil {
		return nil, nil, err
	}

	prs, err := p.Resolver.ListOpen(ctx, rc.Target.Repository)
	if err != nil {
		return nil, nil, err
	}

	return rc.Target, prs, nil
}

func (p *Pipeline) question(rc *release.Context) string {
	return fmt.Sprintf(
		"Release %d pull requests from %s to %s as %s?",
		len(rc.IDs),
		rc.Target.Source,
		rc.Target.Destination,
		rc.TagName,
	)
}

func (p *Pipeline) channel(rc *release.Context) string {
	if rc.Target != nil && rc.Target.Channel != "" {
		return rc.Target.Channel
	}

	return p.DefaultChannel
}

func (p *Pipeline) verify(ctx context.Context, rc *release.Context) error {
	url, err := p.VCS.RemoteURL(ctx)
	if err != nil {
		return err
	}

	target, err := p.Targets.Lookup(url)
	if err != nil {
		return err
	}
	rc.Target = target

	return nil
}

func (p *Pipeline) updateBranches(ctx context.Context, rc *release.Context) error {
	err := p.VCS.FetchAll(ctx)
	if err != nil {
		return err
	}

	for _, b := range []string{rc.Target.Source, rc.Target.Destination} {
		err = p.VCS.Checkout(ctx, b)
		if err != nil {
			return err
		}

		err = p.VCS.Pull(ctx, remote, b)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) collectLog(ctx context.Context, rc *release.Context) error {
	l, err := p.VCS.CommitLog(ctx, rc.Target.Destination, rc.Target.Source)
	if err != nil {
		return err
	}
	rc.RawLog = l

	return nil
}

func (p *Pipeline) extractIDs(ctx context.Context, rc *release.Context) error {
	rc.IDs = pullrequest.ExtractIDs(rc.RawLog)
	log.Debug().Str("run", rc.RunID).Interface("ids", rc.IDs).Msg("pull requests found")

	return nil
}

func (p *Pipeline) resolve(ctx context.Context, rc *release.Context) error {
	prs, err := p.Resolver.ResolveAll(ctx, rc.Target.Repository, rc.IDs, func(pr *pullrequest.Entity) {
		p.notify(&Event{Type: EVENT_PULL_REQUEST_RESOLVED, PullRequest: pr, Context: rc})
	})
	if err != nil {
		return err
	}
	rc.PullRequests = prs

	return nil
}

func (p *Pipeline) assemble(ctx context.Context, rc *release.Context) error {
	rc.TagName = release.NewTagName(now())
	rc.Body = release.BuildBody(rc.PullRequests, rc.IDs)
	rc.Notification = release.BuildNotification(rc)

	if !p.Options.Snapshot {
		return nil
	}

	path, err := release.WriteSnapshot(p.Filesystem, rc.RunID, rc.Notification)
	if err != nil {
		return err
	}
	rc.SnapshotPath = path
	p.notify(&Event{Type: EVENT_SNAPSHOT_WRITTEN, Context: rc})

	return nil
}

func (p *Pipeline) publish(ctx context.Context, rc *release.Context) error {
	if rc.TagName == "" {
		return errcodes.ErrMissingTag
	}

	r, err := p.Publisher.CreateRelease(ctx, &release.CreateOptions{
		Repository: rc.Target.Repository,
		TagName:    rc.TagName,
		Name:       rc.TagName,
		Body:       rc.Body,
	})
	if err != nil {
		return err
	}
	rc.Release = r
	p.notify(&Event{Type: EVENT_RELEASE_PUBLISHED, Context: rc})

	if p.Storage != nil {
		if err := p.Storage.Record(rc); err != nil {
			log.Warn().Err(err).Str("tag", rc.TagName).Msg("cannot record release history")
		}
	}

	return nil
}

func (p *Pipeline) sendNotification(ctx context.Context, rc *release.Context) error {
	return p.Notifier.Post(ctx, &release.PostOptions{
		Channel:      p.channel(rc),
		Text:         release.Headline(rc),
		Notification: rc.Notification,
	})
}
