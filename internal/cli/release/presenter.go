package release

import (
	"fmt"
	"io"
	"strings"

	"relbot/internal/domain"
	"relbot/internal/domain/release"

	"github.com/gosuri/uilive"
	"github.com/gosuri/uitable"
)

const (
	statusRunning = "[ .. ]"
	statusDone    = "[ OK ]"
	statusSkipped = "[SKIP]"
	statusFailed  = "[FAIL]"
)

// stagePresenter redraws the list of stages in place as the pipeline runs.
type stagePresenter struct {
	w     *uilive.Writer
	lines []string
}

func newStagePresenter(out io.Writer) *stagePresenter {
	w := uilive.New()
	w.Out = out

	return &stagePresenter{w: w}
}

func (p *stagePresenter) replaceLast(line string) {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, line)
		return
	}
	p.lines[len(p.lines)-1] = line
}

func (p *stagePresenter) Notify(e *domain.Event) {
	switch e.Type {
	case domain.EVENT_STAGE_STARTED:
		p.lines = append(p.lines, fmt.Sprintf("%s %s", statusRunning, e.Stage))
	case domain.EVENT_STAGE_COMPLETED:
		p.replaceLast(fmt.Sprintf("%s %s", statusDone, e.Stage))
	case domain.EVENT_STAGE_SKIPPED:
		p.lines = append(p.lines, fmt.Sprintf("%s %s", statusSkipped, e.Stage))
	case domain.EVENT_STAGE_FAILED:
		p.replaceLast(fmt.Sprintf("%s %s", statusFailed, e.Stage))
	case domain.EVENT_PULL_REQUEST_RESOLVED:
		pr := e.PullRequest
		p.insertBeforeLast(fmt.Sprintf("       PR-%d | %s | %s | %s", pr.ID, pr.Author, pr.Title, pr.URL))
	case domain.EVENT_RELEASE_PUBLISHED:
		p.insertBeforeLast(fmt.Sprintf("       Release: %s", e.Context.Release.URL))
	case domain.EVENT_SNAPSHOT_WRITTEN:
		p.insertBeforeLast(fmt.Sprintf("       Snapshot: %s", e.Context.SnapshotPath))
	default:
		return
	}

	p.flush()
}

// insertBeforeLast keeps detail lines above the stage they belong to, so the
// running stage stays on the last line.
func (p *stagePresenter) insertBeforeLast(line string) {
	if len(p.lines) == 0 {
		p.lines = append(p.lines, line)
		return
	}

	last := p.lines[len(p.lines)-1]
	p.lines = append(p.lines[:len(p.lines)-1], line, last)
}

func (p *stagePresenter) flush() {
	fmt.Fprintln(p.w, strings.Join(p.lines, "\n"))
	_ = p.w.Flush()
}

func renderSummary(out io.Writer, rc *release.Context, dryRun bool) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "TITLE", "AUTHOR", "MERGED")
	table.AddRow("-", "-----", "------", "------")
	for _, id := range rc.IDs {
		pr, ok := rc.PullRequests[id]
		if !ok {
			continue
		}

		merged := "-"
		if !pr.MergedAt.IsZero() {
			merged = pr.MergedAt.Local().Format(release.MergedAtLayout)
		}
		table.AddRow(pr.ID, pr.Title, pr.Author, merged)
	}

	fmt.Fprintln(out, table.String())

	if dryRun {
		fmt.Fprintf(out, "Dry run, %s was not released.\n", rc.TagName)
		return
	}

	if rc.Release != nil {
		fmt.Fprintf(out, "Released %s: %s\n", rc.TagName, rc.Release.URL)
	}
}
