package release

import (
	"fmt"
	"strings"
	"time"

	"relbot/internal/domain/pullrequest"
)

const (
	BlockHeader  = "header"
	BlockDivider = "divider"
	BlockSection = "section"
	BlockContext = "context"

	TextPlain    = "plain_text"
	TextMarkdown = "mrkdwn"
)

// MergedAtLayout renders merge times the way a US-English locale would.
const MergedAtLayout = "1/2/2006, 3:04:05 PM"

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Block struct {
	Type     string  `json:"type"`
	Text     *Text   `json:"text,omitempty"`
	Elements []*Text `json:"elements,omitempty"`
}

// Notification is an ordered list of chat message blocks.
type Notification []*Block

// ContextBlocks returns only the per pull request blocks.
func (n Notification) ContextBlocks() []*Block {
	var blocks []*Block
	for _, b := range n {
		if b.Type == BlockContext {
			blocks = append(blocks, b)
		}
	}

	return blocks
}

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Headline is the plain text summary of the release.
func Headline(c *Context) string {
	return fmt.Sprintf(
		"%s: Merged %s to %s",
		c.Target.Title,
		c.Target.Source,
		c.Target.Destination,
	)
}

func BuildNotification(c *Context) Notification {
	n := Notification{
		{
			Type: BlockHeader,
			Text: &Text{Type: TextPlain, Text: Headline(c)},
		},
		{Type: BlockDivider},
		{
			Type: BlockSection,
			Text: &Text{
				Type: TextMarkdown,
				Text: fmt.Sprintf(
					"<%s| Release: %s> at %s",
					c.Target.TagURL(c.TagName),
					c.TagName,
					c.Target.Endpoint,
				),
			},
		},
		{Type: BlockDivider},
	}

	for _, id := range c.IDs {
		pr, ok := c.PullRequests[id]
		if !ok {
			continue
		}

		n = append(n, &Block{
			Type: BlockContext,
			Elements: []*Text{{
				Type: TextMarkdown,
				Text: pullRequestLine(pr),
			}},
		})
	}

	return n
}

func pullRequestLine(pr *pullrequest.Entity) string {
	return fmt.Sprintf(
		"<%s| #%d> | %s by @%s on %s",
		pr.URL,
		pr.ID,
		mrkdwnEscaper.Replace(pr.Title),
		pr.Author,
		formatMergedAt(pr.MergedAt),
	)
}

func formatMergedAt(t time.Time) string {
	if t.IsZero() {
		return "an unknown date"
	}

	return t.Local().Format(MergedAtLayout)
}
