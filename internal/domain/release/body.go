package release

import (
	"fmt"
	"html"
	"strings"

	"relbot/internal/domain/pullrequest"
)

// BuildBody renders the release notes as HTML, one list item per id in ids.
func BuildBody(prs map[pullrequest.EntityID]*pullrequest.Entity, ids []pullrequest.EntityID) string {
	var b strings.Builder
	b.WriteString("<h2>Pull Requests:</h2>")
	b.WriteString("<ul>")
	for _, id := range ids {
		pr, ok := prs[id]
		if !ok {
			fmt.Fprintf(&b, "<li>#%d</li>", id)
			continue
		}

		fmt.Fprintf(
			&b,
			`<li><a href="%s"> #%d | %s</a> by %s</li>`,
			html.EscapeString(pr.URL),
			id,
			html.EscapeString(pr.Title),
			html.EscapeString(pr.Author),
		)
	}
	if len(ids) == 0 {
		b.WriteString("<li>None</li>")
	}
	b.WriteString("</ul>")

	return b.String()
}
