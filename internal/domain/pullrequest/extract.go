package pullrequest

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// "Merge pull request #42 from owner/feature-x"
	mergeCommitPattern = regexp.MustCompile(`request #(\d+) from`)
	// "Fix typo (#17)"
	squashCommitPattern = regexp.MustCompile(`\(#(\d+)\)$`)
)

// ExtractIDs returns the pull request numbers referenced by merge and squash
// commits in a one-commit-per-line log, sorted in ascending numeric order.
// A number referenced by more than one line is returned once per line.
func ExtractIDs(log string) []EntityID {
	ids := []EntityID{}
	if log == "" {
		return ids
	}

	for _, line := range strings.Split(log, "\n") {
		line = strings.TrimRight(line, " \t\r")

		for _, m := range mergeCommitPattern.FindAllStringSubmatch(line, -1) {
			if id, ok := parseID(m[1]); ok {
				ids = append(ids, id)
			}
		}

		if m := squashCommitPattern.FindStringSubmatch(line); m != nil {
			if id, ok := parseID(m[1]); ok {
				ids = append(ids, id)
			}
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func parseID(s string) (EntityID, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}

	return EntityID(n), true
}
