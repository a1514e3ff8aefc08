package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"relbot/internal/cli/utils"
	"relbot/internal/persistance"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var getRepo = persistance.GetRepo

func runCmd(cmd *cobra.Command, args []string) error {
	return execute(cmd.OutOrStdout(), getRepo())
}

func execute(out io.Writer, repo persistance.PersistanceRepo) error {
	releases, err := repo.GetReleases()
	if err != nil {
		return err
	}

	if len(releases) == 0 {
		fmt.Fprintln(out, "No releases recorded yet")
		return nil
	}

	table := uitable.New()
	table.AddRow("TAG", "REPOSITORY", "PULL REQUESTS", "PUBLISHED", "URL")
	table.AddRow("---", "----------", "-------------", "---------", "---")
	for _, r := range releases {
		table.AddRow(
			r.Tag,
			r.Repository,
			joinIDs(r.PullRequests),
			r.Published.Local().Format("2006-01-02 15:04"),
			r.URL,
		)
	}

	fmt.Fprintln(out, table.String())

	return nil
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}

	s := make([]string, 0, len(ids))
	for _, id := range ids {
		s = append(s, "#"+strconv.Itoa(id))
	}

	return strings.Join(s, " ")
}

func New() *cobra.Command {
	return &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls"},
		Short:   "List published releases",
		Long:    `Lists the releases published from this machine, newest last.`,
		Run:     utils.RunCommandWrapper(runCmd),
	}
}
