package open

import (
	"context"
	"fmt"
	"io"

	"relbot/internal/cli/paramutils"
	"relbot/internal/cli/utils"
	"relbot/internal/domain"
	"relbot/internal/pkg/fs"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var getPipeline = paramutils.GetPipeline

func runCmd(cmd *cobra.Command, args []string) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())
	p, _, err := getPipeline(flags, fs.OS{})
	if err != nil {
		return err
	}

	return execute(cmd.Context(), cmd.OutOrStdout(), p)
}

func execute(ctx context.Context, out io.Writer, p *domain.Pipeline) error {
	target, prs, err := p.ListOpen(ctx)
	if err != nil {
		return err
	}

	if len(prs) == 0 {
		fmt.Fprintf(out, "No open pull requests in %s\n", target.Repository.FullName())
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "TITLE", "AUTHOR", "URL")
	table.AddRow("-", "-----", "------", "---")
	for _, pr := range prs {
		table.AddRow(pr.ID, pr.Title, pr.Author, pr.URL)
	}

	fmt.Fprintln(out, table.String())

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "List open pull requests",
		Long:  `Lists the open pull requests of the repository, e.g. to check nothing is left behind before a release.`,
		Run:   utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().String("repo", ".", "path to the repository")

	return cmd
}
