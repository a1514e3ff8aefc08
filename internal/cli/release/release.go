package release

import (
	"context"
	"os"
	"os/signal"

	"relbot/internal/cli/paramutils"
	"relbot/internal/cli/utils"
	"relbot/internal/domain"
	"relbot/internal/pkg/fs"

	"github.com/spf13/cobra"
)

var getPipeline = paramutils.GetPipeline

func runCmd(cmd *cobra.Command, args []string) error {
	flags := paramutils.NewFlagRepo(cmd.Flags())
	params := &releaseCmdParams{}
	fillParams(flags, params)

	p, _, err := getPipeline(flags, fs.OS{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return execute(ctx, cmd, p, params)
}

func execute(ctx context.Context, cmd *cobra.Command, p *domain.Pipeline, params *releaseCmdParams) error {
	out := cmd.OutOrStdout()

	p.Presenter = newStagePresenter(out)
	p.Options = domain.Options{
		DryRun:   params.Debug,
		Snapshot: params.Snapshot,
	}
	if !params.Yes {
		p.Options.Confirm = utils.AskConfirm
	}

	rc, err := p.Run(ctx)
	if err != nil {
		return err
	}

	renderSummary(out, rc, params.Debug)

	return nil
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Merge, tag and announce a release",
		Long: `Merges the source branch of the repository into its release branch,
tags the merge, publishes a GitHub release listing the merged pull requests
and announces it on Slack.`,
		Run: utils.RunCommandWrapper(runCmd),
	}

	cmd.Flags().String("repo", "", "path to the repository to release")
	cmd.Flags().BoolP("debug", "d", false, "dry run, skip every step that changes a remote")
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	cmd.Flags().Bool("snapshot", false, "write the Slack payload to the temporary directory")

	return cmd
}
