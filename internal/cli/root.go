package cli

import (
	"context"
	"fmt"
	"os"

	historycmd "relbot/internal/cli/history"
	opencmd "relbot/internal/cli/open"
	releasecmd "relbot/internal/cli/release"
	"relbot/internal/cli/utils"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "relbot",
		Short:   "relbot command-line utility for branch releases",
		Long:    `Merges a development branch into its release branch, publishes the release and announces it.`,
		Version: fmt.Sprintf("%v, commit %v, built at %v", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			utils.SetupLogging(cmd.ErrOrStderr(), verbose)
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		releasecmd.New(),
		opencmd.New(),
		historycmd.New(),
	)

	rootCmd.PersistentFlags().String("config", "", "config path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	return rootCmd
}

var exit = os.Exit

func execute(cmd *cobra.Command) {
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		exit(utils.ExitCode(err))
	}
}

func Execute() {
	execute(newRootCmd())
}
