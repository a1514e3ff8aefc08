package utils

import (
	"fmt"
	"io"
	"os"

	"relbot/internal/errcodes"
	"relbot/internal/systemcodes"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type runCommandError func(*cobra.Command, []string) error
type runCommandNoError func(*cobra.Command, []string)

var exit = os.Exit

func ExitCode(err error) int {
	if errcodes.IsConfiguration(err) {
		return systemcodes.ErrorCodeConfiguration
	}

	return systemcodes.ErrorCodeGeneric
}

func RunCommandWrapper(fn runCommandError) runCommandNoError {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			exit(ExitCode(err))
		}
	}
}

// SetupLogging points both loggers at out. Verbose lowers the level to debug.
func SetupLogging(out io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	logrusLevel := logrus.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
		logrusLevel = logrus.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})

	logrus.SetOutput(out)
	logrus.SetLevel(logrusLevel)
}

var AskConfirm = func(question string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{
		Message: question,
		Default: false,
	}, &ok)

	return ok, err
}
