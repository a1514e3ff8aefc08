package cli

import (
	"bytes"
	"testing"

	"relbot/internal/systemcodes"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd(t *testing.T) {
	t.Run("registers subcommands", func(t *testing.T) {
		cmd := newRootCmd()

		for _, name := range []string{"release", "open", "history"} {
			sub, _, err := cmd.Find([]string{name})
			assert.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		}
	})

	t.Run("release exposes its flags", func(t *testing.T) {
		sub, _, err := newRootCmd().Find([]string{"release"})
		assert.NoError(t, err)

		for _, f := range []string{"repo", "debug", "yes", "snapshot"} {
			assert.NotNil(t, sub.Flags().Lookup(f), f)
		}
		assert.NotNil(t, sub.InheritedFlags().Lookup("config"))
		assert.NotNil(t, sub.InheritedFlags().Lookup("verbose"))
	})

	t.Run("exits non-zero on unknown flag", func(t *testing.T) {
		oldExit := exit
		defer func() { exit = oldExit }()
		code := 0
		exit = func(c int) { code = c }

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"release", "--repo", ".", "--bogus"})

		execute(cmd)
		assert.Equal(t, systemcodes.ErrorCodeGeneric, code)
	})

	t.Run("does not exit when command succeeds", func(t *testing.T) {
		oldExit := exit
		defer func() { exit = oldExit }()
		exit = func(int) { t.Fatal("unexpected exit") }

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--version"})

		execute(cmd)
	})

	t.Run("prints version", func(t *testing.T) {
		cmd := newRootCmd()
		out := &bytes.Buffer{}
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--version"})

		assert.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "dev, commit none")
	})
}
