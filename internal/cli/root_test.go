package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"pstack.dev/pstack/internal/cli"
)

func TestRootCmd(t *testing.T) {
	t.Run("registers every command", func(t *testing.T) {
		root := cli.NewRootCmd("dev", "none", "unknown")

		for _, name := range []string{"init", "new", "refresh", "series", "pop", "push", "reorder", "log", "show", "config"} {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err, name)
			require.Equal(t, name, cmd.Name())
		}
	})

	t.Run("prints the version", func(t *testing.T) {
		root := cli.NewRootCmd("1.2.3", "abc123", "2025-01-01")
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"--version"})

		require.NoError(t, root.Execute())
		require.Contains(t, out.String(), "1.2.3 (commit abc123, built 2025-01-01)")
	})

	t.Run("refresh flags", func(t *testing.T) {
		root := cli.NewRootCmd("dev", "none", "unknown")
		refresh, _, err := root.Find([]string{"refresh"})
		require.NoError(t, err)

		shorthands := map[string]string{
			"patch":     "p",
			"message":   "m",
			"edit":      "e",
			"showpatch": "s",
			"force":     "f",
			"annotate":  "a",
		}
		for name, short := range shorthands {
			flag := refresh.Flags().Lookup(name)
			require.NotNil(t, flag, name)
			require.Equal(t, short, flag.Shorthand, name)
		}
		for _, name := range []string{"update", "undo", "author", "authname", "authemail", "authdate", "commname", "commemail", "sign", "ack"} {
			require.NotNil(t, refresh.Flags().Lookup(name), name)
		}
	})

	t.Run("sign and ack are mutually exclusive", func(t *testing.T) {
		root := cli.NewRootCmd("dev", "none", "unknown")
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"refresh", "--sign", "--ack"})

		err := root.Execute()
		require.Error(t, err)
		require.Contains(t, err.Error(), "none of the others can be")
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		root := cli.NewRootCmd("dev", "none", "unknown")
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"pop", "a", "b"})

		require.Error(t, root.Execute())
	})
}
