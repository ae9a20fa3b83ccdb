package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leaplint/internal/cli/commands"
	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"lint", "format", "rules", "generate-editorconfig", "init", "lsp", "version", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "verbose", "output", "color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRoot_LintUsesProjectConfig(t *testing.T) {
	dir := testutil.NewProject(t, map[string]string{
		".leaplint.yaml": "reporter:\n  - plain-summary\ndisabled_rules:\n  - final-newline\n",
		".editorconfig":  "root = true\n\n[*.sql]\nleaplint_keyword_case = upper\n",
		"q.sql":          "select 1",
	})
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"lint"})

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, commands.ErrViolationsFound)
	assert.Contains(t, out.String(), "standard:keyword-case")
	assert.NotContains(t, out.String(), "standard:final-newline")
}

func TestRoot_ConfigFlag(t *testing.T) {
	dir := testutil.NewProject(t, map[string]string{
		"conf/custom.yaml": "workers: -1\n",
	})
	t.Chdir(dir)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"lint", "--config", filepath.Join("conf", "custom.yaml")})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must not be negative")
}

func TestRoot_Version(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "leaplint "+Version)
}

func TestCompletion(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "leaplint")
}
