package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malphas-lang/pyast/internal/config"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv(config.EnvVar, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestGraphFromStdin(t *testing.T) {
	res := run(t, "x = 1\n")
	require.NoError(t, res.err)

	assert.Equal(t, `Digraph G{
a0 [label = "Block"];
a0 -> a1;
a1 [label = "Assignment"];
a1 -> a2;
a2 [label = "Identifier: x"];
a1 -> a3;
a3 [label = "Integer: 1"];
}
`, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestGraphSyntaxError(t *testing.T) {
	res := run(t, "x = 1\ny = \nz = 3\n")
	require.ErrorIs(t, res.err, errReported)

	assert.Empty(t, res.stdout, "no graph may be written on failure")
	assert.Contains(t, res.stderr, "error[PARSE_UNEXPECTED_TOKEN]: unexpected newline, expected expression")
	assert.Contains(t, res.stderr, "2 | y = ")
	assert.Contains(t, res.stderr, "3 | z = 3")
}

func TestGraphLexicalError(t *testing.T) {
	res := run(t, "if a:\n    b = 1\n  c = 2\n")
	require.ErrorIs(t, res.err, errReported)

	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "error[LEXER_INDENTATION]")
}

func TestGraphFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.py")
	require.NoError(t, os.WriteFile(path, []byte("x = \n"), 0o644))

	res := run(t, "", path)
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "--> "+path+":1:5")
}

func TestGraphMissingFile(t *testing.T) {
	res := run(t, "", filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, res.err)
	assert.NotErrorIs(t, res.err, errReported)
	assert.Contains(t, res.err.Error(), "opening program")
}

func TestGraphNameFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pyast.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  graph_name: AST\n  color: never\n"), 0o644))

	res := run(t, "x = 1\n", "--config", cfgPath)
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "Digraph AST{\n"), res.stdout)
}

func TestTabWidthFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pyast.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[layout]\ntab_width = 8\n"), 0o644))

	const src = "if a:\n\tb = 1\n        c = 2\n"

	res := run(t, src)
	require.Error(t, res.err)

	res = run(t, src, "--config", cfgPath)
	require.NoError(t, res.err)
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "pyast.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[output]\ncolor = \"loud\"\n"), 0o644))

	res := run(t, "x = 1\n", "--config", cfgPath)
	require.Error(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.err.Error(), "output.color")
}

func TestVerboseLogsToStderr(t *testing.T) {
	res := run(t, "if a:\n  b = 1\n", "-v")
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "level=DEBUG msg=indent")
	assert.Contains(t, res.stderr, "msg=\"parsed program\" statements=1 nodes=7")
	assert.True(t, strings.HasPrefix(res.stdout, "Digraph G{"))
}

func TestTokensCommand(t *testing.T) {
	res := run(t, "if a:\n  b = -1\n", "tokens")
	require.NoError(t, res.err)

	assert.Equal(t, strings.Join([]string{
		"1:1\tIF",
		"1:4\tIDENT(a)",
		"1:5\t:",
		"1:6\tNEWLINE",
		"2:1\tINDENT",
		"2:3\tIDENT(b)",
		"2:5\t=",
		"2:7\tINT(-1)",
		"2:9\tNEWLINE",
		"3:1\tDEDENT",
	}, "\n")+"\n", res.stdout)
}

func TestTokensCommandVerbose(t *testing.T) {
	res := run(t, "if a:\n  b = -1\n", "tokens", "-v")
	require.NoError(t, res.err)

	assert.Contains(t, res.stderr, "msg=tokenized tokens=10 structural=4")
}

func TestTokensCommandError(t *testing.T) {
	res := run(t, "x = 1\ny = $\n", "tokens")
	require.ErrorIs(t, res.err, errReported)

	assert.Equal(t, "1:1\tIDENT(x)\n1:3\t=\n1:5\tINT(1)\n1:6\tNEWLINE\n", res.stdout)
	assert.Contains(t, res.stderr, "error[LEXER_ILLEGAL_RUNE]")
}

func TestCheckCommand(t *testing.T) {
	res := run(t, "while a:\n  break\nx = 1\n", "check")
	require.NoError(t, res.err)
	assert.Equal(t, "ok: 2 statements, 8 nodes\n", res.stdout)

	res = run(t, "while a:\n", "check")
	require.ErrorIs(t, res.err, errReported)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "error[PARSE_UNEXPECTED_EOF]")
}
