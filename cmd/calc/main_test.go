package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc/internal/repl"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errout)
	err = cmd.Execute()
	return out.String(), errout.String(), err
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"one", []string{"2 + 3*4"}, "14\n"},
		{"many", []string{"(2 + 3) * 4", "2^3^2", "7/2"}, "20\n512\n3.5\n"},
		{"fmt", []string{"--fmt", "%.2f", "1/3"}, "0.33\n"},
		{"echo", []string{"--echo", "--", "-2^2"}, "((-2) ^ 2) : 4\n"},
		{"history", []string{"1+1", "2+2", "history"}, "2\n4\n1: 1+1 = 2\n2: 2+2 = 4\n"},
		{"quit", []string{"1", "quit", "2"}, "1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errout, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Empty(t, errout)
		})
	}
}

func TestArgsFailure(t *testing.T) {
	out, errout, err := execute(t, "", "1+1", "1/0", "2 3", "3*3")
	require.ErrorIs(t, err, errFailed)
	assert.Equal(t, "2\n9\n", out)
	assert.Contains(t, errout, "Error: 2: division by zero\n")
	assert.Contains(t, errout, `Error: 3: unexpected "3" after complete expression`)
}

func TestInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("1+1\n\n  2*3  \n"), 0o644))
	out, _, err := execute(t, "", "--in", path, "10-1")
	require.NoError(t, err)
	assert.Equal(t, "2\n6\n9\n", out)

	out, _, err = execute(t, "4^0.5\n", "--in", "-")
	require.NoError(t, err)
	assert.Equal(t, "2.0\n", out)

	_, _, err = execute(t, "", "--in", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInFileLongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	huge := strings.Repeat("1", repl.MaxLineLength+1)
	require.NoError(t, os.WriteFile(path, []byte("1+1\n"+huge+"\n2+2\n"), 0o644))
	out, errout, err := execute(t, "", "--in", path)
	require.ErrorIs(t, err, errFailed)
	assert.Equal(t, "2\n4\n", out)
	assert.Contains(t, errout, "Error: line too long")

	long := "1" + strings.Repeat("+1", 40000)
	out, _, err = execute(t, long+"\n", "--in", "-")
	require.NoError(t, err)
	assert.Equal(t, "40001\n", out)
}

func TestAST(t *testing.T) {
	out, _, err := execute(t, "", "--ast", "1+2")
	require.NoError(t, err)
	assert.Contains(t, out, "calc.BinaryOp")
	assert.Contains(t, out, "calc.Number")

	_, errout, err := execute(t, "", "--ast", "1+")
	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, errout, "no expression")
}

func TestInteractive(t *testing.T) {
	out, _, err := execute(t, "2^10\nhistory\nquit\n")
	require.NoError(t, err)
	want := repl.Banner + "\ncalc> 1024\ncalc> 1: 2^10 = 1024\ncalc> "
	assert.Equal(t, want, out)

	out, _, err = execute(t, "1+1\n", "--prompt", "> ")
	require.NoError(t, err)
	assert.Equal(t, repl.Banner+"\n> 2\n> \n", out)
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	require.NoError(t, os.WriteFile(path, []byte("format = \"%.1f\"\necho = true\n"), 0o644))

	out, _, err := execute(t, "", "--config", path, "1/3")
	require.NoError(t, err)
	assert.Equal(t, "(1 / 3) : 0.3\n", out)

	t.Setenv("CALC_FORMAT", "%.3f")
	out, _, err = execute(t, "", "--config", path, "1/3")
	require.NoError(t, err)
	assert.Equal(t, "(1 / 3) : 0.333\n", out)

	out, _, err = execute(t, "", "--config", path, "--fmt", "%v", "--echo=false", "1/3")
	require.NoError(t, err)
	assert.Equal(t, "0.3333333333333333\n", out)
}

func TestBadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.ini")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, _, err := execute(t, "", "--config", path, "1")
	assert.ErrorContains(t, err, "unsupported config format")

	_, _, err = execute(t, "", "--max-depth", "-3", "1")
	assert.ErrorContains(t, err, "max_depth")

	_, _, err = execute(t, "", "--max-depth", "2", "(((1)))")
	assert.ErrorIs(t, err, errFailed)
}

func TestVerbose(t *testing.T) {
	_, errout, err := execute(t, "", "-v", "6*7")
	require.NoError(t, err)
	assert.Contains(t, errout, "msg=evaluated")
	assert.Contains(t, errout, "result=42")
	assert.Contains(t, errout, "session=")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "calc version dev"))
}
