package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const varsYAML = `
score: 42
player:
  name: ada
  scores: [3, 5, 7]
`

// executeCommand runs a fresh command tree with args and captures stdout/stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	root := NewRootCmd("test")
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)
	assert.Equal(t, code, exitErr.Code)
}

func TestEval(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"arithmetic", []string{"player.scores[1] * 2"}, "10\n"},
		{"size", []string{"player.scores.size"}, "3\n"},
		{"string concat", []string{"player.name + ' #' + score"}, "ada #42\n"},
		{"transform", []string{"player.name | to_upper"}, "ADA\n"},
		{"ternary", []string{"score > 40 ? 'high' : 'low'"}, "high\n"},
		{"event", []string{"ev.clicks + score", "-e", "clicks=3"}, "45\n"},
		{"event string", []string{"ev.who + '!'", "-e", "who=bob"}, "bob!\n"},
		{"json", []string{"player.name", "--json"}, "\"ada\"\n"},
		{"json number", []string{"score / 4", "--json"}, "10.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"eval", "--vars", vars}, tt.args...)
			out, _, err := executeCommand(args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEval_WithoutVars(t *testing.T) {
	out, _, err := executeCommand("eval", "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestEval_Assign(t *testing.T) {
	vars := writeTestFile(t, "vars.json", `{"score": 42, "player": {"name": "ada", "scores": [3, 5, 7]}}`)

	out, _, err := executeCommand("eval", "--vars", vars, "--assign", "--json",
		"score = score + ev.bonus; player.scores[0] = 9", "-e", "bonus=8")
	require.NoError(t, err)
	assert.Contains(t, out, `"score": 50`)
	assert.Contains(t, out, `"scores": [`)
	assert.Contains(t, out, "9,")
}

func TestEval_AssignYAML(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	out, _, err := executeCommand("eval", "--vars", vars, "--assign", "player.name = 'grace'")
	require.NoError(t, err)
	assert.Contains(t, out, "player:")
	assert.Contains(t, out, "name: grace")
	assert.NotContains(t, out, "score: 42")
}

func TestEval_Errors(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"syntax", []string{"eval", "--vars", vars, "score +"}, exitCompile},
		{"unbound root", []string{"eval", "--vars", vars, "missing + 1"}, exitCompile},
		{"unknown transform", []string{"eval", "--vars", vars, "score | nope"}, exitRuntime},
		{"write to event", []string{"eval", "--assign", "ev.x = 1"}, exitRuntime},
		{"vars not found", []string{"eval", "--vars", "does-not-exist.yaml", "score"}, exitInput},
		{"bad event", []string{"eval", "ev.x", "-e", "x={a: 1}"}, exitInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			requireExitCode(t, err, tt.code)
		})
	}
}

func TestEval_Settings(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)
	settings := writeTestFile(t, "settings.yaml", `
databind:
  disabled_transforms: [to_upper]
  max_stack_depth: 2
`)

	_, _, err := executeCommand("eval", "--vars", vars, "--settings", settings, "player.name | to_upper")
	requireExitCode(t, err, exitRuntime)

	_, _, err = executeCommand("eval", "--settings", settings, "1 + (1 + (1 + 1))")
	requireExitCode(t, err, exitRuntime)

	out, _, err := executeCommand("eval", "--vars", vars, "--settings", settings, "player.name | to_lower")
	require.NoError(t, err)
	assert.Equal(t, "ada\n", out)
}

func TestEval_InvalidSettings(t *testing.T) {
	settings := writeTestFile(t, "settings.yaml", "databind:\n  max_stack_depth: -1\n")

	_, _, err := executeCommand("eval", "--settings", settings, "1")
	requireExitCode(t, err, exitInput)
}

func TestEval_VerboseLogs(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	_, stderr, err := executeCommand("eval", "--verbose", "--vars", vars, "score")
	require.NoError(t, err)
	assert.Contains(t, stderr, "variable bound")

	_, stderr, err = executeCommand("eval", "--vars", vars, "score")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "variable bound")
}

func TestCheck(t *testing.T) {
	out, _, err := executeCommand("check", "a + b", "x.y[2] | format(1)")
	require.NoError(t, err)
	assert.Equal(t, "ok: a + b\nok: x.y[2] | format(1)\n", out)

	out, stderr, err := executeCommand("check", "a +", "b")
	requireExitCode(t, err, exitCompile)
	assert.Equal(t, "ok: b\n", out)
	assert.Contains(t, stderr, "a +")
}

func TestCheck_WithVars(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	_, stderr, err := executeCommand("check", "--vars", vars, "score", "nope")
	requireExitCode(t, err, exitCompile)
	assert.Contains(t, stderr, `variable "nope" not bound`)
}

func TestCheck_Assign(t *testing.T) {
	_, _, err := executeCommand("check", "--assign", "a = 1; notify(a)")
	require.NoError(t, err)

	_, _, err = executeCommand("check", "--assign", "a + 1")
	requireExitCode(t, err, exitCompile)
}

func TestDisasm(t *testing.T) {
	out, _, err := executeCommand("disasm", "player.name + 1")
	require.NoError(t, err)
	assert.Contains(t, out, "Variable 0")
	assert.Contains(t, out, "Add")
	assert.Contains(t, out, "addresses:\n  0  player.name\n")

	out, _, err = executeCommand("disasm", "--assign", "a = 1")
	require.NoError(t, err)
	assert.Contains(t, out, "Assign 0")

	_, _, err = executeCommand("disasm", "(")
	requireExitCode(t, err, exitCompile)
}

func TestRender(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)

	out, _, err := executeCommand("render", "--vars", vars, "Hi {{ player.name }}, {{ score }} points")
	require.NoError(t, err)
	assert.Equal(t, "Hi ada, 42 points", out)

	out, _, err = executeCommand("render", "--vars", vars, "--open", "[[", "--close", "]]", "[[ player.scores.size ]] {{ x }}")
	require.NoError(t, err)
	assert.Equal(t, "3 {{ x }}", out)

	tpl := writeTestFile(t, "greeting.txt", "Hello {{ ev.who | to_upper }}\n")
	out, _, err = executeCommand("render", "-f", tpl, "-e", "who=bob")
	require.NoError(t, err)
	assert.Equal(t, "Hello BOB\n", out)
}

func TestRender_ErrorActions(t *testing.T) {
	vars := writeTestFile(t, "vars.yaml", varsYAML)
	const text = "[{{ score | nope }}]"

	out, _, err := executeCommand("render", "--vars", vars, text)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, _, err = executeCommand("render", "--vars", vars, "--on-error", "keep", text)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	_, _, err = executeCommand("render", "--vars", vars, "--on-error", "fail", text)
	requireExitCode(t, err, exitRuntime)

	_, _, err = executeCommand("render", "--on-error", "explode", "x")
	requireExitCode(t, err, exitInput)
}

func TestRender_InputErrors(t *testing.T) {
	tpl := writeTestFile(t, "t.txt", "x")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no template", []string{"render"}, exitInput},
		{"both sources", []string{"render", "-f", tpl, "inline"}, exitInput},
		{"missing file", []string{"render", "-f", "nope.txt"}, exitInput},
		{"unterminated", []string{"render", "{{ a"}, exitCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(tt.args...)
			requireExitCode(t, err, tt.code)
		})
	}
}

func TestVersion(t *testing.T) {
	out, _, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Equal(t, "databind version test\n", out)
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd("test")
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"eval", "check", "disasm", "render"})
}
