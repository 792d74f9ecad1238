package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes a fresh command tree against dir and returns stdout.
func run(t *testing.T, root func() *cobra.Command, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("POCKET_LOG_LEVEL", "error")
	cmd := root()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--data-dir", dir, "--theme", "mono"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func todoCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return run(t, NewTodoCommand, dir, args...)
}

func budgetCmd(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return run(t, NewBudgetCommand, dir, args...)
}

func TestCommandPresence(t *testing.T) {
	trees := map[string][]string{
		"todo":   {"add", "ls", "done", "edit", "rm", "ui"},
		"budget": {"add", "ls", "rm", "totals", "ui"},
	}
	for name, subs := range trees {
		root := NewTodoCommand()
		if name == "budget" {
			root = NewBudgetCommand()
		}
		assert.Equal(t, name, root.Use)
		for _, sub := range subs {
			found, _, err := root.Find([]string{sub})
			require.NoError(t, err, "%s %s should exist", name, sub)
			assert.Equal(t, sub, found.Name())
		}
		for _, flag := range []string{"data-dir", "backend", "theme", "color", "log-level"} {
			assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
		}
	}
}

func TestTodo_AddListScenario(t *testing.T) {
	dir := t.TempDir()

	out, err := todoCmd(t, dir, "add", "Buy", "milk")
	require.NoError(t, err)
	assert.Equal(t, "✔ added\nPending Tasks: 1\n", out)

	out, err = todoCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. [ ] Buy milk")
	assert.Contains(t, out, "Pending Tasks: 1")

	out, err = todoCmd(t, dir, "done", "1")
	require.NoError(t, err)
	assert.Equal(t, "✔ toggled\nPending Tasks: 0\n", out)

	out, err = todoCmd(t, dir, "ls", "--group")
	require.NoError(t, err)
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, " 1. [x] Buy milk")

	out, err = todoCmd(t, dir, "edit", "1", "Buy", "oat", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed")

	out, err = todoCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy oat milk")

	out, err = todoCmd(t, dir, "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, "✔ removed\nNo tasks yet!\n", out)
}

func TestTodo_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := todoCmd(t, dir, "add", "x")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"blank add", []string{"add", "   "}, "add: empty title"},
		{"missing args", []string{"done"}, "usage: todo done <index>"},
		{"not a number", []string{"rm", "two"}, "rm: not a number: two"},
		{"out of range", []string{"done", "5"}, "index out of range: have 1, got 5"},
		{"zero", []string{"rm", "0"}, "index out of range"},
		{"blank edit", []string{"edit", "1", " "}, "edit: empty title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := todoCmd(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestTodo_SQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	_, err := todoCmd(t, dir, "--backend", "sqlite", "add", "stored in sqlite")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "pocket.db"))

	out, err := todoCmd(t, dir, "--backend", "sqlite", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "stored in sqlite")

	out, err = todoCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet!", "file backend is separate")
}

var idPattern = regexp.MustCompile(`\(id (\d+)\)`)

func TestBudget_Scenario(t *testing.T) {
	dir := t.TempDir()

	out, err := budgetCmd(t, dir, "add", "Rent", "1200", "Essential")
	require.NoError(t, err)
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	rentID := m[1]

	_, err = budgetCmd(t, dir, "add", "Movie", "15", "luxury")
	require.NoError(t, err)

	out, err = budgetCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Essential: $1200.00")
	assert.Contains(t, out, "Luxury: $15.00")
	assert.Contains(t, out, "Savings: $0.00")
	assert.Contains(t, out, "Total $1215.00")

	out, err = budgetCmd(t, dir, "totals", "--radius", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Essential: $1200.00\nLuxury: $15.00\nSavings: $0.00\n"))
	assert.Contains(t, out, "98.8%")

	out, err = budgetCmd(t, dir, "rm", rentID)
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = budgetCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "Essential: $0.00")
	assert.NotContains(t, out, "Rent")
}

func TestBudget_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad cost", []string{"add", "Rent", "lots", "Essential"}, "add: cost: invalid cost"},
		{"negative", []string{"add", "--", "Rent", "-3", "Essential"}, "is negative"},
		{"bad type", []string{"add", "Rent", "3", "Food"}, "add: type: unknown category"},
		{"arity", []string{"add", "Rent"}, "usage: budget add <item> <cost> <type>"},
		{"bad id", []string{"rm", "abc"}, "rm: not an id: abc"},
		{"unknown id", []string{"rm", "42"}, "rm: no item with id 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := budgetCmd(t, dir, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}

	out, err := budgetCmd(t, dir, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No items yet!")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(errors.New("disk on fire")))
	assert.Equal(t, ExitUsage, ExitCode(usagef("usage: x")))
	assert.Equal(t, ExitUsage, ExitCode(errors.New(`unknown command "x" for "todo"`)))

	_, err := todoCmd(t, t.TempDir(), "bogus")
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestColorFlag(t *testing.T) {
	dir := t.TempDir()
	_, err := todoCmd(t, dir, "--color", "sometimes", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--color")
	assert.Equal(t, ExitUsage, ExitCode(err))

	out, err := todoCmd(t, dir, "--color", "never", "ls")
	require.NoError(t, err)
	assert.NotContains(t, out, "\033[")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, &UsageError{Msg: "index out of range", Hint: "run `todo ls`"})
	assert.Contains(t, buf.String(), "✖ index out of range\n")
	assert.Contains(t, buf.String(), "Hint: run `todo ls`\n")
}
