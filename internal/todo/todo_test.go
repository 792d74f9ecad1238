package todo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/store/kv"
)

type recordingView struct {
	renders [][]model.Task
}

func (v *recordingView) RenderTasks(tasks []model.Task) {
	v.renders = append(v.renders, tasks)
}

func (v *recordingView) last() []model.Task { return v.renders[len(v.renders)-1] }

func setup(t *testing.T) (*Controller, *kv.MemKV, *recordingView) {
	t.Helper()
	backing := kv.NewMem()
	view := &recordingView{}
	c, err := New(backing, view, logger.Discard())
	require.NoError(t, err)
	return c, backing, view
}

// stored decodes what is currently persisted.
func stored(t *testing.T, backing kv.KV) []model.Task {
	t.Helper()
	raw, ok, err := backing.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(raw, &tasks))
	return tasks
}

func TestNew_RendersOnce(t *testing.T) {
	_, _, view := setup(t)
	require.Len(t, view.renders, 1)
	assert.Empty(t, view.last())
}

func TestAddTask(t *testing.T) {
	c, backing, view := setup(t)

	task, err := c.AddTask("Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Name)
	assert.False(t, task.Completed)

	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])
	assert.Equal(t, tasks, stored(t, backing))
	assert.Equal(t, tasks, view.last())
}

func TestAddTask_Trims(t *testing.T) {
	c, _, _ := setup(t)
	task, err := c.AddTask("   Walk dog  ")
	require.NoError(t, err)
	assert.Equal(t, "Walk dog", task.Name)
}

func TestAddTask_RejectsBlank(t *testing.T) {
	c, backing, view := setup(t)
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := c.AddTask(name)
		assert.ErrorIs(t, err, ErrEmptyName)
	}
	assert.Empty(t, c.Tasks())
	assert.Len(t, view.renders, 1)
	_, ok, _ := backing.Get(StorageKey)
	assert.False(t, ok, "rejected adds must not persist")
}

func TestToggleTask(t *testing.T) {
	c, backing, _ := setup(t)
	task, err := c.AddTask("Buy milk")
	require.NoError(t, err)

	got, err := c.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, stored(t, backing)[0].Completed)

	got, err = c.ToggleTask(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestEditTask(t *testing.T) {
	c, backing, view := setup(t)
	task, err := c.AddTask("Buy milk")
	require.NoError(t, err)

	var seen string
	got, err := c.EditTask(task.ID, func(current string) (string, bool) {
		seen = current
		return "  Buy oat milk ", true
	})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", seen)
	assert.Equal(t, "Buy oat milk", got.Name)
	assert.Equal(t, "Buy oat milk", stored(t, backing)[0].Name)
	assert.Equal(t, c.Tasks(), view.last())
}

func TestEditTask_CancelOrBlankIsNoop(t *testing.T) {
	c, _, view := setup(t)
	task, err := c.AddTask("Buy milk")
	require.NoError(t, err)
	renders := len(view.renders)

	prompts := map[string]Prompter{
		"cancel": func(string) (string, bool) { return "ignored", false },
		"blank":  func(string) (string, bool) { return "   ", true },
	}
	for name, p := range prompts {
		t.Run(name, func(t *testing.T) {
			got, err := c.EditTask(task.ID, p)
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", got.Name)
			assert.Len(t, view.renders, renders)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	c, backing, _ := setup(t)
	a, _ := c.AddTask("a")
	b, _ := c.AddTask("b")
	cc, _ := c.AddTask("c")

	require.NoError(t, c.DeleteTask(b.ID))
	assert.Equal(t, []model.Task{a, cc}, c.Tasks())
	assert.Equal(t, c.Tasks(), stored(t, backing))

	// Ids stay valid after the positions shift.
	got, err := c.ToggleTask(cc.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", got.Name)
	assert.True(t, got.Completed)
}

func TestUnknownID(t *testing.T) {
	c, _, view := setup(t)
	_, _ = c.AddTask("a")
	renders := len(view.renders)

	_, err := c.ToggleTask("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, c.DeleteTask("nope"), ErrTaskNotFound)
	_, err = c.EditTask("nope", func(string) (string, bool) { return "x", true })
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = c.RenameTask("nope", "x")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.Len(t, c.Tasks(), 1)
	assert.Len(t, view.renders, renders)
}

func TestIDAt(t *testing.T) {
	c, _, _ := setup(t)
	a, _ := c.AddTask("a")
	b, _ := c.AddTask("b")

	id, err := c.IDAt(2)
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
	id, err = c.IDAt(1)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	for _, pos := range []int{0, 3, -1} {
		_, err := c.IDAt(pos)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	}
}

func TestMemoryMatchesStorageAfterEveryOperation(t *testing.T) {
	c, backing, _ := setup(t)
	check := func() {
		t.Helper()
		assert.Equal(t, c.Tasks(), stored(t, backing))
	}

	a, err := c.AddTask("a")
	require.NoError(t, err)
	check()
	b, err := c.AddTask("b")
	require.NoError(t, err)
	check()
	_, err = c.ToggleTask(a.ID)
	require.NoError(t, err)
	check()
	_, err = c.RenameTask(b.ID, "bee")
	require.NoError(t, err)
	check()
	require.NoError(t, c.DeleteTask(a.ID))
	check()
	require.NoError(t, c.DeleteTask(b.ID))
	check()
}

func TestNew_UpgradesLegacyRecords(t *testing.T) {
	backing := kv.NewMem()
	require.NoError(t, backing.Set(StorageKey,
		[]byte(`[{"name":"old","completed":true},{"name":"older","completed":false}]`)))

	c, err := New(backing, nil, logger.Discard())
	require.NoError(t, err)

	tasks := c.Tasks()
	require.Len(t, tasks, 2)
	assert.NotEmpty(t, tasks[0].ID)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, tasks, stored(t, backing))
}

func TestNew_ReloadsPersistedTasks(t *testing.T) {
	c, backing, _ := setup(t)
	a, _ := c.AddTask("a")

	again, err := New(backing, nil, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, []model.Task{a}, again.Tasks())
}
