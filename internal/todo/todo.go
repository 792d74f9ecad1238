// Package todo holds the task list controller. Every operation mutates the
// store, persists, then re-renders the whole list.
package todo

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/store/jsonstore"
	"github.com/idilsaglam/pocket/internal/store/kv"
)

// StorageKey is the single key the task list lives under.
const StorageKey = "taskData"

var (
	ErrEmptyName    = errors.New("task name is empty")
	ErrTaskNotFound = errors.New("task not found")
)

// View receives the full sequence after every mutation.
type View interface {
	RenderTasks(tasks []model.Task)
}

// ViewFunc adapts a function to View.
type ViewFunc func(tasks []model.Task)

func (f ViewFunc) RenderTasks(tasks []model.Task) { f(tasks) }

// Prompter asks the user for a replacement name, pre-filled with current.
// ok is false when the user cancels.
type Prompter func(current string) (answer string, ok bool)

type Controller struct {
	store *jsonstore.Store[model.Task]
	view  View
	log   *slog.Logger
}

// New loads the task list from backing and renders it once.
func New(backing kv.KV, view View, log *slog.Logger) (*Controller, error) {
	if log == nil {
		log = logger.Get()
	}
	if view == nil {
		view = ViewFunc(func([]model.Task) {})
	}
	c := &Controller{
		store: jsonstore.New[model.Task](backing, StorageKey, log),
		view:  view,
		log:   log,
	}
	if err := c.store.Load(); err != nil {
		return nil, err
	}
	tasks := c.store.Items()
	if model.EnsureIDs(tasks) {
		log.Info("assigned ids to legacy tasks")
		if err := c.store.Replace(tasks); err != nil {
			return nil, err
		}
	}
	c.render()
	return c, nil
}

// Tasks returns the current sequence.
func (c *Controller) Tasks() []model.Task { return c.store.Items() }

// AddTask appends a task named by the trimmed name.
func (c *Controller) AddTask(name string) (model.Task, error) {
	if strings.TrimSpace(name) == "" {
		return model.Task{}, ErrEmptyName
	}
	task := model.NewTask(name)
	tasks := append(c.store.Items(), task)
	if err := c.commit(tasks); err != nil {
		return model.Task{}, err
	}
	c.log.Info("task added", "id", task.ID)
	return task, nil
}

// ToggleTask flips the completed flag of the task with id.
func (c *Controller) ToggleTask(id string) (model.Task, error) {
	return c.update(id, func(t *model.Task) { t.Completed = !t.Completed })
}

// EditTask asks prompt for a new name. Cancelling or answering blank is a
// no-op that neither persists nor re-renders.
func (c *Controller) EditTask(id string, prompt Prompter) (model.Task, error) {
	tasks := c.store.Items()
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	answer, ok := prompt(tasks[i].Name)
	if !ok || strings.TrimSpace(answer) == "" {
		return tasks[i], nil
	}
	return c.RenameTask(id, answer)
}

// RenameTask replaces the name of the task with id.
func (c *Controller) RenameTask(id, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrEmptyName
	}
	return c.update(id, func(t *model.Task) { t.Name = name })
}

// DeleteTask removes the task with id.
func (c *Controller) DeleteTask(id string) error {
	tasks := c.store.Items()
	i := indexOf(tasks, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err := c.commit(slices.Delete(tasks, i, i+1)); err != nil {
		return err
	}
	c.log.Info("task deleted", "id", id)
	return nil
}

// IDAt resolves a 1-based position, as shown by a listing, to a task id.
func (c *Controller) IDAt(pos int) (string, error) {
	tasks := c.store.Items()
	if pos < 1 || pos > len(tasks) {
		return "", fmt.Errorf("%w: position %d out of range (have %d)", ErrTaskNotFound, pos, len(tasks))
	}
	return tasks[pos-1].ID, nil
}

func (c *Controller) update(id string, fn func(*model.Task)) (model.Task, error) {
	tasks := c.store.Items()
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	fn(&tasks[i])
	if err := c.commit(tasks); err != nil {
		return model.Task{}, err
	}
	c.log.Debug("task updated", "id", id)
	return tasks[i], nil
}

func (c *Controller) commit(tasks []model.Task) error {
	if err := c.store.Replace(tasks); err != nil {
		return err
	}
	c.render()
	return nil
}

func (c *Controller) render() { c.view.RenderTasks(c.store.Items()) }

func indexOf(tasks []model.Task, id string) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}
