package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/render"
	"github.com/idilsaglam/pocket/internal/todo"
	"github.com/idilsaglam/pocket/internal/tui"
	"github.com/idilsaglam/pocket/internal/ui"
)

// NewTodoCommand creates the root command of the task list manager.
func NewTodoCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo - a tiny task list",
		Long:          "Keep a task list on this machine. Positions come from `todo ls`.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRootFlags(cmd, opts)

	cmd.AddCommand(
		newTodoAdd(opts),
		newTodoList(opts),
		newTodoDone(opts),
		newTodoEdit(opts),
		newTodoRemove(opts),
		newTodoUI(opts),
	)
	return cmd
}

// withTasks opens storage and a controller for the duration of fn.
// The summary of the last render is printed after a successful mutation.
func withTasks(cmd *cobra.Command, opts *RootOptions, fn func(c *todo.Controller) error) error {
	a, err := openApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	var summary string
	view := todo.ViewFunc(func(tasks []model.Task) { summary = render.Summary(tasks) })
	c, err := todo.New(a.store, view, a.log)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.C(ui.Current().Muted, summary))
	return nil
}

func newTodoAdd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  minArgs(1, "todo add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(c *todo.Controller) error {
				if _, err := c.AddTask(strings.Join(args, " ")); err != nil {
					if errors.Is(err, todo.ErrEmptyName) {
						return usagef("add: empty title")
					}
					return err
				}
				ui.OK(cmd.OutOrStdout(), "added")
				return nil
			})
		},
	}
}

func newTodoList(opts *RootOptions) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  exactArgs(0, "todo ls [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := todo.New(a.store, nil, a.log)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.TaskPanel(render.Tasks(c.Tasks()), group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newTodoDone(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the task at a 1-based index",
		Args:  exactArgs(1, "todo done <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(c *todo.Controller) error {
				id, err := resolve(c, "done", args[0])
				if err != nil {
					return err
				}
				if _, err := c.ToggleTask(id); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "toggled")
				return nil
			})
		},
	}
}

func newTodoEdit(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> <title...>",
		Short: "Rename the task at a 1-based index",
		Args:  minArgs(2, "todo edit <index> <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(c *todo.Controller) error {
				id, err := resolve(c, "edit", args[0])
				if err != nil {
					return err
				}
				if _, err := c.RenameTask(id, strings.Join(args[1:], " ")); err != nil {
					if errors.Is(err, todo.ErrEmptyName) {
						return usagef("edit: empty title")
					}
					return err
				}
				ui.OK(cmd.OutOrStdout(), "renamed")
				return nil
			})
		},
	}
}

func newTodoRemove(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the task at a 1-based index",
		Args:  exactArgs(1, "todo rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd, opts, func(c *todo.Controller) error {
				id, err := resolve(c, "rm", args[0])
				if err != nil {
					return err
				}
				if err := c.DeleteTask(id); err != nil {
					return err
				}
				ui.OK(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}

func newTodoUI(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive list (space toggle, a add, e edit, d delete)",
		Args:  exactArgs(0, "todo ui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sink := tui.NewTaskSink()
			c, err := todo.New(a.store, sink, a.log)
			if err != nil {
				return err
			}
			if err := tui.RunTodo(c, sink); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

// resolve turns a 1-based position typed by the user into a task id.
func resolve(c *todo.Controller, verb, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", usagef("%s: not a number: %s", verb, arg)
	}
	id, err := c.IDAt(n)
	if err != nil {
		return "", &UsageError{
			Msg:  fmt.Sprintf("index out of range: have %d, got %d", len(c.Tasks()), n),
			Hint: "run `todo ls` to see valid indexes",
		}
	}
	return id, nil
}
