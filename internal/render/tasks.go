// Package render projects record sequences into view models and text.
// Everything is recomputed from the full sequence on every call, so the
// same input always renders the same output.
package render

import (
	"fmt"

	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/ui"
)

const (
	EmptyTasks = "No tasks yet!"
	maxTitle   = 80
)

// TaskRow is one rendered task. Actions bind to ID; Pos is only a label.
type TaskRow struct {
	Pos       int
	ID        string
	Label     string
	Completed bool
}

type TaskView struct {
	Rows    []TaskRow
	Done    int
	Pending int
	Summary string
}

// Tasks builds the view for tasks.
func Tasks(tasks []model.Task) TaskView {
	v := TaskView{Rows: make([]TaskRow, 0, len(tasks))}
	for i, t := range tasks {
		v.Rows = append(v.Rows, TaskRow{Pos: i + 1, ID: t.ID, Label: t.Name, Completed: t.Completed})
		if t.Completed {
			v.Done++
		} else {
			v.Pending++
		}
	}
	v.Summary = Summary(tasks)
	return v
}

// Summary is the placeholder for an empty list, otherwise the pending count.
// A list where everything is done reads "Pending Tasks: 0".
func Summary(tasks []model.Task) string {
	if len(tasks) == 0 {
		return EmptyTasks
	}
	return fmt.Sprintf("Pending Tasks: %d", model.Pending(tasks))
}

// TaskLines renders one line per row.
func TaskLines(rows []TaskRow) []string {
	out := make([]string, 0, len(rows))
	t := ui.Current()
	for _, r := range rows {
		box, color := t.BoxUnchecked, t.Muted
		if r.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C(ui.Dim(), fmt.Sprintf("%2d.", r.Pos)), ui.C(color, box), truncate(r.Label)))
	}
	return out
}

// GroupedTaskLines renders pending rows then done rows under headings.
func GroupedTaskLines(rows []TaskRow) []string {
	var pend, done []TaskRow
	for _, r := range rows {
		if r.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	t := ui.Current()
	section := func(title string, rs []TaskRow) []string {
		lines := []string{ui.C(t.Accent, title)}
		if len(rs) == 0 {
			return append(lines, ui.C(t.Muted, "(none)"))
		}
		return append(lines, TaskLines(rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

// TaskPanel is the boxed listing printed by `todo ls`.
func TaskPanel(v TaskView, group bool) string {
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), v.Done,
		ui.C(t.Pending, t.SymUnchecked), v.Pending,
		ui.C(t.Accent, "Total"), len(v.Rows),
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(v.Done, len(v.Rows), 28)), ""}
	switch {
	case len(v.Rows) == 0:
	case group:
		lines = append(lines, GroupedTaskLines(v.Rows)...)
		lines = append(lines, "")
	default:
		lines = append(lines, TaskLines(v.Rows)...)
		lines = append(lines, "")
	}
	lines = append(lines, ui.C(t.Pending, v.Summary))
	return ui.Panel(lines)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxTitle {
		return string(r[:maxTitle-3]) + "..."
	}
	return s
}
