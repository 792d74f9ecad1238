package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/render"
	"github.com/idilsaglam/pocket/internal/todo"
	"github.com/idilsaglam/pocket/internal/ui"
)

// TaskSink is the todo.View the interactive list renders from.
type TaskSink struct {
	view  render.TaskView
	dirty bool
}

func NewTaskSink() *TaskSink { return &TaskSink{dirty: true} }

func (s *TaskSink) RenderTasks(tasks []model.Task) {
	s.view = render.Tasks(tasks)
	s.dirty = true
}

// listItem adapts a rendered row to bubbles/list.Item.
type listItem struct{ row render.TaskRow }

func (i listItem) Title() string       { return i.row.Label }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.row.Label }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box := ui.MutedStyle.Render(ui.Current().BoxUnchecked)
	text := it.row.Label
	if it.row.Completed {
		box = ui.SuccessStyle.Render(ui.Current().BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type editMode int

const (
	modeBrowse editMode = iota
	modeAdd
	modeEdit
)

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
)

// TodoModel is the interactive task list. Every action goes through the
// controller, which persists before the list is redrawn.
type TodoModel struct {
	ctrl *todo.Controller
	sink *TaskSink

	list   list.Model
	ti     textinput.Model
	mode   editMode
	editID string
	status string
	err    string

	width, height int
}

func NewTodoModel(ctrl *todo.Controller, sink *TaskSink) TodoModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, editBind, deleteBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := TodoModel{ctrl: ctrl, sink: sink, list: l, ti: ti, width: 80, height: 24}
	m.sync()
	return m
}

// RunTodo runs the interactive list until the user quits.
func RunTodo(ctrl *todo.Controller, sink *TaskSink) error {
	_, err := tea.NewProgram(NewTodoModel(ctrl, sink), tea.WithAltScreen()).Run()
	return err
}

func (m TodoModel) Init() tea.Cmd { return nil }

func (m TodoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		return m, nil
	}
	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	// esc clears an applied filter before it quits.
	if !ok || m.list.FilterState() == list.Filtering ||
		(km.String() == "esc" && m.list.FilterState() != list.Unfiltered) {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.err = ""
	switch km.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		if id, ok := m.selectedID(); ok {
			t, err := m.ctrl.ToggleTask(id)
			m.report(err, "toggled "+t.Name)
		}
		return m, nil
	case "d":
		if id, ok := m.selectedID(); ok {
			m.report(m.ctrl.DeleteTask(id), "deleted")
		}
		return m, nil
	case "a":
		m.mode = modeAdd
		m.ti.SetValue("")
		m.ti.Placeholder = "New task..."
		cmd := m.ti.Focus()
		return m, cmd
	case "e":
		if i, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = i.row.ID
			m.ti.SetValue(i.row.Label)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit task..."
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TodoModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			value := m.ti.Value()
			m.err = ""
			if m.mode == modeAdd {
				_, err := m.ctrl.AddTask(value)
				if errors.Is(err, todo.ErrEmptyName) {
					m.err = "Task name cannot be empty"
					return m, nil
				}
				m.report(err, "added")
			} else {
				t, err := m.ctrl.EditTask(m.editID, func(string) (string, bool) { return value, true })
				note := "renamed to " + t.Name
				if strings.TrimSpace(value) == "" {
					note = "unchanged"
				}
				m.report(err, note)
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *TodoModel) closeInput() {
	m.mode = modeBrowse
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

// report records the outcome of a controller call and redraws.
func (m *TodoModel) report(err error, ok string) {
	if err != nil {
		m.err = err.Error()
	} else {
		m.status = ok
	}
	m.sync()
}

// sync pulls the latest render into the list when the controller drew.
func (m *TodoModel) sync() {
	if !m.sink.dirty {
		return
	}
	m.sink.dirty = false
	v := m.sink.view
	items := make([]list.Item, len(v.Rows))
	for i, r := range v.Rows {
		items[i] = listItem{row: r}
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		ui.TitleStyle.Render("Todos"),
		ui.SuccessStyle.Render(ui.Current().SymDone), v.Done,
		ui.PendingStyle.Render(ui.Current().SymUnchecked), v.Pending,
		ui.AccentStyle.Render("Total"), len(v.Rows),
	)
}

func (m TodoModel) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m TodoModel) selectedID() (string, bool) {
	it, ok := m.selected()
	return it.row.ID, ok
}

func (m TodoModel) View() string {
	listHeight := m.height - 6
	if m.mode != modeBrowse {
		listHeight -= 3
	}
	m.list.SetSize(m.width-4, max(listHeight, 3))

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(ui.PendingStyle.Render(m.sink.view.Summary))
	switch {
	case m.err != "":
		b.WriteString("  " + ui.ErrorStyle.Render(m.err))
	case m.status != "":
		b.WriteString("  " + ui.MutedStyle.Render(m.status))
	}

	if m.mode != modeBrowse {
		title := "Add task"
		if m.mode == modeEdit {
			title = "Edit task (empty or esc keeps it)"
		}
		b.WriteString("\n" + ui.Frame(title+"\n"+m.ti.View()))
	}
	return ui.Frame(b.String())
}
