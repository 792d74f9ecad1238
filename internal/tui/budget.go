package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/pocket/internal/budget"
	"github.com/idilsaglam/pocket/internal/chart"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/render"
	"github.com/idilsaglam/pocket/internal/ui"
)

// BudgetSink is the budget.View the interactive tracker renders from.
type BudgetSink struct {
	view render.BudgetView
}

func NewBudgetSink() *BudgetSink {
	return &BudgetSink{view: render.Budget(nil, model.NewTotals())}
}

func (s *BudgetSink) RenderBudget(items []model.BudgetItem, totals model.Totals) {
	s.view = render.Budget(items, totals)
}

// Focus order: the three form fields, then the table.
const (
	focusItem = iota
	focusCost
	focusType
	focusTable
	focusCount
)

type budgetKeys struct {
	Next, Prev, Submit, Cycle, Up, Down, Delete, Quit key.Binding
}

func (k budgetKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Cycle, k.Delete, k.Quit}
}

func (k budgetKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var budgetKeyMap = budgetKeys{
	Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Cycle:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "category")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete row")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// BudgetModel is the interactive expense tracker: a form, the item table,
// the totals and the pie chart.
type BudgetModel struct {
	ctrl  *budget.Controller
	sink  *BudgetSink
	chart *chart.Adapter

	item, cost textinput.Model
	category   int
	focus      int
	cursor     int
	help       help.Model

	status string
	err    string
}

func NewBudgetModel(ctrl *budget.Controller, sink *BudgetSink, ch *chart.Adapter) BudgetModel {
	item := textinput.New()
	item.Prompt = "Item: "
	item.Placeholder = "Rent"
	item.CharLimit = 120
	item.Focus()

	cost := textinput.New()
	cost.Prompt = "Cost: "
	cost.Placeholder = "0.00"
	cost.CharLimit = 32

	return BudgetModel{ctrl: ctrl, sink: sink, chart: ch, item: item, cost: cost, help: help.New()}
}

// RunBudget runs the interactive tracker until the user quits.
func RunBudget(ctrl *budget.Controller, sink *BudgetSink, ch *chart.Adapter) error {
	_, err := tea.NewProgram(NewBudgetModel(ctrl, sink, ch), tea.WithAltScreen()).Run()
	return err
}

func (m BudgetModel) Init() tea.Cmd { return textinput.Blink }

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(km, budgetKeyMap.Quit):
		return m, tea.Quit
	case key.Matches(km, budgetKeyMap.Next):
		cmd = m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case key.Matches(km, budgetKeyMap.Prev):
		cmd = m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case key.Matches(km, budgetKeyMap.Submit) && m.focus != focusTable:
		cmd = m.submit()
		return m, cmd
	}

	switch m.focus {
	case focusType:
		switch {
		case km.String() == "left":
			m.category = (m.category + len(model.Categories) - 1) % len(model.Categories)
		case km.String() == "right":
			m.category = (m.category + 1) % len(model.Categories)
		case km.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	case focusTable:
		rows := m.sink.view.Rows
		switch {
		case km.String() == "q":
			return m, tea.Quit
		case key.Matches(km, budgetKeyMap.Up):
			m.cursor = max(m.cursor-1, 0)
		case key.Matches(km, budgetKeyMap.Down):
			m.cursor = min(m.cursor+1, max(len(rows)-1, 0))
		case key.Matches(km, budgetKeyMap.Delete):
			if m.cursor < len(rows) {
				m.err = ""
				removed, err := m.ctrl.DeleteItem(rows[m.cursor].ID)
				switch {
				case err != nil:
					m.err = err.Error()
				case removed:
					m.status = "deleted " + rows[m.cursor].Label
				}
				m.cursor = min(m.cursor, max(len(m.sink.view.Rows)-1, 0))
			}
		}
		return m, nil
	}
	return m.updateInputs(msg)
}

func (m BudgetModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var c1, c2 tea.Cmd
	m.item, c1 = m.item.Update(msg)
	m.cost, c2 = m.cost.Update(msg)
	return m, tea.Batch(c1, c2)
}

func (m *BudgetModel) setFocus(f int) tea.Cmd {
	m.focus = f
	m.item.Blur()
	m.cost.Blur()
	switch f {
	case focusItem:
		return m.item.Focus()
	case focusCost:
		return m.cost.Focus()
	}
	return nil
}

// submit hands the raw form values to the controller. Validation failures
// stay on screen with the form intact; success resets the form.
func (m *BudgetModel) submit() tea.Cmd {
	m.err, m.status = "", ""
	it, err := m.ctrl.AddItem(m.item.Value(), m.cost.Value(), string(model.Categories[m.category]))
	if err != nil {
		var verr *budget.ValidationError
		if errors.As(err, &verr) {
			m.err = "invalid " + verr.Error()
		} else {
			m.err = err.Error()
		}
		return nil
	}
	m.status = "added " + it.Item
	m.item.SetValue("")
	m.cost.SetValue("")
	m.category = 0
	return m.setFocus(focusItem)
}

func (m BudgetModel) View() string {
	var form strings.Builder
	form.WriteString(ui.HeaderStyle.Render("Add expense") + "\n")
	form.WriteString(m.item.View() + "\n")
	form.WriteString(m.cost.View() + "\n")
	form.WriteString("Type: " + m.categoryView() + "\n")
	switch {
	case m.err != "":
		form.WriteString(ui.ErrorStyle.Render(m.err))
	case m.status != "":
		form.WriteString(ui.MutedStyle.Render(m.status))
	}

	v := m.sink.view
	table := render.BudgetTable(v.Rows, func(s string) string { return ui.HeaderStyle.Render(s) })
	if m.focus == focusTable && m.cursor+1 < len(table) && len(v.Rows) > 0 {
		// Line 0 is the header.
		table[m.cursor+1] = ui.SelectedStyle.Render(table[m.cursor+1])
	}

	totals := ui.TitleStyle.Render("Totals") + "\n" + strings.Join(render.TotalsLines(v.Totals), "\n")
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(4).Render(totals),
		m.chart.View(),
	)

	body := strings.Join([]string{
		form.String(),
		"",
		strings.Join(table, "\n"),
		"",
		summary,
		"",
		m.help.View(budgetKeyMap),
	}, "\n")
	return ui.Frame(body)
}

func (m BudgetModel) categoryView() string {
	parts := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		s := string(c)
		if i == m.category {
			s = lipgloss.NewStyle().Bold(true).Foreground(chart.Colors[c]).Render("[" + s + "]")
		} else {
			s = ui.MutedStyle.Render(" " + s + " ")
		}
		parts[i] = s
	}
	line := strings.Join(parts, " ")
	if m.focus == focusType {
		line = "‹ " + line + " ›"
	}
	return line
}
