package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/ui"
)

const EmptyBudget = "No items yet!"

// BudgetRow is one rendered expense; the delete action binds to ID.
type BudgetRow struct {
	ID    int64
	Label string
	Type  string
	Cost  string
}

type BudgetView struct {
	Rows   []BudgetRow
	Totals model.Totals
}

// Budget builds the view for items with the given totals.
func Budget(items []model.BudgetItem, totals model.Totals) BudgetView {
	v := BudgetView{Rows: make([]BudgetRow, 0, len(items)), Totals: totals}
	for _, it := range items {
		v.Rows = append(v.Rows, BudgetRow{
			ID:    it.ID,
			Label: it.Item,
			Type:  string(it.Type),
			Cost:  FormatCost(it.Cost),
		})
	}
	return v
}

// FormatCost renders an amount as dollars with two decimals.
func FormatCost(v float64) string { return fmt.Sprintf("$%.2f", v) }

// TotalsLines is one "Category: $x.xx" line per category, in order.
func TotalsLines(totals model.Totals) []string {
	out := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		out = append(out, fmt.Sprintf("%s: %s", c, FormatCost(totals[c])))
	}
	return out
}

var budgetHeader = []string{"ID", "Item", "Type", "Cost"}

// BudgetTable renders rows as aligned columns; cost is right-aligned.
// Header cells are passed through style.
func BudgetTable(rows []BudgetRow, style func(string) string) []string {
	if len(rows) == 0 {
		return []string{EmptyBudget}
	}
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, budgetHeader)
	for _, r := range rows {
		cells = append(cells, []string{strconv.FormatInt(r.ID, 10), r.Label, r.Type, r.Cost})
	}

	widths := make([]int, len(budgetHeader))
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	out := make([]string, 0, len(cells))
	for n, row := range cells {
		parts := make([]string, len(row))
		for i, c := range row {
			gap := strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			if i == len(row)-1 {
				parts[i] = gap + c
			} else {
				parts[i] = c + gap
			}
			if n == 0 && style != nil {
				parts[i] = style(parts[i])
			}
		}
		out = append(out, strings.Join(parts, "  "))
	}
	return out
}

// BudgetPanel is the boxed listing printed by `budget ls`.
func BudgetPanel(v BudgetView) string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %s",
			ui.C(t.Title, "Budget"),
			ui.C(t.Accent, "Items"), len(v.Rows),
			ui.C(t.Accent, "Total"), FormatCost(v.Totals.Sum())),
		"",
	}
	lines = append(lines, BudgetTable(v.Rows, func(s string) string { return ui.C(t.Title, s) })...)
	lines = append(lines, "")
	lines = append(lines, TotalsLines(v.Totals)...)
	return ui.Panel(lines)
}
