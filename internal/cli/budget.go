package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/pocket/internal/budget"
	"github.com/idilsaglam/pocket/internal/chart"
	"github.com/idilsaglam/pocket/internal/render"
	"github.com/idilsaglam/pocket/internal/tui"
	"github.com/idilsaglam/pocket/internal/ui"
)

// NewBudgetCommand creates the root command of the expense tracker.
func NewBudgetCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:           "budget",
		Short:         "budget - a personal expense tracker",
		Long:          "Track expenses as Essential, Luxury or Savings and see the split.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRootFlags(cmd, opts)

	cmd.AddCommand(
		newBudgetAdd(opts),
		newBudgetList(opts),
		newBudgetRemove(opts),
		newBudgetTotals(opts),
		newBudgetUI(opts),
	)
	return cmd
}

func withBudget(cmd *cobra.Command, opts *RootOptions, fn func(c *budget.Controller) error) error {
	a, err := openApp(cmd, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := budget.New(a.store, nil, a.log)
	if err != nil {
		return err
	}
	return fn(c)
}

func newBudgetAdd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add <item> <cost> <type>",
		Short:   "Add an expense; type is Essential, Luxury or Savings",
		Example: `  budget add Rent 1200 Essential` + "\n" + `  budget add "Movie night" 15 luxury`,
		Args:    exactArgs(3, "budget add <item> <cost> <type>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBudget(cmd, opts, func(c *budget.Controller) error {
				it, err := c.AddItem(args[0], args[1], args[2])
				if err != nil {
					var verr *budget.ValidationError
					if errors.As(err, &verr) {
						return &UsageError{Msg: "add", Err: verr}
					}
					return err
				}
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added %s %s (id %d)", it.Item, render.FormatCost(it.Cost), it.ID))
				return nil
			})
		},
	}
}

func newBudgetList(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List expenses with per-category totals",
		Args:  exactArgs(0, "budget ls"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBudget(cmd, opts, func(c *budget.Controller) error {
				fmt.Fprint(cmd.OutOrStdout(), render.BudgetPanel(render.Budget(c.Items(), c.Totals())))
				return nil
			})
		},
	}
}

func newBudgetRemove(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove the expense with the given id",
		Args:  exactArgs(1, "budget rm <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usagef("rm: not an id: %s", args[0])
			}
			return withBudget(cmd, opts, func(c *budget.Controller) error {
				removed, err := c.DeleteItem(id)
				if err != nil {
					return err
				}
				if !removed {
					return &UsageError{
						Msg:  fmt.Sprintf("rm: no item with id %d", id),
						Hint: "run `budget ls` to see ids",
					}
				}
				ui.OK(cmd.OutOrStdout(), "removed")
				return nil
			})
		},
	}
}

func newBudgetTotals(opts *RootOptions) *cobra.Command {
	var radius int
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print per-category totals and the pie chart",
		Args:  exactArgs(0, "budget totals"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBudget(cmd, opts, func(c *budget.Controller) error {
				ch := chart.NewAdapter(radius, nil)
				defer ch.Close()
				ch.Update(c.Totals())

				out := cmd.OutOrStdout()
				for _, ln := range render.TotalsLines(c.Totals()) {
					fmt.Fprintln(out, ln)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, ch.View())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&radius, "radius", chart.DefaultRadius, "pie radius in rows")
	return cmd
}

func newBudgetUI(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive tracker with form, table and chart",
		Args:  exactArgs(0, "budget ui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sink := tui.NewBudgetSink()
			ch := chart.NewAdapter(chart.DefaultRadius, a.log)
			defer ch.Close()

			c, err := budget.New(a.store, sink, a.log, budget.WithChart(ch))
			if err != nil {
				return err
			}
			if err := tui.RunBudget(c, sink, ch); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
