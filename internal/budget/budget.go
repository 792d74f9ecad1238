// Package budget holds the expense tracker controller and its aggregates.
package budget

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/store/jsonstore"
	"github.com/idilsaglam/pocket/internal/store/kv"
)

// StorageKey is the single key the budget lives under.
const StorageKey = "budgetItems"

var ErrEmptyLabel = errors.New("item label is empty")

// ValidationError reports which form field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// View receives the items and their totals after every mutation.
type View interface {
	RenderBudget(items []model.BudgetItem, totals model.Totals)
}

// ViewFunc adapts a function to View.
type ViewFunc func(items []model.BudgetItem, totals model.Totals)

func (f ViewFunc) RenderBudget(items []model.BudgetItem, totals model.Totals) { f(items, totals) }

// Chart is refreshed with the totals after every mutation.
type Chart interface {
	Update(totals model.Totals)
}

type Option func(*Controller)

// WithClock overrides time.Now for id generation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithChart attaches a chart that follows the totals.
func WithChart(ch Chart) Option {
	return func(c *Controller) { c.chart = ch }
}

type Controller struct {
	store *jsonstore.Store[model.BudgetItem]
	view  View
	chart Chart
	now   func() time.Time
	log   *slog.Logger
}

// New loads the budget from backing and renders it once.
func New(backing kv.KV, view View, log *slog.Logger, opts ...Option) (*Controller, error) {
	if log == nil {
		log = logger.Get()
	}
	if view == nil {
		view = ViewFunc(func([]model.BudgetItem, model.Totals) {})
	}
	c := &Controller{
		store: jsonstore.New[model.BudgetItem](backing, StorageKey, log),
		view:  view,
		now:   time.Now,
		log:   log,
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.store.Load(); err != nil {
		return nil, err
	}
	items := c.store.Items()
	if model.EnsureUniqueIDs(items) {
		log.Info("renumbered items with duplicate ids")
		if err := c.store.Replace(items); err != nil {
			return nil, err
		}
	}
	c.render()
	return c, nil
}

func (c *Controller) Items() []model.BudgetItem { return c.store.Items() }

func (c *Controller) Totals() model.Totals { return ComputeTotals(c.store.Items()) }

// AddItem validates the raw form values and appends a new record.
// Any failure is a *ValidationError and nothing is stored.
func (c *Controller) AddItem(label, costText, typeText string) (model.BudgetItem, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.BudgetItem{}, &ValidationError{Field: "item", Err: ErrEmptyLabel}
	}
	cost, err := model.ParseCost(costText)
	if err != nil {
		return model.BudgetItem{}, &ValidationError{Field: "cost", Err: err}
	}
	cat, err := model.ParseCategory(typeText)
	if err != nil {
		return model.BudgetItem{}, &ValidationError{Field: "type", Err: err}
	}

	items := c.store.Items()
	item := model.BudgetItem{
		ID:   c.nextID(items),
		Item: label,
		Cost: cost,
		Type: cat,
	}
	if err := c.commit(append(items, item)); err != nil {
		return model.BudgetItem{}, err
	}
	c.log.Info("item added", "id", item.ID, "type", item.Type)
	return item, nil
}

// DeleteItem removes the first record with id and reports whether one
// matched. An unknown id leaves storage untouched.
func (c *Controller) DeleteItem(id int64) (bool, error) {
	items := c.store.Items()
	i := slices.IndexFunc(items, func(it model.BudgetItem) bool { return it.ID == id })
	if i < 0 {
		return false, nil
	}
	if err := c.commit(slices.Delete(items, i, i+1)); err != nil {
		return false, err
	}
	c.log.Info("item deleted", "id", id)
	return true, nil
}

// nextID is the clock in milliseconds, bumped past the largest existing id.
func (c *Controller) nextID(items []model.BudgetItem) int64 {
	id := c.now().UnixMilli()
	for _, it := range items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

func (c *Controller) commit(items []model.BudgetItem) error {
	if err := c.store.Replace(items); err != nil {
		return fmt.Errorf("save budget: %w", err)
	}
	c.render()
	return nil
}

func (c *Controller) render() {
	items := c.store.Items()
	totals := ComputeTotals(items)
	c.view.RenderBudget(items, totals)
	if c.chart != nil {
		c.chart.Update(totals)
	}
}

// ComputeTotals sums cost per category from scratch. Records whose type is
// outside the category set are skipped.
func ComputeTotals(items []model.BudgetItem) model.Totals {
	totals := model.NewTotals()
	for _, it := range items {
		if !it.Type.Valid() {
			continue
		}
		totals[it.Type] += it.Cost
	}
	return totals
}
