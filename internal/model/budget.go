package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is the fixed budget classification.
type Category string

const (
	Essential Category = "Essential"
	Luxury    Category = "Luxury"
	Savings   Category = "Savings"
)

// Categories lists every category in display order.
var Categories = []Category{Essential, Luxury, Savings}

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidCost     = errors.New("invalid cost")
)

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against Categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownCategory, s, categoryList())
}

func categoryList() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// ParseCost parses a user-entered amount. A leading "$" is allowed.
// Non-numeric, non-finite and negative values are rejected.
func ParseCost(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCost)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCost, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidCost, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidCost, s)
	}
	return v, nil
}

// BudgetItem is one expense record. ID is the creation time in Unix
// milliseconds, bumped when needed to stay unique.
type BudgetItem struct {
	ID   int64    `json:"id"`
	Item string   `json:"item"`
	Cost float64  `json:"cost"`
	Type Category `json:"type"`
}

// Totals holds the per-category sum of costs.
type Totals map[Category]float64

// NewTotals returns totals with every category set to zero.
func NewTotals() Totals {
	t := make(Totals, len(Categories))
	for _, c := range Categories {
		t[c] = 0
	}
	return t
}

// Sum adds up all categories.
func (t Totals) Sum() float64 {
	var s float64
	for _, c := range Categories {
		s += t[c]
	}
	return s
}

// Vector returns the totals in Categories order.
func (t Totals) Vector() []float64 {
	out := make([]float64, len(Categories))
	for i, c := range Categories {
		out[i] = t[c]
	}
	return out
}

// EnsureUniqueIDs gives every repeat of an id a fresh one past the largest
// id in items. The first holder keeps it. Reports whether anything changed.
func EnsureUniqueIDs(items []BudgetItem) bool {
	var top int64
	for _, it := range items {
		top = max(top, it.ID)
	}
	seen := make(map[int64]bool, len(items))
	changed := false
	for i := range items {
		if seen[items[i].ID] {
			top++
			items[i].ID = top
			changed = true
		}
		seen[items[i].ID] = true
	}
	return changed
}
