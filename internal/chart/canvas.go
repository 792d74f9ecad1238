// Package chart draws the budget pie. A Canvas holds at most one live
// chart: drawing a new one always disposes the previous first.
package chart

import (
	"errors"
	"fmt"
)

// Chart is a drawn visualisation that owns resources until closed.
type Chart interface {
	View() string
	Close() error
}

var ErrClosed = errors.New("chart is closed")

type Canvas struct {
	current Chart
	drawn   int
}

// Draw disposes the current chart, if any, then installs the one built by
// build. When build fails the canvas is left empty.
func (c *Canvas) Draw(build func() (Chart, error)) error {
	if err := c.Close(); err != nil {
		return err
	}
	ch, err := build()
	if err != nil {
		return fmt.Errorf("draw chart: %w", err)
	}
	c.current = ch
	c.drawn++
	return nil
}

// Close disposes the current chart and empties the canvas.
func (c *Canvas) Close() error {
	if c.current == nil {
		return nil
	}
	prev := c.current
	c.current = nil
	if err := prev.Close(); err != nil {
		return fmt.Errorf("dispose chart: %w", err)
	}
	return nil
}

// Current is the live chart or nil.
func (c *Canvas) Current() Chart { return c.current }

// Drawn counts charts installed over the canvas lifetime.
func (c *Canvas) Drawn() int { return c.drawn }

func (c *Canvas) View() string {
	if c.current == nil {
		return ""
	}
	return c.current.View()
}
