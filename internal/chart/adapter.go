package chart

import (
	"log/slog"

	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/model"
)

const DefaultRadius = 5

// Adapter keeps a pie on a canvas in step with the budget totals.
type Adapter struct {
	canvas Canvas
	radius int
	log    *slog.Logger
}

func NewAdapter(radius int, log *slog.Logger) *Adapter {
	if log == nil {
		log = logger.Get()
	}
	return &Adapter{radius: radius, log: log}
}

// Update replaces the current pie with one for totals.
func (a *Adapter) Update(totals model.Totals) {
	err := a.canvas.Draw(func() (Chart, error) {
		return NewPie(totals, a.radius), nil
	})
	if err != nil {
		a.log.Warn("chart update failed", "err", err)
	}
}

func (a *Adapter) View() string { return a.canvas.View() }

// Canvas exposes the underlying canvas.
func (a *Adapter) Canvas() *Canvas { return &a.canvas }

// Close disposes the live chart.
func (a *Adapter) Close() error { return a.canvas.Close() }
