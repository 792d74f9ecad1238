package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/pocket/internal/model"
)

// Segment colours and glyphs per category. Glyphs keep segments apart
// when the terminal has no colour.
var (
	Colors = map[model.Category]lipgloss.Color{
		model.Essential: lipgloss.Color("#4CAF50"),
		model.Luxury:    lipgloss.Color("#FFA500"),
		model.Savings:   lipgloss.Color("#2196F3"),
	}
	Glyphs = map[model.Category]string{
		model.Essential: "█",
		model.Luxury:    "▓",
		model.Savings:   "▒",
	}
)

const (
	emptyGlyph = "·"
	NoData     = "no data"
)

type segment struct {
	cat   model.Category
	value float64
	frac  float64
}

// Pie is a circular chart over the category totals, legend below.
type Pie struct {
	radius   int
	segments []segment
	total    float64
	view     string
	closed   bool
}

// NewPie lays out one segment per category. Negative or non-finite totals
// count as zero.
func NewPie(totals model.Totals, radius int) *Pie {
	if radius < 2 {
		radius = 2
	}
	p := &Pie{radius: radius}
	for i, v := range totals.Vector() {
		c := model.Categories[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			v = 0
		}
		p.segments = append(p.segments, segment{cat: c, value: v})
		p.total += v
	}
	for i := range p.segments {
		if p.total > 0 {
			p.segments[i].frac = p.segments[i].value / p.total
		}
	}
	p.view = p.draw()
	return p
}

func (p *Pie) View() string {
	if p.closed {
		return ""
	}
	return p.view
}

func (p *Pie) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	p.view = ""
	p.segments = nil
	return nil
}

func (p *Pie) Closed() bool { return p.closed }

// segmentAt maps an angle measured clockwise from twelve o'clock, as a
// fraction of a full turn, to its segment.
func (p *Pie) segmentAt(turn float64) *segment {
	acc := 0.0
	for i := range p.segments {
		acc += p.segments[i].frac
		if turn < acc {
			return &p.segments[i]
		}
	}
	// Rounding can leave a sliver past the last boundary.
	for i := len(p.segments) - 1; i >= 0; i-- {
		if p.segments[i].frac > 0 {
			return &p.segments[i]
		}
	}
	return nil
}

func (p *Pie) draw() string {
	r := float64(p.radius)
	var b strings.Builder
	for y := -p.radius; y <= p.radius; y++ {
		var row strings.Builder
		// Cells are about twice as tall as wide.
		for x := -2 * p.radius; x <= 2*p.radius; x++ {
			fx, fy := float64(x)/2, float64(y)
			if fx*fx+fy*fy > r*r+0.5 {
				row.WriteString(" ")
				continue
			}
			row.WriteString(p.cell(fx, fy))
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.legend())
	return b.String()
}

func (p *Pie) cell(x, y float64) string {
	if p.total == 0 {
		return emptyGlyph
	}
	turn := math.Atan2(x, -y) / (2 * math.Pi)
	if turn < 0 {
		turn++
	}
	s := p.segmentAt(turn)
	if s == nil {
		return emptyGlyph
	}
	return lipgloss.NewStyle().Foreground(Colors[s.cat]).Render(Glyphs[s.cat])
}

func (p *Pie) legend() string {
	if p.total == 0 {
		return NoData
	}
	lines := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		key := lipgloss.NewStyle().Foreground(Colors[s.cat]).Render(Glyphs[s.cat])
		lines = append(lines, fmt.Sprintf("%s %-9s $%.2f  %5.1f%%", key, s.cat, s.value, s.frac*100))
	}
	return strings.Join(lines, "\n")
}
