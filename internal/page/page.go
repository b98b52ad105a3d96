// Package page models the scrolling document that drives the scene, along
// with the state of the panels visitors click.
package page

import (
	"math"

	"github.com/nahome/folio3d/internal/engine/zone"
)

// Section is one vertical block of the page. A zero Height takes one
// viewport height, so the following section starts one screen down.
type Section struct {
	Name   string
	Height float64
}

// Placement is a section laid out for the current viewport.
type Placement struct {
	Name   string
	Top    float64
	Height float64
}

// Page tracks the scroll offset over a fixed set of sections.
type Page struct {
	sections []Section
	viewport float64
	margin   float64
	offset   float64
}

// New creates a page. margin is subtracted from section offsets to get
// the zone thresholds.
func New(sections []Section, viewport, margin float64) *Page {
	p := &Page{
		sections: append([]Section(nil), sections...),
		margin:   margin,
	}
	p.SetViewport(viewport)
	return p
}

// SetViewport changes the viewport height and keeps the offset in range.
func (p *Page) SetViewport(height float64) {
	if height < 0 {
		height = 0
	}
	p.viewport = height
	p.offset = p.clamp(p.offset)
}

// Viewport returns the viewport height.
func (p *Page) Viewport() float64 { return p.viewport }

// Offset returns the scroll offset.
func (p *Page) Offset() float64 { return p.offset }

// Layout returns the sections positioned for the current viewport.
func (p *Page) Layout() []Placement {
	out := make([]Placement, len(p.sections))
	top := 0.0
	for i, s := range p.sections {
		h := s.Height
		if h <= 0 {
			h = p.viewport
		}
		out[i] = Placement{Name: s.Name, Top: top, Height: h}
		top += h
	}
	return out
}

// Height returns the document height.
func (p *Page) Height() float64 {
	total := 0.0
	for _, pl := range p.Layout() {
		total += pl.Height
	}
	return total
}

// MaxOffset returns the largest reachable offset, never negative.
func (p *Page) MaxOffset() float64 {
	return max(0, p.Height()-p.viewport)
}

func (p *Page) clamp(y float64) float64 {
	return min(max(y, 0), p.MaxOffset())
}

// ScrollBy moves the offset by delta and returns the new offset.
func (p *Page) ScrollBy(delta float64) float64 {
	p.offset = p.clamp(p.offset + delta)
	return p.offset
}

// ScrollTo sets the offset and returns the clamped value.
func (p *Page) ScrollTo(y float64) float64 {
	p.offset = p.clamp(y)
	return p.offset
}

// Progress returns the offset as a fraction of the scrollable range.
func (p *Page) Progress() float64 {
	m := p.MaxOffset()
	if m <= 0 {
		return 0
	}
	return p.offset / m
}

// SectionTop returns the top of the named section.
func (p *Page) SectionTop(name string) (float64, bool) {
	for _, pl := range p.Layout() {
		if pl.Name == name {
			return pl.Top, true
		}
	}
	return 0, false
}

// Thresholds derives the zone boundaries from the about and projects
// sections. The zone of a missing section is never entered.
func (p *Page) Thresholds() zone.Thresholds {
	about, ok := p.SectionTop(zone.About.String())
	if !ok {
		about = math.Inf(1)
	}
	projects, ok := p.SectionTop(zone.Projects.String())
	if !ok {
		projects = math.Inf(1)
	}
	return zone.FromLayout(about, projects, p.margin)
}

// Zone classifies the current offset.
func (p *Page) Zone() zone.Zone {
	return zone.Classify(p.offset, p.Thresholds())
}
