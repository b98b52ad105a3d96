package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahome/folio3d/internal/engine/zone"
)

func portfolio(viewport float64) *Page {
	return New([]Section{
		{Name: "home"},
		{Name: "about", Height: 2500},
		{Name: "projects", Height: 1600},
	}, viewport, 100)
}

func TestLayoutAndThresholds(t *testing.T) {
	p := portfolio(800)

	layout := p.Layout()
	require.Len(t, layout, 3)
	assert.Equal(t, Placement{Name: "home", Top: 0, Height: 800}, layout[0])
	assert.Equal(t, 800.0, layout[1].Top)
	assert.Equal(t, 3300.0, layout[2].Top)
	assert.Equal(t, 4900.0, p.Height())

	assert.Equal(t, zone.Thresholds{AboutStart: 700, ProjectsStart: 3200}, p.Thresholds())

	p.SetViewport(1000)
	assert.Equal(t, zone.Thresholds{AboutStart: 900, ProjectsStart: 3400}, p.Thresholds(), "reflows on resize")
}

func TestScrollClamps(t *testing.T) {
	p := portfolio(800)

	assert.Equal(t, 0.0, p.ScrollBy(-50))
	assert.Equal(t, 120.0, p.ScrollBy(120))
	assert.Equal(t, 4100.0, p.ScrollTo(1e9))
	assert.Equal(t, 1.0, p.Progress())
	assert.Equal(t, zone.Projects, p.Zone())

	p.ScrollTo(2050)
	assert.InDelta(t, 0.5, p.Progress(), 1e-9)
	assert.Equal(t, zone.About, p.Zone())

	short := New([]Section{{Name: "home", Height: 1000}}, 400, 0)
	short.ScrollTo(600)
	short.SetViewport(900)
	assert.Equal(t, 100.0, short.Offset(), "offset follows the shrinking range")
	assert.Equal(t, 1.0, short.Progress())
}

func TestEmptyDocument(t *testing.T) {
	p := New(nil, 600, 100)
	assert.Equal(t, 0.0, p.MaxOffset())
	assert.Equal(t, 0.0, p.ScrollBy(300))
	assert.Equal(t, 0.0, p.ScrollTo(-10))
	assert.Equal(t, zone.Home, p.Zone())

	_, ok := p.SectionTop("about")
	assert.False(t, ok)
}

func TestControls(t *testing.T) {
	c := NewControls()
	assert.Equal(t, FocusNone, c.FocusKey())

	assert.True(t, c.SelectCategory(0))
	assert.Equal(t, FocusMiddle, c.FocusKey())
	assert.False(t, c.SelectCategory(0))
	assert.True(t, c.SelectCategory(1))
	assert.Equal(t, FocusRight, c.FocusKey())
	assert.False(t, c.SelectCategory(5))
	assert.Equal(t, FocusRight, c.FocusKey())
	c.ClearFocus()
	assert.Equal(t, FocusNone, c.FocusKey())

	c.ClickHeader()
	assert.True(t, c.ManualOverride())
	c.ClearOverride()
	assert.False(t, c.ManualOverride())

	c.Open("popup-design")
	assert.True(t, c.Toggle("textViewer-1"))
	assert.False(t, c.Toggle("popup-design"))
	c.Open("")
	c.Close("never-opened")
	c.Open("popup-code")
	assert.Equal(t, []string{"popup-code", "textViewer-1"}, c.Active())
	assert.Equal(t, 2, c.CloseAll())
	assert.Empty(t, c.Active())
	assert.False(t, c.IsActive("popup-code"))
}
