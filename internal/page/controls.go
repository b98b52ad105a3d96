package page

import "sort"

// Focus keys name the screen a project category brings the camera to.
const (
	FocusNone   = 0
	FocusMiddle = 1
	FocusRight  = 2
)

// Controls holds the state the project panels expose to the scene: the
// selected category, whether the visitor took over the camera, and which
// folder popups and text viewers are open.
type Controls struct {
	focus  int
	manual bool
	active map[string]bool
}

// NewControls returns controls with nothing selected.
func NewControls() *Controls {
	return &Controls{active: make(map[string]bool)}
}

// SelectCategory picks a project category by header index. Index 0 shows
// the middle screen and 1 the right one; other indexes are ignored.
// Returns whether the focus changed.
func (c *Controls) SelectCategory(index int) bool {
	var key int
	switch index {
	case 0:
		key = FocusMiddle
	case 1:
		key = FocusRight
	default:
		return false
	}
	if c.focus == key {
		return false
	}
	c.focus = key
	return true
}

// FocusKey returns the selected screen, FocusNone if none.
func (c *Controls) FocusKey() int { return c.focus }

// ClearFocus deselects the category.
func (c *Controls) ClearFocus() { c.focus = FocusNone }

// ClickHeader records that the visitor took manual control of the camera.
func (c *Controls) ClickHeader() { c.manual = true }

// ManualOverride reports whether the header was clicked since the last
// ClearOverride.
func (c *Controls) ManualOverride() bool { return c.manual }

// ClearOverride hands the camera back to the zone.
func (c *Controls) ClearOverride() { c.manual = false }

// Open marks a popup or text viewer active.
func (c *Controls) Open(id string) {
	if id != "" {
		c.active[id] = true
	}
}

// Close deactivates id. Closing something not open is a no-op.
func (c *Controls) Close(id string) { delete(c.active, id) }

// Toggle flips id and returns its new state.
func (c *Controls) Toggle(id string) bool {
	if c.active[id] {
		c.Close(id)
		return false
	}
	c.Open(id)
	return c.active[id]
}

// IsActive reports whether id is open.
func (c *Controls) IsActive(id string) bool { return c.active[id] }

// Active lists the open ids in sorted order.
func (c *Controls) Active() []string {
	ids := make([]string, 0, len(c.active))
	for id := range c.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CloseAll closes every popup and viewer and returns how many were open.
func (c *Controls) CloseAll() int {
	n := len(c.active)
	c.active = make(map[string]bool)
	return n
}
