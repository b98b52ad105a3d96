package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func TestRegistryDispatchAndTeardown(t *testing.T) {
	r := NewRegistry()

	var scrolled float32
	var resized []int
	wheel := r.On(EventMouseWheel, "page scroll", func(e Event) { scrolled += e.WheelY })
	r.On(EventWindowResize, "thresholds", func(e Event) { resized = append(resized, e.Width) })
	r.On(EventWindowResize, "camera aspect", func(e Event) { resized = append(resized, e.Height) })
	assert.Equal(t, Handle{}, r.On(EventMouseMove, "nil", nil))
	require.Equal(t, 3, r.Len())

	r.Dispatch(
		Event{Type: EventMouseWheel, WheelY: 2},
		Event{Type: EventWindowResize, Width: 800, Height: 600},
		Event{Type: EventKeyDown},
	)
	assert.Equal(t, float32(2), scrolled)
	assert.Equal(t, []int{800, 600}, resized, "registration order")

	assert.True(t, r.Off(wheel))
	assert.False(t, r.Off(wheel), "double removal is tolerated")
	r.Dispatch(Event{Type: EventMouseWheel, WheelY: 5})
	assert.Equal(t, float32(2), scrolled)

	assert.Equal(t, 2, r.Close())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Close())
}

func TestHandlesAreUnique(t *testing.T) {
	r := NewRegistry()
	seen := map[Handle]bool{}
	for i := 0; i < 50; i++ {
		h := r.On(EventKeyDown, "k", func(Event) {})
		require.False(t, seen[h])
		seen[h] = true
	}
	assert.Len(t, seen, 50)
	assert.Len(t, Handle{}.String(), 36)
}

func TestHandlerMayRemoveItself(t *testing.T) {
	r := NewRegistry()
	calls := 0
	var h Handle
	h = r.On(EventMouseDown, "once", func(Event) {
		calls++
		r.Off(h)
	})
	r.Dispatch(Event{Type: EventMouseDown}, Event{Type: EventMouseDown})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, r.Len())
}

func TestTranslate(t *testing.T) {
	ev, ok := Translate(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 1})
	require.True(t, ok)
	assert.Equal(t, EventMouseWheel, ev.Type)
	assert.Equal(t, float32(-1), ev.WheelY)

	ev, ok = Translate(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED})
	require.True(t, ok)
	assert.Equal(t, float32(1), ev.WheelY)

	ev, ok = Translate(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1024, Data2: 768})
	require.True(t, ok)
	assert.Equal(t, Event{Type: EventWindowResize, Width: 1024, Height: 768}, ev)

	ev, ok = Translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 5, Y: 6})
	require.True(t, ok)
	assert.Equal(t, EventMouseDown, ev.Type)
	assert.Equal(t, 5, ev.MouseX)

	ev, ok = Translate(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.Scancode(sdl.SCANCODE_PAGEDOWN)}})
	require.True(t, ok)
	assert.Equal(t, sdl.Scancode(sdl.SCANCODE_PAGEDOWN), ev.Key)

	_, ok = Translate(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED})
	assert.False(t, ok)

	assert.Equal(t, "wheel", EventMouseWheel.String())
}
