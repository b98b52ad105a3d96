// Package viewer implements the windowed frame loop around the scene
// coordinator.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/app"
	"github.com/nahome/folio3d/internal/assets"
	"github.com/nahome/folio3d/internal/config"
	"github.com/nahome/folio3d/internal/engine/camera"
	"github.com/nahome/folio3d/internal/engine/input"
	"github.com/nahome/folio3d/internal/engine/renderer"
	"github.com/nahome/folio3d/internal/engine/window"
	"github.com/nahome/folio3d/internal/logger"
)

var (
	background     = [4]float32{0.06, 0.06, 0.08, 1}
	mainColor      = [4]float32{0.95, 0.95, 0.95, 1}
	secondaryColor = [4]float32{0.45, 0.7, 0.95, 1}
)

// load is one model request and the coordinator hook that receives it.
type load struct {
	kind    string
	pending *assets.Pending
	attach  func(*assets.Model)
	settled bool
}

// Viewer is the main viewer instance.
type Viewer struct {
	config     *config.Config
	configPath string
	running    bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	registry *input.Registry
	assets   *assets.Manager
	coord    *app.Coordinator
	clock    *app.Clock

	loads   []*load
	reloads <-chan *config.Config

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New creates the window, renderer and coordinator and starts the model
// loads. configPath is watched for tuning changes when enabled; it may be
// empty.
func New(cfg *config.Config, configPath string) (*Viewer, error) {
	v := &Viewer{
		config:     cfg,
		configPath: configPath,
		log:        logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	tuning, err := app.TuningFrom(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Hidden:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: background,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	cam := camera.NewPerspective(cfg.Camera.FOV, float32(dw)/float32(dh), cfg.Camera.Near, cfg.Camera.Far)
	v.coord, err = app.New(tuning, cam, app.PageFrom(cfg.Page, float64(dh)), dw, dh)
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}

	v.input = input.New()
	v.registry = input.NewRegistry()
	v.clock = app.NewClock(cfg.Loop.FPSLimit, cfg.Loop.MaxDelta)
	v.ctx, v.cancel = context.WithCancel(context.Background())

	v.listen()
	v.startLoads()

	if cfg.Loop.WatchConfig && configPath != "" {
		if v.reloads, err = config.Watch(v.ctx, configPath); err != nil {
			v.log.Warn("config watch disabled", zap.String("path", configPath), zap.Error(err))
		} else {
			v.log.Info("watching config", zap.String("path", configPath))
		}
	}

	v.log.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) startLoads() {
	v.assets = assets.NewManager(v.config.Assets.DecoderPath)
	add := func(kind, path string, attach func(*assets.Model)) {
		if path == "" {
			return
		}
		v.loads = append(v.loads, &load{kind: kind, pending: v.assets.Load(v.ctx, path), attach: attach})
	}
	add("character", v.config.Assets.Character, v.coord.AttachCharacter)
	add("apps", v.config.Assets.Apps, v.coord.AttachApps)
	add("room", v.config.Assets.Room, v.coord.AttachRoom)
}

// listen registers every input listener. All of them are removed by Close.
func (v *Viewer) listen() {
	step := v.config.Page.ScrollStep

	v.registry.On(input.EventWindowResize, "resize", func(input.Event) {
		w, h := v.window.DrawableSize()
		v.renderer.Resize(w, h)
		v.coord.Resize(w, h)
	})
	v.registry.On(input.EventMouseWheel, "scroll", func(e input.Event) {
		v.coord.Scroll(float64(e.WheelY) * step)
	})
	v.registry.On(input.EventMouseMove, "face-tracking", func(e input.Event) {
		x, y := v.toPixels(e.MouseX, e.MouseY)
		v.coord.Point(x, y)
	})
	v.registry.On(input.EventMouseDown, "panel-click", func(e input.Event) {
		if e.Button != sdl.BUTTON_LEFT {
			return
		}
		x, y := v.toPixels(e.MouseX, e.MouseY)
		if name, ok := v.coord.Click(x, y); ok {
			v.log.Debug("panel toggled", zap.String("panel", name))
		}
	})
	v.registry.On(input.EventKeyDown, "keys", v.onKey)
}

func (v *Viewer) onKey(e input.Event) {
	pg := v.coord.Page()
	switch e.Key {
	case sdl.SCANCODE_PAGEDOWN, sdl.SCANCODE_SPACE:
		v.coord.Scroll(pg.Viewport())
	case sdl.SCANCODE_PAGEUP:
		v.coord.Scroll(-pg.Viewport())
	case sdl.SCANCODE_DOWN:
		v.coord.Scroll(v.config.Page.ScrollStep)
	case sdl.SCANCODE_UP:
		v.coord.Scroll(-v.config.Page.ScrollStep)
	case sdl.SCANCODE_HOME:
		v.coord.ScrollTo(0)
	case sdl.SCANCODE_END:
		v.coord.ScrollToEnd()
	case sdl.SCANCODE_H:
		v.coord.ClickHeader()
	case sdl.SCANCODE_1:
		v.coord.SelectCategory(0)
	case sdl.SCANCODE_2:
		v.coord.SelectCategory(1)
	case sdl.SCANCODE_F5:
		v.saveConfig()
	case sdl.SCANCODE_F12:
		dir := filepath.Join(config.ConfigDir(), "screenshots")
		if _, err := v.renderer.Screenshot(dir); err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
		}
	case sdl.SCANCODE_ESCAPE:
		// Esc closes open panels first, then quits.
		if v.coord.CloseAll() == 0 {
			v.running = false
		}
	}
}

// saveConfig writes the running config back with the current window size.
// With watching enabled the write comes back as a reload.
func (v *Viewer) saveConfig() {
	if !v.config.Window.Fullscreen {
		v.config.Window.Width, v.config.Window.Height = v.window.GetSize()
	}
	path, err := v.config.Save(v.configPath)
	if err != nil {
		v.log.Warn("config save failed", zap.Error(err))
		return
	}
	v.configPath = path
	v.log.Info("config saved", zap.String("path", path))
}

// toPixels converts window coordinates to drawable pixels.
func (v *Viewer) toPixels(x, y int) (int, int) {
	ww, wh := v.window.GetSize()
	dw, dh := v.window.DrawableSize()
	if ww <= 0 || wh <= 0 {
		return x, y
	}
	return x * dw / ww, y * dh / wh
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true
	v.window.Show()

	frameCount := 0
	renders := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.registry.Dispatch(v.input.Events()...)
		if !v.running {
			break
		}

		// 2. Deliver finished loads and config reloads
		v.poll()
		v.reload()

		// 3. Pace
		dt, ok := v.clock.Step(now)
		if !ok {
			time.Sleep(v.clock.Until(time.Now()))
			continue
		}

		// 4. Update and render dirty layers
		dirty := v.coord.Frame(dt)
		if dirty.Any() {
			renders++
		}
		v.render(dirty)

		// 5. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("frames", frameCount),
				zap.Int("renders", renders),
				zap.Stringer("zone", v.coord.Zone()),
				zap.Float64("scroll", v.coord.Page().Offset()),
				zap.Int("main_passes", v.renderer.Passes(renderer.LayerMain)),
				zap.Int("secondary_passes", v.renderer.Passes(renderer.LayerSecondary)),
				zap.Int("overlay_passes", v.renderer.Passes(renderer.LayerOverlay)))
			frameCount, renders = 0, 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// poll attaches models whose loads finished. Failed models stay absent for
// the session. Loading completes once every request settled.
func (v *Viewer) poll() {
	if v.coord.Loaded() {
		return
	}
	pending := 0
	for _, l := range v.loads {
		if l.settled {
			continue
		}
		if !l.pending.Ready() {
			pending++
			continue
		}
		l.settled = true
		m, err := l.pending.Result()
		if err != nil {
			v.log.Error("model load failed",
				zap.String("kind", l.kind),
				zap.String("path", l.pending.Path),
				zap.Error(err))
			continue
		}
		l.attach(m)
	}
	if pending == 0 {
		v.coord.LoadingComplete()
	}
}

func (v *Viewer) reload() {
	select {
	case cfg, ok := <-v.reloads:
		if !ok {
			v.reloads = nil
			return
		}
		t, err := app.TuningFrom(cfg)
		if err == nil {
			err = v.coord.Tune(t)
		}
		if err != nil {
			v.log.Warn("tuning rejected", zap.Error(err))
		}
	default:
	}
}

// render redraws the dirty layers and composites every layer.
func (v *Viewer) render(d app.Dirty) {
	vp := v.coord.Camera().ViewProjection()
	if d.Main {
		v.renderer.DrawScene(renderer.LayerMain, vp, v.coord.MainRoot(), mainColor)
	}
	if d.Secondary {
		v.renderer.DrawScene(renderer.LayerSecondary, vp, v.coord.SecondaryRoot(), secondaryColor)
	}
	if d.Overlay {
		v.renderer.DrawPanels(vp, v.coord.Panels())
	}
	v.renderer.Composite(v.coord.OverlayZ())
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.cancel != nil {
		v.cancel()
	}
	if v.registry != nil {
		n := v.registry.Close()
		v.log.Debug("listeners removed", zap.Int("count", n))
	}
	if v.assets != nil {
		v.assets.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
