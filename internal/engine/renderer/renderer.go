// Package renderer draws the scene layers into offscreen targets and
// composites them into the window.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/nahome/folio3d/internal/engine/projector"
	"github.com/nahome/folio3d/internal/logger"
	"github.com/nahome/folio3d/internal/scene"
)

// Config holds renderer configuration. Width and Height are the drawable
// size in pixels.
type Config struct {
	Width      int
	Height     int
	Background [4]float32
}

// Renderer owns the GL programs, the streaming vertex buffer and one
// offscreen target per layer.
type Renderer struct {
	config Config

	lines     *program
	composite *program

	vao      uint32
	vbo      uint32
	emptyVAO uint32

	targets [layerCount]*target
	passes  [layerCount]int

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if r.lines, err = compileProgram(lineVertexShader, lineFragmentShader); err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	if r.composite, err = compileProgram(compositeVertexShader, compositeFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("composite program: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &r.emptyVAO)

	for i := range r.targets {
		if r.targets[i], err = newTarget(int32(cfg.Width), int32(cfg.Height)); err != nil {
			r.Close()
			return nil, fmt.Errorf("%s layer: %w", Layer(i), err)
		}
	}

	gl.DepthFunc(gl.LESS)
	gl.LineWidth(1)

	r.log.Debug("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, t := range r.targets {
		if t != nil {
			t.destroy()
		}
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &r.emptyVAO)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	r.lines.delete()
	r.composite.delete()
}

// Resize handles drawable size changes.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	for _, t := range r.targets {
		t.resize(int32(width), int32(height))
	}
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Passes returns how many times layer has been redrawn.
func (r *Renderer) Passes(layer Layer) int { return r.passes[layer] }

// beginLayer binds the layer target with premultiplied alpha blending so
// the composite pass can stack layers.
func (r *Renderer) beginLayer(layer Layer) {
	r.targets[layer].begin()
	r.passes[layer]++
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
}

func (r *Renderer) draw(mode uint32, vertices []float32, color [4]float32) {
	if len(vertices) == 0 {
		return
	}
	r.lines.setVec4("uColor", color)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
}

// DrawScene redraws a 3D layer as the wireframe bounds of root's geometry.
func (r *Renderer) DrawScene(layer Layer, viewProj mgl32.Mat4, root *scene.Node, color [4]float32) {
	r.beginLayer(layer)
	r.lines.use()
	r.lines.setMat4("uViewProj", viewProj)
	r.draw(gl.LINES, SceneLines(root), color)
}

// DrawPanels redraws the overlay layer. Active panels are drawn opaque.
func (r *Renderer) DrawPanels(viewProj mgl32.Mat4, panels []*projector.Panel) {
	r.beginLayer(LayerOverlay)
	r.lines.use()
	r.lines.setMat4("uViewProj", viewProj)
	for _, p := range panels {
		color := p.Color
		if p.Active {
			color[3] = 1
		}
		r.draw(gl.TRIANGLES, PanelQuad(p), color)
	}
}

// Composite stacks every layer target into the window in z order. It runs
// every frame, whether or not any layer was redrawn.
func (r *Renderer) Composite(overlayZ int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	bg := r.config.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)

	r.composite.use()
	r.composite.setInt("uLayer", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.emptyVAO)
	for _, l := range Order(overlayZ) {
		gl.BindTexture(gl.TEXTURE_2D, r.targets[l].colorTexture)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
	}
	gl.BindVertexArray(0)
}
