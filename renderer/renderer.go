package renderer

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goframeview/graphics"
	"github.com/richinsley/goframeview/hud"
	"github.com/richinsley/goframeview/inputs"
	"github.com/richinsley/goframeview/session"
	shader "github.com/richinsley/goframeview/shader"
)

var glInitOnce sync.Once

// Viewer is a Renderable that also consumes input and advances with time.
type Viewer interface {
	graphics.Renderable
	HandleEvent(ev inputs.Event) []session.Mutation
	Poll(now float64) bool
	ShouldClose() bool
	Title() string
}

type Renderer struct {
	context  graphics.Context
	quadVAO  uint32
	quadVBO  uint32
	frame    *RenderPass
	overlay  *RenderPass
	frameTex *Texture
	hudTex   *Texture

	frameKey graphics.TextureKey
	hasFrame bool
	hudKey   hud.Key
	hasHUD   bool

	// Background fills the window outside the frame.
	Background [3]float32
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// NewRenderer makes ctx current, loads the GL bindings and builds both passes.
func NewRenderer(ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		Background: [3]float32{0.16, 0.16, 0.18},
	}

	// Make the context current BEFORE initializing OpenGL.
	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	if err := r.InitScene(); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

// InitScene creates the fullscreen quad, the frame and HUD programs and
// their textures.
func (r *Renderer) InitScene() error {
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	var err error
	r.frame, err = newRenderPass(shader.GetFrameFragmentShader(),
		"uFrame", "uInverseModel", "uFrameSize", "uScale", "uCrop", "uHasCrop", "uBackground")
	if err != nil {
		return fmt.Errorf("failed to create frame pass: %w", err)
	}
	r.overlay, err = newRenderPass(shader.GetHUDFragmentShader(), "uHud", "uHudSize")
	if err != nil {
		return fmt.Errorf("failed to create HUD pass: %w", err)
	}
	r.frameTex = NewTexture()
	r.hudTex = NewTexture()
	return nil
}

func (r *Renderer) Shutdown() {
	if r.frame != nil {
		r.frame.Destroy()
	}
	if r.overlay != nil {
		r.overlay.Destroy()
	}
	if r.frameTex != nil {
		r.frameTex.Destroy()
	}
	if r.hudTex != nil {
		r.hudTex.Destroy()
	}
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}

// Draw renders one frame of v into the default framebuffer.
func (r *Renderer) Draw(v graphics.Renderable) {
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(r.Background[0], r.Background[1], r.Background[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindVertexArray(r.quadVAO)

	src := v.ActivePixelSource()
	if key := src.Key(); !r.hasFrame || key != r.frameKey {
		r.frameTex.Upload(src.Pixels())
		r.frameKey, r.hasFrame = key, true
	}
	overlay := v.Overlay()
	model := v.ModelTransform()
	if inv, ok := model.Invert(); ok {
		r.drawFrame(inv.Mat4(), math.Hypot(model[0], model[3]), src, overlay)
	}

	if key := hud.KeyOf(fbWidth, overlay); !r.hasHUD || key != r.hudKey {
		r.hudTex.Upload(hud.Draw(fbWidth, overlay))
		r.hudKey, r.hasHUD = key, true
	}
	r.drawHUD(fbWidth)

	gl.BindVertexArray(0)
}

func (r *Renderer) drawFrame(inverse [16]float32, scale float64, src graphics.PixelSource, o graphics.Overlay) {
	p := r.frame
	w, h := src.Size()
	gl.UseProgram(p.ShaderProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.frameTex.ID)
	gl.Uniform1i(p.loc("uFrame"), 0)
	gl.UniformMatrix4fv(p.loc("uInverseModel"), 1, false, &inverse[0])
	gl.Uniform2f(p.loc("uFrameSize"), float32(w), float32(h))
	gl.Uniform1f(p.loc("uScale"), float32(scale))
	gl.Uniform3f(p.loc("uBackground"), r.Background[0], r.Background[1], r.Background[2])
	hasCrop := int32(0)
	if o.HasCrop {
		hasCrop = 1
	}
	gl.Uniform1i(p.loc("uHasCrop"), hasCrop)
	gl.Uniform4f(p.loc("uCrop"), float32(o.Crop[0]), float32(o.Crop[1]), float32(o.Crop[2]), float32(o.Crop[3]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) drawHUD(fbWidth int) {
	p := r.overlay
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.UseProgram(p.ShaderProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.hudTex.ID)
	gl.Uniform1i(p.loc("uHud"), 0)
	gl.Uniform2f(p.loc("uHudSize"), float32(fbWidth), hud.Height)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.BLEND)
}

// Run drives v until the window or the viewer asks to close: queued input
// is dispatched, playback is polled with the context clock, and a frame is
// drawn per iteration.
func (r *Renderer) Run(v Viewer) {
	title := ""
	for !r.context.ShouldClose() {
		for _, ev := range r.context.PollEvents() {
			v.HandleEvent(ev)
		}
		v.Poll(r.context.Time())
		if v.ShouldClose() {
			r.context.SetShouldClose(true)
		}
		if t := v.Title(); t != title {
			r.context.SetTitle(t)
			title = t
		}
		r.Draw(v)
		r.context.EndFrame()
	}
}
