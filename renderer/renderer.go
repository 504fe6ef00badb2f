package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/goripple/app"
	"github.com/richinsley/goripple/graphics"
	"github.com/richinsley/goripple/inputs"
	"github.com/richinsley/goripple/material"
	"github.com/richinsley/goripple/options"
	"github.com/richinsley/goripple/shader"
)

// Renderer runs the two-pass ripple pipeline: a simulation pass that feeds
// back into itself through targetA, and a display pass drawn to the screen.
type Renderer struct {
	device graphics.Device
	state  *app.State
	camera *graphics.Camera

	targetA *inputs.Buffer // simulation feedback
	targetB *inputs.Buffer // display pass

	bufferA    *material.BufferShader
	image      *material.BufferShader
	background inputs.IChannel

	// output replaces the visible surface as the display pass destination
	// while recording.
	output graphics.RenderTarget
}

// NewRenderer allocates both buffer managers at the state's size and builds
// the simulation and display materials.
func NewRenderer(device graphics.Device, state *app.State, opts *options.RippleOptions) (*Renderer, error) {
	r := &Renderer{
		device: device,
		state:  state,
		camera: graphics.NewOrthographicCamera(-1, 1, 1, -1, 0, 1),
	}
	r.camera.SetViewport(state.Width, state.Height)
	device.SetViewport(state.Width, state.Height)

	var err error
	r.targetA, err = inputs.NewBuffer(device, state.Width, state.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation buffer: %w", err)
	}
	r.targetB, err = inputs.NewBuffer(device, state.Width, state.Height)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create display buffer: %w", err)
	}

	texturePath, vflip := "", true
	if opts != nil {
		if opts.TexturePath != nil {
			texturePath = *opts.TexturePath
		}
		if opts.VFlip != nil {
			vflip = *opts.VFlip
		}
	}
	background, err := inputs.NewImageChannelFromFile(device, 1, texturePath, vflip)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to load background texture: %w", err)
	}
	r.background = background

	// Both quads span the camera's full -1..1 frustum.
	r.bufferA = material.NewBufferShader("bufferA", shader.GetBufferFragmentShader(), graphics.Uniforms{
		"uResolution":    {Value: state.Resolution()},
		"uMousePosition": {Value: state.Mouse},
		"uChannel0":      {Value: nil},
		"uFrame":         {Value: int32(0)},
	}, 2, 2)

	r.image = material.NewBufferShader("image", shader.GetFinalFragmentShader(), graphics.Uniforms{
		"uResolution": {Value: state.Resolution()},
		"uChannel0":   {Value: nil},
		"uChannel1":   {Value: graphics.Texture(r.background)},
	}, 2, 2)

	return r, nil
}

// Tick advances the simulation by one frame and draws the result.
func (r *Renderer) Tick() error {
	frame := r.state.Tick()

	r.bufferA.UpdateUniforms(func(u graphics.Uniforms) {
		u.Set("uFrame", frame)
		u.Set("uMousePosition", r.state.Mouse)
		u.Set("uResolution", r.state.Resolution())
		u.Set("uChannel0", r.targetA)
	})
	if err := r.targetA.Render(r.bufferA.Scene, r.camera, false); err != nil {
		return fmt.Errorf("simulation pass: %w", err)
	}

	r.image.UpdateUniforms(func(u graphics.Uniforms) {
		u.Set("uResolution", r.state.Resolution())
		u.Set("uChannel0", r.targetA)
	})
	if r.output != nil {
		r.device.SetRenderTarget(r.output)
	}
	if err := r.targetB.Render(r.image.Scene, r.camera, true); err != nil {
		return fmt.Errorf("display pass: %w", err)
	}
	return nil
}

// Resize reallocates both buffer pairs and then updates the state, camera
// and viewport. If either pair fails both keep their previous size.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport size %dx%d", width, height)
	}
	prevW, prevH := r.targetA.Size()
	if err := r.targetA.Resize(width, height); err != nil {
		return fmt.Errorf("simulation buffer: %w", err)
	}
	if err := r.targetB.Resize(width, height); err != nil {
		if rerr := r.targetA.Resize(prevW, prevH); rerr != nil {
			log.Printf("Failed to restore simulation buffer to %dx%d: %v", prevW, prevH, rerr)
		}
		return fmt.Errorf("display buffer: %w", err)
	}
	r.state.Resize(width, height)
	r.camera.SetViewport(width, height)
	r.device.SetViewport(width, height)
	return nil
}

// The methods below make Renderer a glfwcontext.InputHandler.

func (r *Renderer) PointerDown()             { r.state.PointerDown() }
func (r *Renderer) PointerUp()               { r.state.PointerUp() }
func (r *Renderer) PointerMove(x, y float64) { r.state.PointerMove(x, y) }

// FramebufferResized is called from the window's resize callback. A minimised
// window reports 0x0, which leaves the buffers untouched.
func (r *Renderer) FramebufferResized(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	if err := r.Resize(width, height); err != nil {
		log.Printf("Failed to resize to %dx%d: %v", width, height, err)
		return
	}
	log.Printf("Resized render targets to %dx%d", width, height)
}

// Reset clears the simulation on the next tick without touching the pointer.
func (r *Renderer) Reset() {
	r.state.Frame = 0
}

// Run draws one frame per display refresh until the window is closed.
func (r *Renderer) Run(ctx graphics.Context) error {
	for !ctx.ShouldClose() {
		if err := r.Tick(); err != nil {
			return err
		}
		ctx.EndFrame()
	}
	return nil
}

func (r *Renderer) State() *app.State                { return r.state }
func (r *Renderer) Camera() *graphics.Camera         { return r.camera }
func (r *Renderer) SimulationBuffer() *inputs.Buffer { return r.targetA }
func (r *Renderer) DisplayBuffer() *inputs.Buffer    { return r.targetB }

// Shutdown releases the buffers and textures. The device and context are
// owned by the caller.
func (r *Renderer) Shutdown() {
	if r.targetA != nil {
		r.targetA.Destroy()
	}
	if r.targetB != nil {
		r.targetB.Destroy()
	}
	if r.background != nil {
		r.background.Destroy()
	}
}
