// Package gldevice implements graphics.Device on an OpenGL 4.1 core context.
package gldevice

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goripple/graphics"
)

// Add a package-level variable to ensure gl.Init() is called only once.
var glInitOnce sync.Once

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// Device draws scenes with OpenGL. All methods must be called on the thread
// that owns the context.
type Device struct {
	context  graphics.Context
	quadVAO  uint32
	quadVBO  uint32
	programs map[*graphics.Material]*program
	current  *renderTarget
	// Size of the visible surface.
	viewportW int
	viewportH int
}

// New makes ctx current, loads the GL function pointers and creates the
// full-screen quad every scene is drawn with.
func New(ctx graphics.Context) (*Device, error) {
	d := &Device{
		context:  ctx,
		programs: make(map[*graphics.Material]*program),
	}

	// Make the context current BEFORE initializing OpenGL.
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.GenVertexArrays(1, &d.quadVAO)
	gl.GenBuffers(1, &d.quadVBO)
	gl.BindVertexArray(d.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	d.viewportW, d.viewportH = ctx.GetFramebufferSize()
	return d, nil
}

func (d *Device) NewRenderTarget(width, height int) (graphics.RenderTarget, error) {
	return newRenderTarget(width, height)
}

// NewTexture uploads tightly packed RGBA8 pixels.
func (d *Device) NewTexture(width, height int, rgba []byte) (graphics.Texture, error) {
	if width <= 0 || height <= 0 || len(rgba) != width*height*4 {
		return nil, fmt.Errorf("invalid texture data: %dx%d with %d bytes", width, height, len(rgba))
	}
	t := &texture{width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// SetRenderTarget binds rt, or the visible surface when rt is nil, and sets
// the viewport to cover it.
func (d *Device) SetRenderTarget(rt graphics.RenderTarget) {
	if rt == nil {
		d.current = nil
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(d.viewportW), int32(d.viewportH))
		return
	}
	d.current = rt.(*renderTarget)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.current.fbo)
	gl.Viewport(0, 0, int32(d.current.tex.width), int32(d.current.tex.height))
}

// SetViewport records the size of the visible surface.
func (d *Device) SetViewport(width, height int) {
	d.viewportW, d.viewportH = width, height
	if d.current == nil {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
}

func (d *Device) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Render draws the scene's quad with its material into the bound target.
func (d *Device) Render(scene *graphics.Scene, camera *graphics.Camera) error {
	p, ok := d.programs[scene.Material]
	if !ok {
		var err error
		p, err = buildProgram(scene.Material)
		if err != nil {
			return err
		}
		d.programs[scene.Material] = p
	}

	gl.UseProgram(p.id)
	projection := mgl32.Ident4()
	if camera != nil {
		projection = camera.Projection()
	}
	if loc := p.location("uProjection"); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &projection[0])
	}
	if loc := p.location("uQuadSize"); loc != -1 {
		gl.Uniform2f(loc, scene.Quad.Width, scene.Quad.Height)
	}

	units, err := d.applyUniforms(p, scene.Material.Uniforms)
	if err != nil {
		return fmt.Errorf("material %s: %w", scene.Material.Name, err)
	}

	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	for unit := uint32(0); unit < units; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	return nil
}

// applyUniforms uploads every uniform the program uses and returns the number
// of texture units bound. Uniforms the program does not declare are skipped.
func (d *Device) applyUniforms(p *program, uniforms graphics.Uniforms) (uint32, error) {
	var unit uint32
	for _, name := range slices.Sorted(maps.Keys(uniforms)) {
		loc := p.location(name)
		if loc == -1 {
			continue
		}
		switch v := uniforms[name].Value.(type) {
		case nil:
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, 0)
			gl.Uniform1i(loc, int32(unit))
			unit++
		case graphics.Texture:
			if s, ok := v.(interface{ GetSamplerType() string }); ok && s.GetSamplerType() != "sampler2D" {
				return unit, fmt.Errorf("uniform %s: unsupported sampler type %s", name, s.GetSamplerType())
			}
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, v.TextureID())
			gl.Uniform1i(loc, int32(unit))
			unit++
		case float32:
			gl.Uniform1f(loc, v)
		case int32:
			gl.Uniform1i(loc, v)
		case int:
			gl.Uniform1i(loc, int32(v))
		case mgl32.Vec2:
			gl.Uniform2f(loc, v[0], v[1])
		case mgl32.Vec3:
			gl.Uniform3f(loc, v[0], v[1], v[2])
		case mgl32.Vec4:
			gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
		case mgl32.Mat4:
			gl.UniformMatrix4fv(loc, 1, false, &v[0])
		default:
			return unit, fmt.Errorf("uniform %s: unsupported value type %T", name, v)
		}
	}
	return unit, nil
}

// ReadPixels reads RGBA8 pixels from the bound framebuffer, bottom row first.
func (d *Device) ReadPixels(width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid read size %dx%d", width, height)
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("glReadPixels failed: 0x%x", e)
	}
	return pixels, nil
}

func (d *Device) Destroy() {
	for _, p := range d.programs {
		gl.DeleteProgram(p.id)
	}
	d.programs = nil
	gl.DeleteBuffers(1, &d.quadVBO)
	gl.DeleteVertexArrays(1, &d.quadVAO)
}
