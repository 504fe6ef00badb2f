// Package graphicstest provides an in-memory graphics.Device for tests.
package graphicstest

import (
	"fmt"

	"github.com/richinsley/goripple/graphics"
)

// Texture is a fake texture with a unique id.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

func (t *Texture) TextureID() uint32 { return t.ID }

func (t *Texture) Resolution() [3]float32 {
	return [3]float32{float32(t.Width), float32(t.Height), 1}
}

// Target is a fake render target.
type Target struct {
	Name      string
	tex       *Texture
	Destroyed bool
	// Reallocs counts SetSize calls that changed the size.
	Reallocs int
	// FailResize, when set, is returned by SetSize.
	FailResize error
}

func (t *Target) Texture() graphics.Texture { return t.tex }
func (t *Target) Size() (int, int)          { return t.tex.Width, t.tex.Height }

func (t *Target) SetSize(width, height int) error {
	if t.FailResize != nil {
		return t.FailResize
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	if width == t.tex.Width && height == t.tex.Height {
		return nil
	}
	t.tex.Width, t.tex.Height = width, height
	t.Reallocs++
	return nil
}

func (t *Target) Destroy() { t.Destroyed = true }

// Draw records one Render call.
type Draw struct {
	Material *graphics.Material
	// Target is nil when the draw went to the visible surface.
	Target *Target
	// Uniforms is a snapshot of the material's uniform values at draw time.
	// Textures are recorded as the TextureID they resolved to.
	Uniforms map[string]any
}

// Read records one ReadPixels call.
type Read struct {
	Target        *Target
	Width, Height int
}

// Device records what it is asked to do.
type Device struct {
	Targets  []*Target
	Textures []*Texture
	Draws    []Draw
	Reads    []Read
	Clears   int
	Viewport [2]int

	current *Target
	nextID  uint32
}

func NewDevice() *Device {
	return &Device{}
}

func (d *Device) newTexture(width, height int) *Texture {
	d.nextID++
	tex := &Texture{ID: d.nextID, Width: width, Height: height}
	d.Textures = append(d.Textures, tex)
	return tex
}

func (d *Device) NewRenderTarget(width, height int) (graphics.RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	t := &Target{Name: fmt.Sprintf("target%d", len(d.Targets)), tex: d.newTexture(width, height)}
	d.Targets = append(d.Targets, t)
	return t, nil
}

func (d *Device) NewTexture(width, height int, rgba []byte) (graphics.Texture, error) {
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("texture data is %d bytes, want %d", len(rgba), width*height*4)
	}
	return d.newTexture(width, height), nil
}

func (d *Device) SetRenderTarget(rt graphics.RenderTarget) {
	if rt == nil {
		d.current = nil
		return
	}
	d.current = rt.(*Target)
}

// Current returns the bound target, nil for the visible surface.
func (d *Device) Current() *Target { return d.current }

func (d *Device) SetViewport(width, height int) { d.Viewport = [2]int{width, height} }

func (d *Device) Clear() { d.Clears++ }

func (d *Device) Render(scene *graphics.Scene, camera *graphics.Camera) error {
	snap := make(map[string]any, len(scene.Material.Uniforms))
	for name, u := range scene.Material.Uniforms {
		if tex, ok := u.Value.(graphics.Texture); ok {
			snap[name] = tex.TextureID()
			continue
		}
		snap[name] = u.Value
	}
	d.Draws = append(d.Draws, Draw{Material: scene.Material, Target: d.current, Uniforms: snap})
	return nil
}

func (d *Device) ReadPixels(width, height int) ([]byte, error) {
	d.Reads = append(d.Reads, Read{Target: d.current, Width: width, Height: height})
	return make([]byte, width*height*4), nil
}

func (d *Device) Destroy() {}
