package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goripple/graphics"
)

// texture is a 2D GL texture.
type texture struct {
	id            uint32
	width, height int
}

func (t *texture) TextureID() uint32 { return t.id }

func (t *texture) Resolution() [3]float32 {
	return [3]float32{float32(t.width), float32(t.height), 1}
}

func (t *texture) Destroy() {
	gl.DeleteTextures(1, &t.id)
}

// renderTarget is a framebuffer with a floating point colour attachment.
type renderTarget struct {
	fbo uint32
	tex texture
}

func newRenderTarget(width, height int) (*renderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	rt := &renderTarget{}

	gl.GenTextures(1, &rt.tex.id)
	gl.BindTexture(gl.TEXTURE_2D, rt.tex.id)
	// Use a floating-point texture format; the simulation stores signed values.
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	rt.tex.width, rt.tex.height = width, height

	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.tex.id, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	// Unbind to avoid accidental modifications
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.Destroy()
		return nil, fmt.Errorf("framebuffer is not complete (status 0x%x)", status)
	}
	return rt, nil
}

func (rt *renderTarget) Texture() graphics.Texture { return &rt.tex }

func (rt *renderTarget) Size() (int, int) { return rt.tex.width, rt.tex.height }

// SetSize respecifies the colour attachment's storage, discarding its contents.
func (rt *renderTarget) SetSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid render target size %dx%d", width, height)
	}
	if width == rt.tex.width && height == rt.tex.height {
		return nil
	}
	gl.BindTexture(gl.TEXTURE_2D, rt.tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	rt.tex.width, rt.tex.height = width, height
	return nil
}

func (rt *renderTarget) Destroy() {
	gl.DeleteFramebuffers(1, &rt.fbo)
	rt.tex.Destroy()
}
