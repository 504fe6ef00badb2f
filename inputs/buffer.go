package inputs

import (
	"fmt"
	"log"

	"github.com/richinsley/goripple/graphics"
)

// Buffer manages two equally sized render targets for double-buffering.
// This allows for effects where a shader pass reads from the output of the previous frame.
type Buffer struct {
	device graphics.Device

	// Double-buffering resources
	targets    [2]graphics.RenderTarget
	readIndex  int // Index of the target to be read from (the result of the previous frame)
	writeIndex int // Index of the target to write to (the current frame)

	width  int
	height int
}

// NewBuffer allocates both render targets at width x height.
func NewBuffer(device graphics.Device, width, height int) (*Buffer, error) {
	b := &Buffer{
		device:     device,
		readIndex:  0,
		writeIndex: 1,
		width:      width,
		height:     height,
	}

	for i := 0; i < 2; i++ {
		rt, err := device.NewRenderTarget(width, height)
		if err != nil {
			b.Destroy()
			return nil, fmt.Errorf("render target %d for buffer: %w", i, err)
		}
		b.targets[i] = rt
	}
	return b, nil
}

// Render draws scene with camera. With toScreen the draw goes to the visible
// surface, otherwise into the write target. The read and write roles are
// exchanged afterwards in both cases.
func (b *Buffer) Render(scene *graphics.Scene, camera *graphics.Camera, toScreen bool) error {
	if toScreen {
		if err := b.device.Render(scene, camera); err != nil {
			return err
		}
	} else {
		b.device.SetRenderTarget(b.targets[b.writeIndex])
		b.device.Clear()
		err := b.device.Render(scene, camera)
		b.device.SetRenderTarget(nil)
		if err != nil {
			return err
		}
	}
	b.Swap()
	return nil
}

// Swap toggles the read/write indices.
func (b *Buffer) Swap() {
	b.readIndex, b.writeIndex = b.writeIndex, b.readIndex
}

// ReadTarget returns the target holding the most recent result.
func (b *Buffer) ReadTarget() graphics.RenderTarget {
	return b.targets[b.readIndex]
}

// WriteTarget returns the target the next offscreen render goes into.
func (b *Buffer) WriteTarget() graphics.RenderTarget {
	return b.targets[b.writeIndex]
}

// ReadTexture returns the texture that should be sampled (the result of the previous render).
func (b *Buffer) ReadTexture() graphics.Texture {
	return b.ReadTarget().Texture()
}

// Resize changes the size of both targets. Their contents are discarded.
// On failure both targets are left at the previous size.
func (b *Buffer) Resize(width, height int) error {
	for i, rt := range b.targets {
		if err := rt.SetSize(width, height); err != nil {
			for _, done := range b.targets[:i] {
				if rerr := done.SetSize(b.width, b.height); rerr != nil {
					log.Printf("Failed to restore render target to %dx%d: %v", b.width, b.height, rerr)
				}
			}
			return fmt.Errorf("resize render target %d: %w", i, err)
		}
	}
	b.width, b.height = width, height
	return nil
}

func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Destroy releases both render targets.
func (b *Buffer) Destroy() {
	for i, rt := range b.targets {
		if rt != nil {
			rt.Destroy()
			b.targets[i] = nil
		}
	}
}

// IChannel Interface Implementation. Binding the Buffer itself samples
// whichever target holds the latest result at draw time.
func (b *Buffer) TextureID() uint32      { return b.ReadTexture().TextureID() }
func (b *Buffer) Resolution() [3]float32 { return [3]float32{float32(b.width), float32(b.height), 1} }
func (b *Buffer) GetSamplerType() string { return "sampler2D" }
