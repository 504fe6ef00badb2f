// inputs/image.go
package inputs

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/richinsley/goripple/graphics"
	"golang.org/x/image/draw"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageChannel represents a static image texture input.
type ImageChannel struct {
	texture graphics.Texture
}

// vflip vertically flips the provided RGBA image so row 0 is the bottom of the picture,
// matching texture coordinates that grow upwards.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	// This is faster than calling At/Set for each pixel
	rowSize := bounds.Dx() * 4 // 4 bytes per pixel (RGBA)
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// toRGBA converts img to a tightly packed RGBA image with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Checkerboard returns a size x size image of 8 x 8 cells.
func Checkerboard(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	light := color.RGBA{R: 0xc8, G: 0xd8, B: 0xe8, A: 0xff}
	dark := color.RGBA{R: 0x30, G: 0x50, B: 0x70, A: 0xff}
	cell := size / 8
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, light)
			} else {
				img.SetRGBA(x, y, dark)
			}
		}
	}
	return img
}

// LoadImage decodes the image file at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Printf("Loaded %s texture %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// NewImageChannel uploads img as a texture. flip stores the rows bottom-up.
func NewImageChannel(device graphics.Device, index int, img image.Image, flip bool) (*ImageChannel, error) {
	if img == nil {
		return nil, fmt.Errorf("input image for channel %d is nil", index)
	}

	rgba := toRGBA(img)
	if flip {
		rgba = vflip(rgba)
	}

	size := rgba.Rect.Size()
	tex, err := device.NewTexture(size.X, size.Y, rgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("upload texture for channel %d: %w", index, err)
	}

	return &ImageChannel{texture: tex}, nil
}

// NewImageChannelFromFile loads path and uploads it. When the file can't be
// read or decoded a checkerboard is used instead so the effect still has a
// background to refract.
func NewImageChannelFromFile(device graphics.Device, index int, path string, flip bool) (*ImageChannel, error) {
	var img image.Image = Checkerboard(256)
	if path != "" {
		loaded, err := LoadImage(path)
		if err != nil {
			log.Printf("Warning: channel %d: %v; using checkerboard", index, err)
		} else {
			img = loaded
		}
	}

	return NewImageChannel(device, index, img, flip)
}

// --- IChannel Interface Implementation ---
func (c *ImageChannel) TextureID() uint32 {
	return c.texture.TextureID()
}

func (c *ImageChannel) Resolution() [3]float32 {
	return c.texture.Resolution()
}

func (c *ImageChannel) Destroy() {
	if d, ok := c.texture.(interface{ Destroy() }); ok {
		d.Destroy()
	}
}

func (c *ImageChannel) GetSamplerType() string {
	// All image inputs are treated as 2D textures.
	return "sampler2D"
}
