package renderer

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/richinsley/goripple/encoder"
	"github.com/richinsley/goripple/options"
)

// FrameWriter consumes rendered frames.
type FrameWriter interface {
	WriteFrame(frame *encoder.Frame) error
}

// RunRecord renders duration*fps frames without a display and hands each one
// to ffmpeg. A pointer press at the centre of the surface on the first frame
// starts a ripple.
func (r *Renderer) RunRecord(opts *options.RippleOptions) error {
	enc := encoder.New(opts, r.state.Width, r.state.Height)
	enc.Start()

	err := r.Record(opts, enc)
	if closeErr := enc.Close(); err == nil {
		err = closeErr
	}
	return err
}

// Record renders the frames of a recording into w.
func (r *Renderer) Record(opts *options.RippleOptions, w FrameWriter) error {
	if *opts.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", *opts.FPS)
	}
	totalFrames := int(math.Round(*opts.Duration * float64(*opts.FPS)))
	press := 0
	if opts.PressFrames != nil {
		press = *opts.PressFrames
	}
	log.Printf("Recording %d frames at %d fps (%dx%d)", totalFrames, *opts.FPS, r.state.Width, r.state.Height)

	// The display pass goes to an offscreen target; a hidden window's
	// default framebuffer contents are undefined.
	output, err := r.device.NewRenderTarget(r.state.Width, r.state.Height)
	if err != nil {
		return fmt.Errorf("failed to create record target: %w", err)
	}
	r.output = output
	defer func() {
		r.output = nil
		r.device.SetRenderTarget(nil)
		output.Destroy()
	}()

	start := time.Now()
	for i := 0; i < totalFrames; i++ {
		if press > 0 {
			switch i {
			case 0:
				r.PointerMove(float64(r.state.Width)/2, float64(r.state.Height)/2)
				r.PointerDown()
			case press:
				r.PointerUp()
			}
		}

		if err := r.Tick(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		// output is still bound after the display pass.
		pixels, err := r.device.ReadPixels(r.state.Width, r.state.Height)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := w.WriteFrame(&encoder.Frame{Pixels: pixels, PTS: int64(i)}); err != nil {
			return err
		}
		if (i+1)%(*opts.FPS) == 0 {
			log.Printf("Rendered %d/%d frames", i+1, totalFrames)
		}
	}
	log.Printf("Rendered %d frames in %v", totalFrames, time.Since(start))
	return nil
}
