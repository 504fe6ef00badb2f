package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goripple/app"
	"github.com/richinsley/goripple/gldevice"
	"github.com/richinsley/goripple/glfwcontext"
	"github.com/richinsley/goripple/options"
	"github.com/richinsley/goripple/renderer"
)

func runRipple(opts *options.RippleOptions) error {
	record := *opts.Mode == "record"

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window will be hidden (headless mode)
	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, !record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	device, err := gldevice.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	defer device.Destroy()

	fbWidth, fbHeight := ctx.GetFramebufferSize()
	scaleX, _ := ctx.ContentScale()
	// Pixel ratio is capped at 2 like the browser version of this effect.
	state := app.NewState(fbWidth, fbHeight, float32(min(scaleX, 2)))

	r, err := renderer.NewRenderer(device, state, opts)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if record {
		log.Println("Starting offscreen render loop...")
		if err := r.RunRecord(opts); err != nil {
			return fmt.Errorf("offscreen rendering failed: %w", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	ctx.SetInputHandler(r)
	ctx.RegisterKeyCallback(glfw.KeyR, r.Reset)
	log.Println("Starting interactive render loop...")
	return r.Run(ctx)
}

func init() {
	runtime.LockOSThread()
}

func main() {
	d := options.Defaults()

	// Command-line flags
	opts := &options.RippleOptions{
		Help:        flag.Bool("help", false, "Show help message"),
		Mode:        flag.String("mode", *d.Mode, "Mode: interactive or record"),
		Width:       flag.Int("width", *d.Width, "Width of the window or recording"),
		Height:      flag.Int("height", *d.Height, "Height of the window or recording"),
		TexturePath: flag.String("texture", *d.TexturePath, "Background image refracted by the water"),
		VFlip:       flag.Bool("vflip", *d.VFlip, "Flip the background image vertically on upload"),
		Duration:    flag.Float64("duration", *d.Duration, "Duration to record in seconds"),
		FPS:         flag.Int("fps", *d.FPS, "Frames per second for recording"),
		OutputFile:  flag.String("output", *d.OutputFile, "Output file name for recording"),
		Codec:       flag.String("codec", *d.Codec, "Video codec for recording: h264 or hevc"),
		FFMPEGPath:  flag.String("ffmpeg", *d.FFMPEGPath, "Path to ffmpeg executable"),
		PressFrames: flag.Int("press", *d.PressFrames, "Record mode: frames to hold a press at the centre (0 disables)"),
	}

	flag.Parse()

	if *opts.Help {
		fmt.Println("Water ripple shader viewer/recorder")
		flag.PrintDefaults()
		return
	}

	switch *opts.Mode {
	case "interactive", "record":
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *opts.Mode)
		os.Exit(2)
	}

	if err := runRipple(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
