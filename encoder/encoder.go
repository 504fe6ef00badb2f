package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	"github.com/richinsley/goripple/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const numBuffers = 3 // Frames queued between the render loop and ffmpeg

// Frame is one rendered frame of tightly packed RGBA pixels, bottom row first.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Encoder streams raw frames into an ffmpeg process.
type Encoder struct {
	width     int
	height    int
	frameSize int
	frames    chan *Frame
	done      chan error

	// run consumes the raw video stream until EOF.
	run func(r io.Reader) error
}

// GetArgs returns the ffmpeg input and output arguments for a raw RGBA stream
// of width x height frames.
func GetArgs(opts *options.RippleOptions, width, height int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": *opts.FPS,
	}

	// glReadPixels returns rows bottom-up.
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	codec := "h264"
	if opts.Codec != nil && *opts.Codec != "" {
		codec = *opts.Codec
	}
	switch runtime.GOOS {
	case "darwin":
		outputArgs["c:v"] = codec + "_videotoolbox"
	default:
		if codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}
	if codec == "hevc" && strings.HasSuffix(*opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// New prepares an encoder writing to opts.OutputFile. Call Start before WriteFrame.
func New(opts *options.RippleOptions, width, height int) *Encoder {
	e := newEncoder(width, height)
	inputArgs, outputArgs := GetArgs(opts, width, height)
	output := *opts.OutputFile
	ffmpegPath := ""
	if opts.FFMPEGPath != nil {
		ffmpegPath = *opts.FFMPEGPath
	}
	e.run = func(r io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs).
			Output(output, outputArgs).
			OverWriteOutput().WithInput(r).ErrorToStdOut()
		if ffmpegPath != "" {
			cmd = cmd.SetFfmpegPath(ffmpegPath)
		}
		log.Printf("Encoding %s with %v", output, outputArgs["c:v"])
		return cmd.Run()
	}
	return e
}

func newEncoder(width, height int) *Encoder {
	return &Encoder{
		width:     width,
		height:    height,
		frameSize: width * height * 4,
		frames:    make(chan *Frame, numBuffers),
		done:      make(chan error, 1),
	}
}

// Start launches ffmpeg and the goroutine feeding it.
func (e *Encoder) Start() {
	pipeReader, pipeWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := e.run(pipeReader)
		// Unblock the writer if ffmpeg exited early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	go func() {
		var writeErr error
		for frame := range e.frames {
			if writeErr != nil {
				continue
			}
			if _, err := pipeWriter.Write(frame.Pixels); err != nil {
				writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
				log.Println(writeErr)
			}
		}
		pipeWriter.Close()
		runErr := <-errc
		if runErr != nil {
			e.done <- fmt.Errorf("ffmpeg failed: %w", runErr)
			return
		}
		e.done <- writeErr
	}()
}

// WriteFrame queues a frame. It blocks while numBuffers frames are pending.
func (e *Encoder) WriteFrame(frame *Frame) error {
	if len(frame.Pixels) != e.frameSize {
		return fmt.Errorf("frame %d is %d bytes, want %d", frame.PTS, len(frame.Pixels), e.frameSize)
	}
	e.frames <- frame
	return nil
}

// Close flushes pending frames and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	close(e.frames)
	return <-e.done
}
