// Package app holds the mutable state shared by the input callbacks and the
// frame loop.
package app

import "github.com/go-gl/mathgl/mgl32"

// State is read once per tick by the frame loop and written by input
// callbacks in between. Everything runs on the thread that owns the window,
// so there is no locking. Writes are last-write-wins.
type State struct {
	// Framebuffer size in pixels.
	Width  int
	Height int
	// Framebuffer pixels per window unit.
	PixelRatio float32
	// Mouse is (x, y, pressed, 0) in framebuffer pixels with y growing upwards.
	Mouse mgl32.Vec4
	// Frame is the value the next tick hands to the simulation.
	Frame int32
}

func NewState(width, height int, pixelRatio float32) *State {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &State{
		Width:      width,
		Height:     height,
		PixelRatio: pixelRatio,
	}
}

// PointerDown sets the pressed flag and restarts the simulation.
func (s *State) PointerDown() {
	s.Mouse[2] = 1
	s.Frame = 0
}

func (s *State) PointerUp() {
	s.Mouse[2] = 0
}

// PointerMove records a cursor position given in framebuffer pixels from the
// top-left corner.
func (s *State) PointerMove(x, y float64) {
	s.Mouse[0] = float32(x)
	s.Mouse[1] = float32(s.Height) - float32(y)
}

func (s *State) Resize(width, height int) {
	s.Width = width
	s.Height = height
}

func (s *State) Pressed() bool {
	return s.Mouse[2] != 0
}

// Tick returns the frame number for this tick and advances the counter.
func (s *State) Tick() int32 {
	f := s.Frame
	s.Frame++
	return f
}

// Resolution is the value of the uResolution uniform.
func (s *State) Resolution() mgl32.Vec3 {
	return mgl32.Vec3{float32(s.Width), float32(s.Height), s.PixelRatio}
}
