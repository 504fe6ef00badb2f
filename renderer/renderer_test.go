package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goripple/app"
	"github.com/richinsley/goripple/encoder"
	"github.com/richinsley/goripple/graphics"
	"github.com/richinsley/goripple/graphics/graphicstest"
	"github.com/richinsley/goripple/options"
)

func newTestRenderer(t *testing.T, width, height int) (*Renderer, *graphicstest.Device) {
	t.Helper()
	opts := options.Defaults()
	*opts.TexturePath = ""
	dev := graphicstest.NewDevice()
	r, err := NewRenderer(dev, app.NewState(width, height, 1), opts)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	t.Cleanup(r.Shutdown)
	return r, dev
}

func assertTargetSizes(t *testing.T, dev *graphicstest.Device, w, h int) {
	t.Helper()
	if len(dev.Targets) != 4 {
		t.Fatalf("render targets = %d, want 4", len(dev.Targets))
	}
	for i, rt := range dev.Targets {
		if gw, gh := rt.Size(); gw != w || gh != h {
			t.Errorf("target %d = %dx%d, want %dx%d", i, gw, gh, w, h)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	r, dev := newTestRenderer(t, 800, 600)
	assertTargetSizes(t, dev, 800, 600)

	for i := 0; i < 10; i++ {
		if err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.State().Frame; got != 10 {
		t.Errorf("frame counter = %d after 10 ticks, want 10", got)
	}

	r.PointerDown()
	for i := 0; i < 5; i++ {
		if err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if got := r.State().Frame; got != 5 {
		t.Errorf("frame counter = %d after press and 5 ticks, want 5", got)
	}
	if !r.State().Pressed() {
		t.Error("pressed flag not set")
	}

	r.PointerUp()
	if r.State().Pressed() {
		t.Error("pressed flag still set after pointer-up")
	}
	if got := r.State().Frame; got != 5 {
		t.Errorf("pointer-up changed the counter to %d", got)
	}
}

func TestTickFeedsSimulationBackIntoItself(t *testing.T) {
	r, dev := newTestRenderer(t, 64, 32)
	sim := r.SimulationBuffer()

	for i := 0; i < 4; i++ {
		prevRead := sim.ReadTarget()
		write := sim.WriteTarget()
		dev.Draws = nil

		if err := r.Tick(); err != nil {
			t.Fatal(err)
		}

		if len(dev.Draws) != 2 {
			t.Fatalf("tick %d: draws = %d, want 2", i, len(dev.Draws))
		}
		simDraw, display := dev.Draws[0], dev.Draws[1]

		if simDraw.Target != write {
			t.Errorf("tick %d: simulation did not render into the write target", i)
		}
		if simDraw.Uniforms["uChannel0"] != prevRead.Texture().TextureID() {
			t.Errorf("tick %d: simulation did not sample the previous frame", i)
		}
		if simDraw.Uniforms["uFrame"] != int32(i) {
			t.Errorf("tick %d: uFrame = %v", i, simDraw.Uniforms["uFrame"])
		}

		if display.Target != nil {
			t.Errorf("tick %d: display pass did not go to the screen", i)
		}
		if display.Uniforms["uChannel0"] != write.Texture().TextureID() {
			t.Errorf("tick %d: display pass did not sample the new simulation output", i)
		}
		if display.Uniforms["uChannel1"] == nil {
			t.Errorf("tick %d: background texture not bound", i)
		}
	}
}

func TestTickPassesMouseToSimulation(t *testing.T) {
	r, dev := newTestRenderer(t, 800, 600)
	r.PointerMove(100, 50)
	r.PointerDown()
	if err := r.Tick(); err != nil {
		t.Fatal(err)
	}

	got := dev.Draws[0].Uniforms["uMousePosition"]
	if got != (mgl32.Vec4{100, 550, 1, 0}) {
		t.Errorf("uMousePosition = %v, want [100 550 1 0]", got)
	}
	if res := dev.Draws[0].Uniforms["uResolution"]; res != (mgl32.Vec3{800, 600, 1}) {
		t.Errorf("uResolution = %v", res)
	}
}

func TestUniformIdentityStableAcrossTicks(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32)
	before := map[string]*graphics.Uniform{}
	for name, u := range r.bufferA.Uniforms {
		before[name] = u
	}
	for i := 0; i < 3; i++ {
		if err := r.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	for name, u := range r.bufferA.Uniforms {
		if before[name] != u {
			t.Errorf("uniform %s was replaced", name)
		}
	}
}

func TestResize(t *testing.T) {
	sizes := []struct{ w, h int }{{1024, 768}, {1, 1}, {600, 800}, {3840, 2160}}

	r, dev := newTestRenderer(t, 800, 600)
	for _, s := range sizes {
		if err := r.Resize(s.w, s.h); err != nil {
			t.Fatalf("Resize(%d, %d) error = %v", s.w, s.h, err)
		}
		assertTargetSizes(t, dev, s.w, s.h)
		if dev.Viewport != [2]int{s.w, s.h} {
			t.Errorf("viewport = %v, want %dx%d", dev.Viewport, s.w, s.h)
		}
		if want := float32(s.w) / float32(s.h); r.Camera().Aspect != want {
			t.Errorf("camera aspect = %v, want %v", r.Camera().Aspect, want)
		}
		if r.State().Width != s.w || r.State().Height != s.h {
			t.Errorf("state size = %dx%d", r.State().Width, r.State().Height)
		}
	}
}

func TestFramebufferResizedIgnoresMinimize(t *testing.T) {
	r, dev := newTestRenderer(t, 800, 600)
	r.FramebufferResized(0, 0)
	assertTargetSizes(t, dev, 800, 600)

	r.FramebufferResized(640, 480)
	assertTargetSizes(t, dev, 640, 480)
}

type fakeContext struct {
	frames int
	limit  int
}

func (c *fakeContext) MakeCurrent()                   {}
func (c *fakeContext) Shutdown()                      {}
func (c *fakeContext) ShouldClose() bool              { return c.frames >= c.limit }
func (c *fakeContext) EndFrame()                      { c.frames++ }
func (c *fakeContext) GetFramebufferSize() (int, int) { return 800, 600 }

func TestRunTicksOncePerFrame(t *testing.T) {
	r, dev := newTestRenderer(t, 800, 600)
	ctx := &fakeContext{limit: 7}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if r.State().Frame != 7 {
		t.Errorf("frame counter = %d, want 7", r.State().Frame)
	}
	if len(dev.Draws) != 14 {
		t.Errorf("draws = %d, want 14", len(dev.Draws))
	}
}

type frameSink struct {
	frames []*encoder.Frame
	err    error
}

func (s *frameSink) WriteFrame(f *encoder.Frame) error {
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, f)
	return nil
}

func TestRecord(t *testing.T) {
	r, dev := newTestRenderer(t, 40, 20)
	opts := options.Defaults()
	*opts.Duration = 0.5
	*opts.FPS = 20
	*opts.PressFrames = 3

	sink := &frameSink{}
	if err := r.Record(opts, sink); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if len(sink.frames) != 10 {
		t.Fatalf("frames = %d, want 10", len(sink.frames))
	}
	for i, f := range sink.frames {
		if f.PTS != int64(i) || len(f.Pixels) != 40*20*4 {
			t.Errorf("frame %d: pts %d, %d bytes", i, f.PTS, len(f.Pixels))
		}
	}

	if len(dev.Reads) != 10 {
		t.Fatalf("reads = %d, want 10", len(dev.Reads))
	}
	// Simulation draws are the even ones, display draws the odd ones.
	for i := 0; i < 10; i++ {
		display := dev.Draws[2*i+1]
		if display.Target == nil {
			t.Fatalf("frame %d: display pass drew to the window surface", i)
		}
		if dev.Reads[i].Target != display.Target {
			t.Errorf("frame %d: pixels read from a different target than the display pass drew to", i)
		}
		if w, h := display.Target.Size(); w != 40 || h != 20 {
			t.Errorf("frame %d: record target = %dx%d, want 40x20", i, w, h)
		}
	}
	if dev.Current() != nil {
		t.Error("record target left bound after Record")
	}
	if rt := dev.Draws[len(dev.Draws)-1].Target; !rt.Destroyed {
		t.Error("record target not destroyed")
	}

	for i := 0; i < 10; i++ {
		mouse := dev.Draws[2*i].Uniforms["uMousePosition"].(mgl32.Vec4)
		pressed := mouse[2] != 0
		if want := i < 3; pressed != want {
			t.Errorf("frame %d pressed = %v, want %v", i, pressed, want)
		}
		if i == 0 && (mouse[0] != 20 || mouse[1] != 10) {
			t.Errorf("press position = %v, want centre", mouse)
		}
	}
	if r.State().Frame != 10 {
		t.Errorf("frame counter = %d, want 10", r.State().Frame)
	}
}

func TestRecordStopsOnWriteError(t *testing.T) {
	r, _ := newTestRenderer(t, 8, 8)
	boom := errors.New("boom")
	if err := r.Record(options.Defaults(), &frameSink{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Record() error = %v, want %v", err, boom)
	}
}

func TestResetRestartsSimulation(t *testing.T) {
	r, dev := newTestRenderer(t, 16, 16)
	for i := 0; i < 3; i++ {
		r.Tick()
	}
	r.Reset()
	dev.Draws = nil
	if err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	if got := dev.Draws[0].Uniforms["uFrame"]; got != int32(0) {
		t.Errorf("uFrame after Reset = %v, want 0", got)
	}
}

func TestRecordThenRunDrawsToScreen(t *testing.T) {
	r, dev := newTestRenderer(t, 16, 16)
	opts := options.Defaults()
	*opts.Duration = 0.1
	*opts.FPS = 10
	if err := r.Record(opts, &frameSink{}); err != nil {
		t.Fatal(err)
	}

	dev.Draws = nil
	if err := r.Tick(); err != nil {
		t.Fatal(err)
	}
	if dev.Draws[1].Target != nil {
		t.Error("display pass still goes offscreen after recording finished")
	}
}

func TestResizeFailureKeepsSizes(t *testing.T) {
	tests := []struct {
		name   string
		target int // index into dev.Targets: 0,1 simulation; 2,3 display
	}{
		{"simulation first target", 0},
		{"simulation second target", 1},
		{"display first target", 2},
		{"display second target", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dev := newTestRenderer(t, 800, 600)
			boom := errors.New("out of memory")
			dev.Targets[tt.target].FailResize = boom

			if err := r.Resize(1024, 768); !errors.Is(err, boom) {
				t.Fatalf("Resize() error = %v, want %v", err, boom)
			}
			assertTargetSizes(t, dev, 800, 600)
			if r.State().Width != 800 || r.State().Height != 600 {
				t.Errorf("state size = %dx%d, want 800x600", r.State().Width, r.State().Height)
			}
			if want := float32(800) / 600; r.Camera().Aspect != want {
				t.Errorf("camera aspect = %v, want %v", r.Camera().Aspect, want)
			}
		})
	}
}

func TestBothPassesCoverViewport(t *testing.T) {
	r, _ := newTestRenderer(t, 800, 600)
	full := graphics.Quad{Width: 2, Height: 2}
	if r.bufferA.Scene.Quad != full {
		t.Errorf("simulation quad = %+v, want %+v", r.bufferA.Scene.Quad, full)
	}
	if r.image.Scene.Quad != full {
		t.Errorf("display quad = %+v, want %+v", r.image.Scene.Quad, full)
	}
}
