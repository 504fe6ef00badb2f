package graphics

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the frame and processes pending window events.
	EndFrame()
	GetFramebufferSize() (int, int)
}
